package automaton

// BuildLinks computes failure links for every non-root node and, when
// outputLinks is set, the output chain to the nearest terminal node reachable
// through failure links. Nodes are visited breadth-first so every failure
// target at a shallower depth is final before it is read.
//
// It must be called exactly once, after all insertions.
func (a *Automaton) BuildLinks(outputLinks bool) {
	if a.linked {
		panic("automaton: BuildLinks called twice")
	}
	a.linked = true

	// mức 1: fail = root
	q := make([]int, 0, len(a.nodes))
	for _, v := range a.nodes[root].next {
		a.nodes[v].fail = root
		q = append(q, v)
	}

	for h := 0; h < len(q); h++ {
		u := q[h]
		for r, v := range a.nodes[u].next {
			q = append(q, v)

			f := a.nodes[u].fail
			for f != none {
				if _, ok := a.nodes[f].next[r]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if f != none {
				a.nodes[v].fail = a.nodes[f].next[r]
			} else {
				a.nodes[v].fail = root
			}

			if outputLinks {
				fl := a.nodes[v].fail
				if a.nodes[fl].count > 0 {
					a.nodes[v].out = fl
				} else {
					a.nodes[v].out = a.nodes[fl].out
				}
			}
		}
	}
}
