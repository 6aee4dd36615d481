package automaton

// Scan streams text through the automaton and returns how many recorded
// pattern occurrences it consumed.
//
// At every landing node the output chain is walked and each terminal count is
// added to the total, then zeroed. A second Scan over the same automaton only
// sees counts that the first one did not reach, so Scan is not idempotent.
// Calling Scan before BuildLinks panics.
func (a *Automaton) Scan(text string) int {
	if !a.linked {
		panic("automaton: Scan called before BuildLinks")
	}
	total := 0
	cur := root
	for _, r := range text {
		for cur != none {
			if _, ok := a.nodes[cur].next[r]; ok {
				break
			}
			cur = a.nodes[cur].fail
		}
		if cur == none {
			cur = root
			continue
		}
		cur = a.nodes[cur].next[r]

		for t := cur; t != none; t = a.nodes[t].out {
			total += a.nodes[t].count
			a.nodes[t].count = 0
		}
	}
	return total
}
