// Package automaton implements a consume-on-match Aho-Corasick automaton that
// counts dictionary occurrences in a text.
//
// Every terminal count contributes to a scan total at most once: after a node's
// count has been added it is zeroed, so later hits on the same node (in the same
// scan or in a later one) add nothing. One automaton answers one query.
package automaton

const (
	root = 0
	none = -1
)

// node là một trạng thái trong arena. Cạnh con là quan hệ sở hữu,
// fail/out chỉ là chỉ số tham chiếu ngược.
type node struct {
	next  map[rune]int // edges
	count int          // terminal count, zeroed when consumed
	fail  int          // failure link, none for root
	out   int          // output ("brother") link, none if no terminal on the fail chain
}

func newNode() node {
	return node{next: map[rune]int{}, fail: none, out: none}
}

// Automaton is not safe for concurrent use: Scan mutates terminal counts.
type Automaton struct {
	nodes    []node
	patterns int // patterns inserted (empty ones excluded)
	ignored  int // empty patterns skipped
	linked   bool
}

// Stats describes the shape of an automaton.
type Stats struct {
	NodeCount      int  `json:"node_count"`
	PatternCount   int  `json:"pattern_count"`
	IgnoredEmpty   int  `json:"ignored_empty"`
	Linked         bool `json:"linked"`
	OutputChained  int  `json:"output_chained"`
	PendingMatches int  `json:"pending_matches"`
}

// New returns an empty automaton holding only the root.
func New() *Automaton {
	return &Automaton{nodes: []node{newNode()}}
}

// Build inserts patterns in order and links the automaton with output chains.
func Build(patterns []string) *Automaton {
	a := New()
	for _, p := range patterns {
		a.Insert(p)
	}
	a.BuildLinks(true)
	return a
}

// Insert adds one pattern. Empty patterns are ignored and reported with false.
// Inserting the same pattern again increases its terminal count.
func (a *Automaton) Insert(pattern string) bool {
	if a.linked {
		panic("automaton: Insert called after BuildLinks")
	}
	if pattern == "" {
		a.ignored++
		return false
	}
	cur := root
	for _, r := range pattern {
		nxt, ok := a.nodes[cur].next[r]
		if !ok {
			nxt = len(a.nodes)
			a.nodes = append(a.nodes, newNode())
			a.nodes[cur].next[r] = nxt
		}
		cur = nxt
	}
	a.nodes[cur].count++
	a.patterns++
	return true
}

// Linked reports whether BuildLinks has run.
func (a *Automaton) Linked() bool { return a.linked }

// Stats reports node, pattern and pending terminal counts.
func (a *Automaton) Stats() Stats {
	s := Stats{
		NodeCount:    len(a.nodes),
		PatternCount: a.patterns,
		IgnoredEmpty: a.ignored,
		Linked:       a.linked,
	}
	for i := range a.nodes {
		if a.nodes[i].out != none {
			s.OutputChained++
		}
		s.PendingMatches += a.nodes[i].count
	}
	return s
}
