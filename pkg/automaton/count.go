package automaton

// CountOptions controls the one-shot Count pipeline.
type CountOptions struct {
	// Strip runes outside the accepted set before scanning.
	Precheck bool `json:"precheck" yaml:"precheck"`
	// Chain terminal nodes through output links. Without it only the landing
	// node of each step is counted.
	OutputLinks bool            `json:"output_links" yaml:"output_links"`
	Prefilter   PrefilterConfig `json:"prefilter" yaml:"prefilter"`
}

func DefaultCountOptions() CountOptions {
	return CountOptions{
		Precheck:    true,
		OutputLinks: true,
		Prefilter:   DefaultPrefilterConfig(),
	}
}

type CountResult struct {
	// Text actually scanned (after Precheck when enabled)
	Text  string `json:"text"`
	Count int    `json:"count"`
	// Nodes of the automaton built for this query, 0 when prefiltered
	Nodes int `json:"nodes"`
	// Prefiltered is true when no literal occurred and the scan was skipped
	Prefiltered bool `json:"prefiltered"`
}

// Count builds a fresh automaton for patterns, scans text once and discards it.
func Count(patterns []string, text string, opts CountOptions) CountResult {
	if opts.Precheck {
		text = Precheck(text)
	}
	res := CountResult{Text: text}

	if opts.Prefilter.Enabled {
		if pf := NewPrefilter(patterns, opts.Prefilter); pf.Active() && !pf.HasMatch(text) {
			res.Prefiltered = true
			return res
		}
	}

	a := New()
	for _, p := range patterns {
		a.Insert(p)
	}
	a.BuildLinks(opts.OutputLinks)
	res.Nodes = len(a.nodes)
	res.Count = a.Scan(text)
	return res
}
