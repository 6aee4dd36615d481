package automaton

import (
	"fmt"

	ac "github.com/petar-dambovaliev/aho-corasick"
)

//
// Literal prefilter: one library Aho-Corasick pass that tells whether any
// dictionary entry occurs in a text at all. It never consumes anything, so it
// is safe to share between goroutines once built.
//

// -------------------- Statistics --------------------

type PrefilterStats struct {
	// Số pattern trong automaton của thư viện (sau dedupe)
	PatternCount int `json:"pattern_count"`
	// Pattern bị bỏ vì quá ngắn hoặc vượt MaxPatterns
	SkippedCount int `json:"skipped_count"`
}

func (s PrefilterStats) StrategyName() string {
	return fmt.Sprintf("AhoCorasick (%d patterns)", s.PatternCount)
}

// -------------------- Config --------------------

type PrefilterConfig struct {
	// Bỏ qua pattern quá ngắn
	MinPatternLength int `json:"min_pattern_length" yaml:"min_pattern_length"`
	// Giới hạn số pattern (0 = no limit). Vượt giới hạn thì prefilter tự tắt.
	MaxPatterns int `json:"max_patterns" yaml:"max_patterns"`
	// Công tắc tổng
	Enabled bool `json:"enabled" yaml:"enabled"`
}

func DefaultPrefilterConfig() PrefilterConfig {
	return PrefilterConfig{
		MinPatternLength: 1,
		MaxPatterns:      10000,
		Enabled:          true,
	}
}

func DisabledPrefilterConfig() PrefilterConfig {
	cfg := DefaultPrefilterConfig()
	cfg.Enabled = false
	return cfg
}

// -------------------- Prefilter --------------------

type LiteralPrefilter struct {
	// nil khi tắt hoặc không có pattern
	ac       *ac.AhoCorasick
	patterns []string
	stats    PrefilterStats
	cfg      PrefilterConfig
	// partial: có pattern bị bỏ vì quá ngắn, HasMatch không được phép loại text
	partial bool
}

type PrefilterMatch struct {
	Pattern string `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func (m PrefilterMatch) Len() int { return m.End - m.Start }

// NewPrefilter builds a prefilter over patterns. A prefilter that cannot
// decide (disabled, too many patterns, nothing usable) reports Active() == false.
func NewPrefilter(patterns []string, cfg PrefilterConfig) *LiteralPrefilter {
	p := &LiteralPrefilter{cfg: cfg}
	if !cfg.Enabled {
		return p
	}

	seen := make(map[string]struct{}, len(patterns))
	for _, v := range patterns {
		if v == "" {
			continue
		}
		if len([]rune(v)) < cfg.MinPatternLength {
			p.stats.SkippedCount++
			p.partial = true
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		p.patterns = append(p.patterns, v)
	}
	p.stats.PatternCount = len(p.patterns)

	if cfg.MaxPatterns > 0 && len(p.patterns) > cfg.MaxPatterns {
		// quá nhiều pattern: không build, để automaton chính xử lý
		p.stats.SkippedCount += len(p.patterns)
		p.patterns = nil
		p.stats.PatternCount = 0
		return p
	}
	if len(p.patterns) == 0 {
		return p
	}

	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ac.StandardMatch, // required for IterOverlapping
		DFA:                  true,
	})
	built := builder.Build(p.patterns)
	p.ac = &built
	return p
}

// Active reports whether HasMatch can be trusted to reject texts.
func (p *LiteralPrefilter) Active() bool { return p != nil && p.ac != nil }

func (p *LiteralPrefilter) Stats() PrefilterStats {
	if p == nil {
		return PrefilterStats{}
	}
	return p.stats
}

// HasMatch: có ít nhất một pattern xuất hiện trong text.
// Inactive or partial prefilter trả về true (cho qua).
func (p *LiteralPrefilter) HasMatch(text string) bool {
	if !p.Active() || p.partial {
		return true
	}
	return len(p.ac.FindAll(text)) > 0
}

// FindMatches returns every overlapping occurrence with byte offsets.
// Inactive prefilter returns nil.
func (p *LiteralPrefilter) FindMatches(text string) []PrefilterMatch {
	if !p.Active() {
		return nil
	}
	var out []PrefilterMatch
	iter := p.ac.IterOverlapping(text)
	for m := iter.Next(); m != nil; m = iter.Next() {
		idx := m.Pattern()
		pat := ""
		if idx >= 0 && idx < len(p.patterns) {
			pat = p.patterns[idx]
		}
		out = append(out, PrefilterMatch{Pattern: pat, Start: m.Start(), End: m.End()})
	}
	return out
}

// MatchedPatterns returns the distinct patterns seen in text, in first-seen order.
func (p *LiteralPrefilter) MatchedPatterns(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range p.FindMatches(text) {
		if !seen[m.Pattern] {
			seen[m.Pattern] = true
			out = append(out, m.Pattern)
		}
	}
	return out
}
