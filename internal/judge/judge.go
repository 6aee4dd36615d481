// Package judge runs the batch counting loop: test-case count, then per case a
// pattern count, the patterns and one query text, all whitespace-delimited.
package judge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/PhucNguyen204/dictcount/pkg/automaton"
)

// Case is one answered test case.
type Case struct {
	Index    int      `json:"index"`
	Patterns []string `json:"patterns"`
	RawText  string   `json:"raw_text"`
	Text     string   `json:"text"`
	Count    int      `json:"count"`
}

var ErrUnexpectedEOF = errors.New("unexpected end of input")

type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next() (string, error) {
	if t.sc.Scan() {
		return t.sc.Text(), nil
	}
	if err := t.sc.Err(); err != nil {
		return "", err
	}
	return "", ErrUnexpectedEOF
}

func (t *tokenReader) nextCount(what string) (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", what, err)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", what, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("read %s: negative value %d", what, n)
	}
	return n, nil
}

// Run reads every test case from r, writes one count per line to w and returns
// the answered cases. Each case gets its own automaton.
func Run(r io.Reader, w io.Writer, opts automaton.CountOptions) ([]Case, error) {
	tr := newTokenReader(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	total, err := tr.nextCount("test case count")
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, total)
	for i := 0; i < total; i++ {
		c, err := readCase(tr, i)
		if err != nil {
			return cases, fmt.Errorf("case %d: %w", i+1, err)
		}
		res := automaton.Count(c.Patterns, c.RawText, opts)
		c.Text = res.Text
		c.Count = res.Count
		if _, err := fmt.Fprintln(bw, c.Count); err != nil {
			return cases, fmt.Errorf("case %d: write: %w", i+1, err)
		}
		cases = append(cases, c)
	}
	return cases, bw.Flush()
}

func readCase(tr *tokenReader, idx int) (Case, error) {
	n, err := tr.nextCount("pattern count")
	if err != nil {
		return Case{}, err
	}
	c := Case{Index: idx, Patterns: make([]string, 0, n)}
	for j := 0; j < n; j++ {
		p, err := tr.next()
		if err != nil {
			return Case{}, fmt.Errorf("read pattern %d: %w", j+1, err)
		}
		c.Patterns = append(c.Patterns, p)
	}
	if c.RawText, err = tr.next(); err != nil {
		return Case{}, fmt.Errorf("read text: %w", err)
	}
	return c, nil
}
