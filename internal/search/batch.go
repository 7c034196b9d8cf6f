// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package search

import (
	"strings"
	"sync"

	"github.com/shenwei356/pepsearch/internal/proteins"
)

// Query is one peptide lookup request, with the options that govern it.
type Query struct {
	Sequence string
	Cutoff   int
	EquateIL bool
	Tryptic  bool
}

// PeptideResult is a single peptide's search outcome, shaped for direct
// JSON serialization by the HTTP layer.
type PeptideResult struct {
	Sequence   string
	Proteins   []*proteins.Protein
	CutoffUsed bool
}

// SearchPeptide runs a single peptide query end to end: normalizing the
// sequence, rejecting peptides too short for this index's sample rate or
// containing non-amino-acid characters (both report an empty result rather
// than an error, matching how the HTTP API treats unsearchable peptides),
// then resolving matches to protein records.
//
// q.Cutoff is taken literally, including 0 -- a caller that wants it
// treated as "no cap" should pass search.Unbounded explicitly; callers
// resolving an HTTP request's optional cutoff field do that defaulting
// themselves before constructing Query, since only they know whether the
// field was omitted or deliberately set to 0.
func (s *Searcher) SearchPeptide(q Query) PeptideResult {
	sequence := strings.ToUpper(strings.TrimSpace(q.Sequence))
	res := PeptideResult{Sequence: sequence}

	cutoff := q.Cutoff
	if cutoff < 0 {
		cutoff = Unbounded
	}

	query := []byte(sequence)
	if len(query) == 0 || !validQueryBytes(query) {
		return res
	}
	if len(query) < int(s.sa.SampleRate()) {
		return res
	}

	m := s.SearchMatchingSuffixes(query, cutoff, q.EquateIL, q.Tryptic)
	switch m.Outcome {
	case NoMatches:
		return res
	case Capped:
		res.CutoffUsed = true
	}
	res.Proteins = s.RetrieveProteins(m.Offsets)
	RecycleOffsets(m.Offsets)
	return res
}

// SearchPeptides fans a batch of queries out across numWorkers goroutines
// using a bounded token channel, and gathers results back in input order --
// the order in which results are written never depends on the order in
// which workers finish.
func (s *Searcher) SearchPeptides(queries []Query, numWorkers int) []PeptideResult {
	if numWorkers < 1 {
		numWorkers = 1
	}

	results := make([]PeptideResult, len(queries))
	tokens := make(chan struct{}, numWorkers)
	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)
		tokens <- struct{}{}
		go func(i int, q Query) {
			defer wg.Done()
			defer func() { <-tokens }()
			results[i] = s.SearchPeptide(q)
		}(i, q)
	}

	wg.Wait()
	return results
}
