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

// Package search implements peptide lookup against a sparse suffix array:
// cached bound search, sparse-offset reconstruction, I/L-aware suffix
// verification, and mapping matched offsets back to owning proteins.
package search

import (
	"math"

	"github.com/shenwei356/pepsearch/internal/kmerbounds"
	"github.com/shenwei356/pepsearch/internal/packedtext"
	"github.com/shenwei356/pepsearch/internal/proteins"
	"github.com/shenwei356/pepsearch/internal/suffixarray"
	"github.com/shenwei356/pepsearch/internal/suffixtoprotein"
)

// Unbounded is the max-matches value meaning "never cap".
const Unbounded = math.MaxInt

// Searcher binds a sparse suffix array to the text and protein records it
// indexes, plus a populated k-mer bounds cache for fast starting windows.
type Searcher struct {
	sa        *suffixarray.SuffixArray
	text      *packedtext.Text
	toProtein suffixtoprotein.Index
	records   []proteins.Protein
	cache     *kmerbounds.Cache
}

// New builds a Searcher and populates its k-mer bounds cache by probing
// every k-mer of length 1..k directly against the suffix array. Callers
// choose toProtein (Dense or Sparse) per their memory/latency tradeoff.
func New(sa *suffixarray.SuffixArray, text *packedtext.Text, db *proteins.Proteins, toProtein suffixtoprotein.Index, k int) (*Searcher, error) {
	cache, err := kmerbounds.New(k)
	if err != nil {
		return nil, err
	}

	s := &Searcher{sa: sa, text: text, toProtein: toProtein, records: db.Records, cache: cache}
	s.populateCache()
	return s, nil
}

// populateCache reconstructs every k-mer the cache has a slot for (lengths
// 1..K) and runs the uncached bound search over the full array, storing the
// result widened by one position on the low side so that later binary
// searches over longer queries never miss a boundary case introduced by the
// cache's coarser granularity.
func (s *Searcher) populateCache() {
	n := s.sa.Len()
	for i := 0; i < s.cache.Capacity(); i++ {
		kmer := s.cache.KmerAt(i)
		res := s.boundsFrom(kmer, 0, n)
		if !res.Found {
			continue
		}
		lo := res.Lo
		if lo > 0 {
			lo--
		}
		s.cache.Update(kmer, lo, res.Hi)
	}
}

// Outcome classifies a SearchMatchingSuffixes result.
type Outcome int

const (
	// NoMatches means the peptide does not occur in the database at all.
	NoMatches Outcome = iota
	// Matches means the full, uncapped set of offsets is returned.
	Matches
	// Capped means the search stopped early because the accumulated match
	// count reached the caller's limit; Offsets holds only what was
	// gathered before stopping, and may be empty if the limit was zero.
	Capped
)

// Result is the outcome of SearchMatchingSuffixes: text offsets (protein-
// text coordinates, already adjusted back from the sparse sample point to
// the true start of the match) for every occurrence found, subject to
// Outcome.
type Result struct {
	Outcome Outcome
	Offsets []int64
}

// SearchMatchingSuffixes finds every occurrence of query in the indexed
// text. It probes all `sampleRate` possible alignments against the sparse
// suffix array, reconstructing and verifying the unsampled prefix of each
// candidate against the original (unfolded) text. equateIL relaxes the
// final verification step to treat I and L as identical; tryptic additionally
// requires each match to sit on a tryptic cleavage boundary. maxMatches
// caps the number of offsets collected before the search gives up early.
func (s *Searcher) SearchMatchingSuffixes(query []byte, maxMatches int, equateIL, tryptic bool) Result {
	if len(query) == 0 {
		return Result{Outcome: NoMatches}
	}

	sampleRate := int(s.sa.SampleRate())
	if sampleRate < 1 {
		sampleRate = 1
	}

	var ilLocations []int
	for i, c := range query {
		if c == 'I' || c == 'L' {
			ilLocations = append(ilLocations, i)
		}
	}

	offsets := getOffsetsBuf()
	capped := false

	// a skip of len(query) or more leaves nothing to search for, so the
	// shift loop stops early for queries shorter than the sample rate and
	// returns whatever the smaller shifts recovered
outer:
	for skip := 0; skip < sampleRate && skip < len(query); skip++ {
		suffixQuery := query[skip:]
		bounds := s.FindBounds(suffixQuery)
		if !bounds.Found {
			continue
		}

		ilStart := 0
		for ilStart < len(ilLocations) && ilLocations[ilStart] < skip {
			ilStart++
		}
		ilCurrent := ilLocations[ilStart:]

		for saIdx := bounds.Lo; saIdx < bounds.Hi; saIdx++ {
			if len(offsets) >= maxMatches {
				capped = true
				break outer
			}

			suffix := s.sa.Get(saIdx)
			if suffix < int64(skip) {
				continue
			}
			matchStart := suffix - int64(skip)

			if skip > 0 {
				prefix := s.text.Slice(int(matchStart), int(suffix))
				if !prefix.Equals(query[:skip], equateIL) {
					continue
				}
			}

			if !equateIL && len(ilCurrent) > 0 {
				indexSlice := s.text.Slice(int(suffix), int(suffix)+len(suffixQuery))
				positions := make([]packedtext.ILPosition, len(ilCurrent))
				for i, loc := range ilCurrent {
					positions[i] = packedtext.ILPosition{Offset: loc - skip}
				}
				if !indexSlice.EqualsAtILPositions(positions, suffixQuery) {
					continue
				}
			}

			if tryptic && !s.isTrypticMatch(int(matchStart), int(matchStart)+len(query)) {
				continue
			}

			offsets = append(offsets, matchStart)
		}
	}

	if capped {
		return Result{Outcome: Capped, Offsets: offsets}
	}
	if len(offsets) == 0 {
		RecycleOffsets(offsets)
		return Result{Outcome: NoMatches}
	}
	return Result{Outcome: Matches, Offsets: offsets}
}

// isTrypticMatch reports whether [start, end) in the text sits on a tryptic
// cleavage boundary on both sides: the byte preceding start is a protein
// boundary or a non-proline-followed K/R, and likewise for the byte at end.
func (s *Searcher) isTrypticMatch(start, end int) bool {
	if start > 0 {
		before := s.text.Get(start - 1)
		cur := s.text.Get(start)
		if !(before == packedtext.Separator || ((before == 'K' || before == 'R') && cur != 'P')) {
			return false
		}
	}

	n := s.text.Len()
	if end < n {
		last := s.text.Get(end - 1)
		after := s.text.Get(end)
		if !(after == packedtext.Separator || after == packedtext.Terminator || ((last == 'K' || last == 'R') && after != 'P')) {
			return false
		}
	}
	return true
}

// RetrieveProteins maps matched text offsets back to their owning protein
// records, skipping any offset that (should never happen, but) lands on a
// separator or terminator.
func (s *Searcher) RetrieveProteins(offsets []int64) []*proteins.Protein {
	seen := make(map[uint32]bool)
	var out []*proteins.Protein
	for _, off := range offsets {
		idx, ok := s.toProtein.SuffixToProtein(off)
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, &s.records[idx])
	}
	return out
}
