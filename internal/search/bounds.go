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

// boundKind distinguishes which edge of the matching range a binary search
// pass is narrowing towards.
type boundKind int

const (
	minimumBound boundKind = iota
	maximumBound
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func normalizeIL(c byte) byte {
	if c == 'L' {
		return 'I'
	}
	return c
}

// compare matches query against the suffix starting at suffixOffset+skip,
// advancing both cursors while characters agree (treating I and L as
// interchangeable, since the suffix array was built with that equivalence).
// It returns whether query sorts before (minimumBound) or after
// (maximumBound) the suffix, and how far the match extended.
func (s *Searcher) compare(query []byte, suffixOffset int64, skip int, bound boundKind) (bool, int) {
	textLen := s.text.Len()
	idxSuffix := int(suffixOffset) + skip
	idxQuery := skip

	for idxQuery < len(query) && idxSuffix < textLen {
		qc := query[idxQuery]
		tc := s.text.Get(idxSuffix)
		if qc != tc && !(qc == 'L' && tc == 'I') && !(qc == 'I' && tc == 'L') {
			break
		}
		idxSuffix++
		idxQuery++
	}

	var condOrEqual bool
	if len(query) > 0 {
		if idxQuery == len(query) {
			condOrEqual = true
		} else if idxSuffix < textLen {
			qc := normalizeIL(query[idxQuery])
			tc := normalizeIL(s.text.Get(idxSuffix))
			if bound == minimumBound {
				condOrEqual = qc < tc
			} else {
				condOrEqual = qc > tc
			}
		}
	}
	return condOrEqual, idxQuery
}

// binarySearchBound narrows [left, right) to the minimum or maximum index at
// which query could be inserted while keeping the suffix array sorted,
// tracking the longest common prefix on each side to skip already-verified
// bytes on the next comparison.
func (s *Searcher) binarySearchBound(bound boundKind, query []byte, left, right int) (bool, int) {
	lcpLeft, lcpRight := 0, 0
	found := false

	for right-left > 1 {
		center := (left + right) / 2
		skip := min(lcpLeft, lcpRight)
		retval, lcpCenter := s.compare(query, s.sa.Get(center), skip, bound)

		found = found || lcpCenter == len(query)

		if (retval && bound == minimumBound) || (!retval && bound == maximumBound) {
			right = center
			lcpRight = lcpCenter
		} else {
			left = center
			lcpLeft = lcpCenter
		}
	}

	if right == 1 && left == 0 {
		retval, lcpCenter := s.compare(query, s.sa.Get(0), min(lcpLeft, lcpRight), bound)
		found = found || lcpCenter == len(query)
		if bound == minimumBound && retval {
			right = 0
		}
	}

	if bound == minimumBound {
		return found, right
	}
	return found, left
}

// BoundsResult is the outcome of FindBounds: a half-open suffix-array
// interval, or Found=false if query has no occurrence in the text.
type BoundsResult struct {
	Found  bool
	Lo, Hi int
}

// boundsFrom runs both the minimum- and maximum-bound binary searches over
// the given starting window, without consulting the k-mer cache. It backs
// both FindBounds (cache lookup already resolved) and cache population
// (which must probe [0, N) directly).
func (s *Searcher) boundsFrom(query []byte, left, right int) BoundsResult {
	foundMin, minB := s.binarySearchBound(minimumBound, query, left, right)
	if !foundMin {
		return BoundsResult{}
	}
	_, maxB := s.binarySearchBound(maximumBound, query, left, right)
	return BoundsResult{Found: true, Lo: minB, Hi: maxB + 1}
}

// FindBounds returns the half-open suffix-array range of entries whose
// suffix begins with query, under I≡L ordering. A query whose prefix is all
// canonical amino acids starts from the k-mer bounds cache -- and since the
// cache is fully populated at construction, a canonical prefix with no
// entry cannot occur in the text at all. A prefix containing any other
// symbol (extended residue codes, separator, terminator) has no cache slot
// and falls back to a search over the whole array.
func (s *Searcher) FindBounds(query []byte) BoundsResult {
	if len(query) == 0 {
		return BoundsResult{}
	}

	k := s.cache.K
	if len(query) < k {
		k = len(query)
	}
	prefix := query[:k]
	if !validQueryBytes(prefix) {
		return s.boundsFrom(query, 0, s.sa.Len())
	}
	b, ok := s.cache.Get(prefix)
	if !ok {
		return BoundsResult{}
	}
	return s.boundsFrom(query, b.Lo, b.Hi)
}

// validQueryBytes reports whether every byte of query is one of the 20
// canonical amino acids. The serving layer (SearchPeptide) rejects peptides
// that fail this outright; FindBounds uses it only to decide whether the
// k-mer cache can be consulted.
func validQueryBytes(query []byte) bool {
	for _, c := range query {
		if aminoRank[c] < 0 {
			return false
		}
	}
	return true
}

var aminoRank [256]int8

func init() {
	for i := range aminoRank {
		aminoRank[i] = -1
	}
	for i := 0; i < 20; i++ {
		aminoRank[aminoAlphabet[i]] = int8(i)
	}
}

const aminoAlphabet = "ACDEFGHIKLMNPQRSTVWY"
