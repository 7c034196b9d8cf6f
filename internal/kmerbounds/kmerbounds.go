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

// Package kmerbounds precomputes suffix-array bounds for every k-mer over the
// 20-letter amino-acid alphabet, so a query's binary search can start from a
// narrow window instead of the whole array.
package kmerbounds

import "github.com/pkg/errors"

// AminoAlphabet is the 20-letter canonical amino-acid alphabet the cache is
// indexed over -- the separator and terminator never start a real peptide
// query, so the cache (unlike packedtext.Alphabet) excludes them.
const AminoAlphabet = "ACDEFGHIKLMNPQRSTVWY"

// ErrKTooLarge guards the fixed-size power/offset tables below; k=9 already
// gives a cache of ~5.4e11 entries, far past anything practical, so this is
// a sanity bound rather than a tight one.
var ErrKTooLarge = errors.New("kmerbounds: k must be < 10")

// Bound is a half-open suffix-array interval, or "absent" when no k-mer of
// this value was ever observed in the text.
type Bound struct {
	Lo, Hi int
	Valid  bool
}

// Cache holds precomputed bounds for every k-mer of length 1..K over
// AminoAlphabet, indexed by the mixed-base encoding described on IndexOf.
type Cache struct {
	K       int
	bounds  []Bound
	base    int
	charIdx [128]int
	powers  []int
	offsets []int
}

// New allocates an empty Cache for k-mers of length 1..k. Use Update to
// populate it (typically via a full probing pass over the suffix array, see
// internal/search).
func New(k int) (*Cache, error) {
	if k >= 10 {
		return nil, ErrKTooLarge
	}
	base := len(AminoAlphabet)

	c := &Cache{K: k, base: base}
	for i := range c.charIdx {
		c.charIdx[i] = 0
	}
	for i := 0; i < base; i++ {
		c.charIdx[AminoAlphabet[i]] = i
	}

	// powers/offsets must cover lengths up to K+1 so KmerAt's block-length
	// search can probe one block past the longest stored k-mer.
	c.powers = make([]int, k+2)
	c.offsets = make([]int, k+2)
	for i := range c.powers {
		c.powers[i] = intPow(base, i)
	}
	for i := 2; i < k+2; i++ {
		c.offsets[i] = c.offsets[i-1] + c.powers[i-1]
	}

	// capacity = (base^(k+1) - base) / (base - 1)
	capacity := (intPow(base, k+1) - base) / (base - 1)
	c.bounds = make([]Bound, capacity)
	return c, nil
}

func intPow(base, exp int) int {
	v := 1
	for i := 0; i < exp; i++ {
		v *= base
	}
	return v
}

// IndexOf computes the flat cache index for a k-mer of length 1..K. The
// encoding is mixed-base: all 1-mers occupy indices [0, base), all 2-mers
// [base, base+base^2), and so on, each block contiguous and disjoint.
func (c *Cache) IndexOf(kmer []byte) int {
	if len(kmer) == 1 {
		return c.charIdx[kmer[0]]
	}
	result := 0
	for i, ch := range kmer {
		result += (c.charIdx[ch] + 1) * c.powers[len(kmer)-i-1]
	}
	return result - 1
}

// KmerAt reconstructs the k-mer stored at a given cache index; the inverse
// of IndexOf.
func (c *Cache) KmerAt(index int) []byte {
	if index < c.base {
		return []byte{AminoAlphabet[index]}
	}

	length := 2
	for c.offsets[length+1] <= index {
		length++
	}

	offset := c.offsets[length]
	index -= offset

	kmer := make([]byte, length)
	for i := 0; i < length; i++ {
		kmer[length-i-1] = AminoAlphabet[index%c.base]
		index /= c.base
	}
	return kmer
}

// Get returns the cached bound for a k-mer, if any is stored.
func (c *Cache) Get(kmer []byte) (Bound, bool) {
	idx := c.IndexOf(kmer)
	if idx < 0 || idx >= len(c.bounds) {
		return Bound{}, false
	}
	b := c.bounds[idx]
	return b, b.Valid
}

// Update stores the (lo, hi) bound for a k-mer. Callers pass already-widened
// bounds (lo-1 slack) -- this package stores verbatim.
func (c *Cache) Update(kmer []byte, lo, hi int) {
	idx := c.IndexOf(kmer)
	c.bounds[idx] = Bound{Lo: lo, Hi: hi, Valid: true}
}

// Capacity returns the total number of cache slots, covering every k-mer of
// length 1..K. The population loop in internal/search iterates i in
// [0, Capacity()) and reconstructs each k-mer with KmerAt.
func (c *Cache) Capacity() int {
	return len(c.bounds)
}
