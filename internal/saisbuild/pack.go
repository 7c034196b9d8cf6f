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

package saisbuild

// maxPackingFactor bounds how many ranked symbols get folded into one SAIS
// super-symbol. Above this the alphabet size 1<<(rankBitsPerSymbol*s) grows
// past what's worth the reduced recursion depth.
const maxPackingFactor = 5

// choosePackingFactor picks the largest divisor of sparsenessFactor that is
// <= maxPackingFactor. This is the packing factor actually used to build
// the SAIS input (the recursion's own "resolution"); any remainder between
// this and the caller's requested sparsenessFactor is handled afterwards by
// subsampling the resulting suffix array.
func choosePackingFactor(sparsenessFactor int) int {
	if sparsenessFactor < 1 {
		sparsenessFactor = 1
	}
	for s := maxPackingFactor; s >= 1; s-- {
		if sparsenessFactor%s == 0 {
			return s
		}
	}
	return 1
}

// packSymbols folds consecutive groups of `factor` ranks into single SAIS
// symbols, most-significant group first, so that ordering the packed
// symbols as integers reproduces the same order as comparing the original
// rank sequences lexicographically. Short trailing groups are zero-padded,
// which is safe because rank 0 (the terminator) is also the correct value
// to compare against past the end of the text.
func packSymbols(ranks []int, factor int) []int {
	if factor <= 1 {
		out := make([]int, len(ranks))
		copy(out, ranks)
		return out
	}
	n := (len(ranks) + factor - 1) / factor
	out := make([]int, n)
	for i := 0; i < n; i++ {
		var v int
		for j := 0; j < factor; j++ {
			v <<= rankBitsPerSymbol
			idx := i*factor + j
			if idx < len(ranks) {
				v |= ranks[idx]
			}
		}
		out[i] = v
	}
	return out
}

// packedAlphabetSize returns the SAIS alphabet size for symbols packed with
// the given factor.
func packedAlphabetSize(factor int) int {
	return 1 << uint(rankBitsPerSymbol*factor)
}

// sampleSA keeps only suffix-array entries whose text offset is a multiple
// of sparsenessFactor, truncating the rest. A sparsenessFactor of 1 is a
// no-op.
func sampleSA(sa []int64, sparsenessFactor int) []int64 {
	if sparsenessFactor <= 1 {
		return sa
	}
	out := sa[:0]
	for _, v := range sa {
		if v%int64(sparsenessFactor) == 0 {
			out = append(out, v)
		}
	}
	return out
}
