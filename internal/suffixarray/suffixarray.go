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

// Package suffixarray implements the thin polymorphic wrapper over either a
// plain []int64 suffix array or a bit-packed compressed one.
package suffixarray

import "github.com/shenwei356/pepsearch/internal/bitpack"

// NullSuffix is the sentinel "no owner" value for suffix-to-protein lookups,
// mirroring Rust's Nullable<u32> (NULL = u32::MAX).
const NullSuffix uint32 = 1<<32 - 1

// SuffixArray is a tagged union over an uncompressed or bit-packed sparse
// suffix array. The zero value is not valid; build with New or NewCompressed.
type SuffixArray struct {
	compressed bool
	sampleRate uint8

	values []int64           // valid when !compressed
	packed *bitpack.BitArray // valid when compressed
}

// New wraps a plain suffix array.
func New(values []int64, sampleRate uint8) *SuffixArray {
	return &SuffixArray{values: values, sampleRate: sampleRate}
}

// NewCompressed wraps a bit-packed suffix array.
func NewCompressed(packed *bitpack.BitArray, sampleRate uint8) *SuffixArray {
	return &SuffixArray{compressed: true, packed: packed, sampleRate: sampleRate}
}

// Len returns the number of stored SA entries.
func (sa *SuffixArray) Len() int {
	if sa.compressed {
		return sa.packed.Len()
	}
	return len(sa.values)
}

// IsEmpty reports whether Len() == 0.
func (sa *SuffixArray) IsEmpty() bool { return sa.Len() == 0 }

// Get returns the i-th suffix array value, a text offset in [0, N).
func (sa *SuffixArray) Get(i int) int64 {
	if sa.compressed {
		return int64(sa.packed.Get(i))
	}
	return sa.values[i]
}

// SampleRate returns the sparseness factor this SA was built with.
func (sa *SuffixArray) SampleRate() uint8 { return sa.sampleRate }

// BitsPerValue returns 64 for an uncompressed SA, or the packed width
// otherwise.
func (sa *SuffixArray) BitsPerValue() uint8 {
	if sa.compressed {
		return uint8(sa.packed.Bits())
	}
	return 64
}

// IsCompressed reports whether this SA is the bit-packed variant.
func (sa *SuffixArray) IsCompressed() bool { return sa.compressed }
