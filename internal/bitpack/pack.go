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

package bitpack

import (
	"io"

	"github.com/pkg/errors"
)

func gcd(a, b uint) uint {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// wordAlignedCount returns the smallest number of B-bit values whose total
// bit length is an exact multiple of 64, i.e. 64/gcd(B,64).
func wordAlignedCount(bits uint) int {
	return int(64 / gcd(bits, 64))
}

// WriteValues streams `values` (each assumed < 2^bits) to w, bit-packed at
// the given width, one chunk's worth of BitArray in memory at a time. The
// chunk size is maxBufferValues rounded down to a multiple of
// 64/gcd(bits,64), and never less than one such multiple, so every chunk
// boundary lands on a whole 64-bit word and chunks never need to carry
// partial words across calls.
func WriteValues(values []int64, bits uint, maxBufferValues int, w io.Writer) error {
	align := wordAlignedCount(bits)
	chunkSize := (maxBufferValues / align) * align
	if chunkSize < align {
		chunkSize = align
	}

	ba := New(chunkSize, bits)
	i := 0
	for ; i+chunkSize <= len(values); i += chunkSize {
		for j := 0; j < chunkSize; j++ {
			ba.Set(j, uint64(values[i+j]))
		}
		if _, err := ba.WriteTo(w); err != nil {
			return errors.Wrap(err, "writing packed value chunk")
		}
		ba.Clear()
	}

	remainder := values[i:]
	if len(remainder) == 0 {
		return nil
	}
	tail := New(len(remainder), bits)
	for j, v := range remainder {
		tail.Set(j, uint64(v))
	}
	if _, err := tail.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing packed value tail")
	}
	return nil
}

// ReadValues is the inverse of WriteValues/plain dumping: it reads exactly
// enough whole words from r to decode `n` values of the given width and
// returns them widened to int64.
func ReadValues(r io.Reader, n int, bits uint) ([]int64, error) {
	ba := New(n, bits)
	nWords := len(ba.Words())
	if _, err := ba.ReadFrom(io.LimitReader(r, int64(nWords)*8)); err != nil {
		return nil, err
	}
	if len(ba.Words()) < nWords {
		return nil, errors.Errorf("reading packed values: got %d of %d words", len(ba.Words()), nWords)
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(ba.Get(i))
	}
	return out, nil
}
