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

import (
	"github.com/pkg/errors"
)

// ErrUnsupportedSparseness is returned for a non-positive sparseness factor.
var ErrUnsupportedSparseness = errors.New("saisbuild: sparseness factor must be >= 1")

// Result holds the outcome of a sparse suffix array build: the sparse SA
// itself (text offsets, ascending-order-sorted by suffix, restricted to
// multiples of SparsenessFactor) and the actual sample rate the caller
// should record alongside it.
type Result struct {
	SA               []int64
	SparsenessFactor int
}

// Build constructs a sparse suffix array over `text`, which must already be
// the final concatenated protein text ending in the single terminator byte
// ('$'). Isoleucine/Leucine are folded to a common symbol before ordering,
// per the biological convention the rest of this package follows; the
// caller retains the original, unfolded bytes separately for exact
// verification.
//
// sparsenessFactor selects how many suffixes to keep: 1 keeps all of them,
// n keeps every n-th by text offset.
func Build(text []byte, sparsenessFactor int) (Result, error) {
	if sparsenessFactor < 1 {
		return Result{}, errors.Wrapf(ErrUnsupportedSparseness, "got %d", sparsenessFactor)
	}
	if len(text) == 0 {
		return Result{SparsenessFactor: sparsenessFactor}, nil
	}

	folded := translateLToI(text)
	ranks := rankEncode(folded)

	packingFactor := choosePackingFactor(sparsenessFactor)
	subsampleFactor := sparsenessFactor / packingFactor

	packed := packSymbols(ranks, packingFactor)
	K := packedAlphabetSize(packingFactor)

	packedSA := sais(packed, K)

	sa := make([]int64, len(packedSA))
	for i, v := range packedSA {
		sa[i] = int64(v) * int64(packingFactor)
	}

	if subsampleFactor > 1 {
		sa = sampleSA(sa, sparsenessFactor)
	}

	return Result{SA: sa, SparsenessFactor: sparsenessFactor}, nil
}
