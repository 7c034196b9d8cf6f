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

import "sync"

// offsetsPool recycles the []int64 buffers SearchMatchingSuffixes
// accumulates matches into -- under a parallel batch of peptide queries
// (SearchPeptides), this is the hottest allocation in the whole request
// path, so callers that are done with a Result's Offsets should hand the
// backing slice back with RecycleOffsets.
var offsetsPool = sync.Pool{
	New: func() interface{} {
		buf := make([]int64, 0, 16)
		return &buf
	},
}

func getOffsetsBuf() []int64 {
	buf := offsetsPool.Get().(*[]int64)
	return (*buf)[:0]
}

// RecycleOffsets returns a Result's Offsets slice to the pool. Callers must
// not touch offsets after calling this.
func RecycleOffsets(offsets []int64) {
	if cap(offsets) == 0 {
		return
	}
	buf := offsets[:0]
	offsetsPool.Put(&buf)
}
