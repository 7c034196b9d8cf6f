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

// Package suffixtoprotein implements the two ways of mapping a text offset
// back to the protein that owns it: a dense O(N) lookup table, and a sparse
// O(#proteins) table searched by upper bound.
package suffixtoprotein

import (
	"sort"

	"github.com/shenwei356/pepsearch/internal/packedtext"
)

// Null is the sentinel "no owner" protein index, returned for separator and
// terminator text positions.
const Null uint32 = 1<<32 - 1

// Index is the shared contract both implementations satisfy.
type Index interface {
	// SuffixToProtein returns the index of the protein owning text offset
	// `suffix`, or (Null, false) if the position is a separator/terminator.
	SuffixToProtein(suffix int64) (uint32, bool)
}

// Dense is an O(N) lookup table: one protein index (or Null) per text
// position. Fast but memory-proportional to the whole text.
type Dense struct {
	owners []uint32
}

// NewDense builds a Dense index by scanning `text` once, assigning
// increasing protein indices between occurrences of Separator and stopping
// at Terminator.
func NewDense(text *packedtext.Text) *Dense {
	owners := make([]uint32, text.Len())
	var protein uint32
	for i := 0; i < text.Len(); i++ {
		c := text.Get(i)
		switch c {
		case packedtext.Separator:
			owners[i] = Null
			protein++
		case packedtext.Terminator:
			owners[i] = Null
		default:
			owners[i] = protein
		}
	}
	return &Dense{owners: owners}
}

// SuffixToProtein implements Index.
func (d *Dense) SuffixToProtein(suffix int64) (uint32, bool) {
	p := d.owners[suffix]
	return p, p != Null
}

// Sparse is an O(#proteins) lookup: a sorted list of protein start offsets,
// searched by upper bound. Slower per-lookup but its memory footprint does
// not scale with N, which matters once N is hundreds of millions of
// residues and proteins number in the tens of millions.
type Sparse struct {
	starts []int64 // starts[i] = first text offset of protein i
	text   *packedtext.Text
}

// NewSparse scans `text` once to record each protein's starting offset.
func NewSparse(text *packedtext.Text) *Sparse {
	var starts []int64
	atStart := true
	for i := 0; i < text.Len(); i++ {
		c := text.Get(i)
		if c == packedtext.Separator || c == packedtext.Terminator {
			atStart = true
			continue
		}
		if atStart {
			starts = append(starts, int64(i))
			atStart = false
		}
	}
	return &Sparse{starts: starts, text: text}
}

// SuffixToProtein implements Index.
func (s *Sparse) SuffixToProtein(suffix int64) (uint32, bool) {
	c := s.text.Get(int(suffix))
	if c == packedtext.Separator || c == packedtext.Terminator {
		return Null, false
	}
	// upper bound: the last start <= suffix
	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > suffix })
	if i == 0 {
		return Null, false
	}
	return uint32(i - 1), true
}
