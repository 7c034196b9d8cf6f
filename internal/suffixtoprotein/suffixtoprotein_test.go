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

package suffixtoprotein

import (
	"testing"

	"github.com/shenwei356/pepsearch/internal/packedtext"
)

// "AI-BLACVAA-AC-KCRLZ$" has four proteins: AI, BLACVAA, AC, KCRLZ.
func buildText(t *testing.T) *packedtext.Text {
	t.Helper()
	pt, err := packedtext.FromBytes([]byte("AI-BLACVAA-AC-KCRLZ$"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return pt
}

func TestDenseSuffixToProtein(t *testing.T) {
	pt := buildText(t)
	d := NewDense(pt)

	cases := []struct {
		offset  int64
		protein uint32
		isOwned bool
	}{
		{0, 0, true},      // 'A' of AI
		{1, 0, true},      // 'I' of AI
		{2, Null, false},  // '-'
		{3, 1, true},      // 'B' of BLACVAA
		{9, 1, true},      // last 'A' of BLACVAA
		{19, Null, false}, // '$'
	}
	for _, c := range cases {
		p, ok := d.SuffixToProtein(c.offset)
		if ok != c.isOwned || (ok && p != c.protein) {
			t.Errorf("Dense.SuffixToProtein(%d) = (%d,%v), want (%d,%v)", c.offset, p, ok, c.protein, c.isOwned)
		}
	}
}

func TestSparseSuffixToProtein(t *testing.T) {
	pt := buildText(t)
	d := NewDense(pt)
	s := NewSparse(pt)

	for offset := 0; offset < pt.Len(); offset++ {
		dp, dok := d.SuffixToProtein(int64(offset))
		sp, sok := s.SuffixToProtein(int64(offset))
		if dok != sok || (dok && dp != sp) {
			t.Errorf("offset %d: dense=(%d,%v) sparse=(%d,%v) disagree", offset, dp, dok, sp, sok)
		}
	}
}
