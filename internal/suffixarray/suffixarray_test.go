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

package suffixarray

import (
	"testing"

	"github.com/shenwei356/pepsearch/internal/bitpack"
)

func TestOriginalVariant(t *testing.T) {
	sa := New([]int64{0, 3, 6, 9}, 3)
	if sa.IsCompressed() {
		t.Fatal("expected uncompressed")
	}
	if sa.BitsPerValue() != 64 {
		t.Errorf("BitsPerValue = %d, want 64", sa.BitsPerValue())
	}
	if sa.Len() != 4 || sa.Get(2) != 6 {
		t.Errorf("unexpected contents: len=%d get(2)=%d", sa.Len(), sa.Get(2))
	}
}

func TestCompressedVariant(t *testing.T) {
	ba := bitpack.New(4, 8)
	for i, v := range []uint64{0, 3, 6, 9} {
		ba.Set(i, v)
	}
	sa := NewCompressed(ba, 3)
	if !sa.IsCompressed() {
		t.Fatal("expected compressed")
	}
	if sa.BitsPerValue() != 8 {
		t.Errorf("BitsPerValue = %d, want 8", sa.BitsPerValue())
	}
	if sa.Get(3) != 9 {
		t.Errorf("Get(3) = %d, want 9", sa.Get(3))
	}
}

func TestEmpty(t *testing.T) {
	sa := New(nil, 1)
	if !sa.IsEmpty() {
		t.Fatal("expected empty")
	}
}
