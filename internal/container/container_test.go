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

package container

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/shenwei356/pepsearch/internal/bitpack"
)

// Byte-exact layout of a compressed suffix array file: discriminator 8,
// sample rate 1, length 10, then the bit-packed payload.
func TestCompressedSuffixArrayByteLayout(t *testing.T) {
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	var buf bytes.Buffer
	if err := WriteCompressedSuffixArray(&buf, values, 8, 1); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x08, 0x01, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x0A, 0x09,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}

	r := bytes.NewReader(buf.Bytes())
	h, err := ReadSuffixArrayHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if h.SampleRate != 1 || h.BitsPerValue != 8 || h.Length != 10 {
		t.Fatalf("unexpected header: %+v", h)
	}
	got, err := ReadSuffixArrayPayload(r, h)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range values {
		if got[i] != v {
			t.Errorf("value %d = %d, want %d", i, got[i], v)
		}
	}
}

func TestUncompressedSuffixArrayRoundTrip(t *testing.T) {
	values := []int64{0, 3, 6, 9, 12, 15, 18}
	var buf bytes.Buffer
	if err := WriteSuffixArray(&buf, values, 3); err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(buf.Bytes())
	h, err := ReadSuffixArrayHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if h.BitsPerValue != DiscriminatorUncompressedSA || h.SampleRate != 3 || h.Length != uint64(len(values)) {
		t.Fatalf("unexpected header: %+v", h)
	}
	got, err := ReadSuffixArrayPayload(r, h)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range values {
		if got[i] != v {
			t.Errorf("value %d = %d, want %d", i, got[i], v)
		}
	}
}

// Ported from text-compression/src/lib.rs's dump_compressed_text test: the
// input is already a slice of raw 5-bit codes (not ASCII bytes).
func TestPackedTextDumpVector(t *testing.T) {
	ba := bitpack.New(10, 5)
	for i, v := range []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10} {
		ba.Set(i, v)
	}

	var buf bytes.Buffer
	if err := WritePackedText(&buf, ba); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		5,
		10, 0, 0, 0, 0, 0, 0, 0,
		0, 128, 74, 232, 152, 66, 134, 8,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}

	loaded, err := ReadPackedText(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if loaded.Get(i) != uint64(i+1) {
			t.Errorf("Get(%d) = %d, want %d", i, loaded.Get(i), i+1)
		}
	}
}

func TestUnsupportedDiscriminator(t *testing.T) {
	buf := []byte{64 + 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := ReadSuffixArrayHeader(bytes.NewReader(buf))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestMalformedHeaderShortRead(t *testing.T) {
	buf := []byte{8, 1, 0, 0}
	_, err := ReadSuffixArrayHeader(bytes.NewReader(buf))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCompressedSuffixArray(&buf, []int64{1, 2, 3}, 8, 1); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:len(buf.Bytes())-2]
	r := bytes.NewReader(truncated)
	h, err := ReadSuffixArrayHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ReadSuffixArrayPayload(r, h)
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

// failingWriter fails after N successful writes, grounded on the original
// source's FailingWriter test double.
type failingWriter struct{ remaining int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, io.ErrClosedPipe
	}
	f.remaining--
	return len(p), nil
}

func TestWriteFailurePropagates(t *testing.T) {
	w := &failingWriter{remaining: 0}
	err := WriteCompressedSuffixArray(w, []int64{1}, 8, 1)
	if err == nil {
		t.Fatal("expected error")
	}
}
