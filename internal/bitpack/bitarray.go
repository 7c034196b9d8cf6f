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

// Package bitpack implements a fixed-width value array packed into 64-bit
// words, with big-endian-within-word bit addressing. It is the on-disk
// layout shared by the suffix array and the packed protein text.
package bitpack

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// BitArray stores a dense sequence of fixed-width (B<=64 bits) unsigned
// values in a []uint64 backing buffer.
type BitArray struct {
	data   []uint64
	mask   uint64
	bits   uint
	length int
}

func bitMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// New allocates a BitArray able to hold `length` values of width `bits`.
// The backing buffer is ceil(length*bits/64) words, so the final word is
// only partially used (and zero-padded) when the total bit length is not a
// multiple of 64. It panics on bits==0 or bits>64, mirroring a
// programmer-error contract.
func New(length int, bits uint) *BitArray {
	if bits == 0 || bits > 64 {
		panic("bitpack: bits must be in [1, 64]")
	}
	nWords := (length*int(bits) + 63) / 64
	return &BitArray{
		data:   make([]uint64, nWords),
		mask:   bitMask(bits),
		bits:   bits,
		length: length,
	}
}

// FromWords wraps pre-existing backing words (e.g. just loaded from disk)
// as a BitArray of the given logical length and width.
func FromWords(data []uint64, length int, bits uint) *BitArray {
	if bits == 0 || bits > 64 {
		panic("bitpack: bits must be in [1, 64]")
	}
	return &BitArray{data: data, mask: bitMask(bits), bits: bits, length: length}
}

// Bits returns the configured value width.
func (b *BitArray) Bits() uint { return b.bits }

// Words exposes the backing buffer, e.g. for serialization.
func (b *BitArray) Words() []uint64 { return b.data }

// Len returns the number of logical values the array holds.
func (b *BitArray) Len() int { return b.length }

// IsEmpty reports whether Len() == 0.
func (b *BitArray) IsEmpty() bool { return b.length == 0 }

// Clear zeroes the whole backing buffer.
func (b *BitArray) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Get returns the B-bit value stored at logical index i.
func (b *BitArray) Get(i int) uint64 {
	bits := int(b.bits)
	start := i * bits
	startBlock := start / 64
	startOff := start % 64

	if startOff+bits <= 64 {
		return (b.data[startBlock] >> uint(64-startOff-bits)) & b.mask
	}

	end := (i + 1) * bits
	endBlock := end / 64
	endOff := end % 64

	a := b.data[startBlock] << uint(endOff)
	c := b.data[endBlock] >> uint(64-endOff)
	return (a | c) & b.mask
}

// Set writes value v (masked to B bits) at logical index i.
func (b *BitArray) Set(i int, v uint64) {
	v &= b.mask
	bits := int(b.bits)
	start := i * bits
	startBlock := start / 64
	startOff := start % 64

	if startOff+bits <= 64 {
		shift := uint(64 - startOff - bits)
		b.data[startBlock] &^= b.mask << shift
		b.data[startBlock] |= v << shift
		return
	}

	end := (i + 1) * bits
	endBlock := end / 64
	endOff := end % 64

	b.data[startBlock] &^= b.mask >> uint(endOff)
	b.data[startBlock] |= v >> uint(endOff)

	b.data[endBlock] &^= b.mask << uint(64-endOff)
	b.data[endBlock] |= v << uint(64-endOff)
}

// WriteTo writes every backing word as 8 little-endian bytes.
func (b *BitArray) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 8)
	var n int64
	for _, word := range b.data {
		binary.LittleEndian.PutUint64(buf, word)
		m, err := w.Write(buf)
		n += int64(m)
		if err != nil {
			return n, errors.Wrap(err, "writing bitarray words")
		}
	}
	return n, nil
}

// ReadFrom fills the BitArray's backing buffer from r by staging reads
// into a fixed-size buffer and decoding complete 8-byte groups, matching
// the streaming layout produced by WriteTo. The caller must have already
// sized the BitArray (length, bits) before calling ReadFrom.
func (b *BitArray) ReadFrom(r io.Reader) (int64, error) {
	const stagingSize = 8 * 1024
	staging := make([]byte, stagingSize)
	b.data = b.data[:0]

	var total int64
	var carry []byte // leftover bytes (<8) from a previous staging read
	for {
		n, err := io.ReadFull(r, staging)
		total += int64(n)
		chunk := staging[:n]
		if len(carry) > 0 {
			chunk = append(append([]byte{}, carry...), chunk...)
			carry = nil
		}

		full := len(chunk) / 8 * 8
		for off := 0; off < full; off += 8 {
			b.data = append(b.data, binary.LittleEndian.Uint64(chunk[off:off+8]))
		}
		if full < len(chunk) {
			carry = append(carry, chunk[full:]...)
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return total, errors.Wrap(err, "reading bitarray words")
		}
	}
	if len(carry) > 0 {
		return total, errors.New("reading bitarray words: trailing partial word")
	}
	return total, nil
}
