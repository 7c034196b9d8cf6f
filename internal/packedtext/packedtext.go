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

// Package packedtext implements the 5-bit-per-symbol protein text container
// used to hold the full concatenated database text in memory at five eighths
// of the footprint of one byte per amino acid.
package packedtext

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/pepsearch/internal/bitpack"
)

// Alphabet holds every symbol the packed text can store: the 20 canonical
// amino acids, the protein separator, the text terminator, and the extended
// IUPAC residue codes (B, J, O, U, X, Z) that occur in real UniProt
// sequences. Position in this string is the symbol's 5-bit code, so the
// canonical symbols keep the codes 0..21 regardless of the extended tail.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY-$BJOUXZ"

// Separator joins consecutive protein sequences in the concatenated text.
const Separator = '-'

// Terminator marks the single final position of the concatenated text.
const Terminator = '$'

const bitsPerSymbol = 5

var charToCode [256]int8
var codeToChar [32]byte

func init() {
	for i := range charToCode {
		charToCode[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		charToCode[Alphabet[i]] = int8(i)
		codeToChar[i] = Alphabet[i]
	}
}

// ErrOutOfAlphabet is returned when a byte outside Alphabet is encoded.
var ErrOutOfAlphabet = errors.New("packedtext: symbol out of alphabet")

// Encode returns the 5-bit code for an alphabet byte, or an error.
func Encode(c byte) (uint64, error) {
	code := charToCode[c]
	if code < 0 {
		return 0, errors.Wrapf(ErrOutOfAlphabet, "byte %q", c)
	}
	return uint64(code), nil
}

// Decode returns the alphabet byte for a 5-bit code.
func Decode(code uint64) byte {
	return codeToChar[code&0x1f]
}

// Text is a 5-bit-per-symbol protein text container.
type Text struct {
	bits *bitpack.BitArray
}

// New allocates a Text able to hold `length` symbols.
func New(length int) *Text {
	return &Text{bits: bitpack.New(length, bitsPerSymbol)}
}

// FromBitArray wraps an already-populated 5-bit BitArray (e.g. just loaded
// from disk) as a Text.
func FromBitArray(ba *bitpack.BitArray) *Text {
	return &Text{bits: ba}
}

// FromBytes builds a Text from alphabet bytes directly.
func FromBytes(s []byte) (*Text, error) {
	t := New(len(s))
	for i, c := range s {
		code, err := Encode(c)
		if err != nil {
			return nil, errors.Wrapf(err, "at position %d", i)
		}
		t.bits.Set(i, code)
	}
	return t, nil
}

// Len returns the number of symbols.
func (t *Text) Len() int { return t.bits.Len() }

// IsEmpty reports whether Len() == 0.
func (t *Text) IsEmpty() bool { return t.bits.IsEmpty() }

// Get returns the decoded alphabet byte at position i.
func (t *Text) Get(i int) byte { return Decode(t.bits.Get(i)) }

// Set stores alphabet byte c at position i.
func (t *Text) Set(i int, c byte) error {
	code, err := Encode(c)
	if err != nil {
		return err
	}
	t.bits.Set(i, code)
	return nil
}

// Clear zeroes the underlying storage.
func (t *Text) Clear() { t.bits.Clear() }

// BitArray exposes the underlying BitArray, e.g. for serialization.
func (t *Text) BitArray() *bitpack.BitArray { return t.bits }

// Bytes materializes the whole text as a byte slice. Only intended for
// small texts (tests, diagnostics) -- production code should use Slice.
func (t *Text) Bytes() []byte {
	out := make([]byte, t.Len())
	for i := range out {
		out[i] = t.Get(i)
	}
	return out
}

// Slice returns a read-only view over [lo, hi).
func (t *Text) Slice(lo, hi int) Slice {
	return Slice{text: t, lo: lo, hi: hi}
}

// Slice is a read-only window [lo, hi) into a Text.
type Slice struct {
	text   *Text
	lo, hi int
}

// Len returns hi-lo.
func (s Slice) Len() int { return s.hi - s.lo }

// Get returns the decoded byte at the slice-relative index i.
func (s Slice) Get(i int) byte { return s.text.Get(s.lo + i) }

// equateILByte folds I and L to a single canonical byte for comparison.
func equateILByte(c byte) byte {
	if c == 'L' {
		return 'I'
	}
	return c
}

// Equals reports whether the slice's bytes equal `query`, optionally
// treating I and L as interchangeable.
func (s Slice) Equals(query []byte, equateIL bool) bool {
	if s.Len() != len(query) {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.Get(i), query[i]
		if equateIL {
			a, b = equateILByte(a), equateILByte(b)
		}
		if a != b {
			return false
		}
	}
	return true
}

// ILPosition records a position (relative to a search string) where an I/L
// ambiguity was encountered during an equate-IL comparison.
type ILPosition struct {
	// Offset is the position within the matched suffix (0-based, relative
	// to the suffix's start in the full text).
	Offset int
}

// EqualsAtILPositions re-checks specific positions of the slice against
// `query` using literal (non-equated) comparison. It is used after an
// I/L-equated match has already been confirmed structurally, to decide
// whether the *original* (unrewritten) text agrees with the query's actual
// I/L letters at the positions where ambiguity was possible.
func (s Slice) EqualsAtILPositions(positions []ILPosition, query []byte) bool {
	for _, p := range positions {
		if p.Offset >= len(query) || p.Offset >= s.Len() {
			continue
		}
		if s.Get(p.Offset) != query[p.Offset] {
			return false
		}
	}
	return true
}
