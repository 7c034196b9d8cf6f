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

// Package saisbuild constructs sparse suffix arrays over the concatenated
// protein text using induced suffix sorting (SA-IS), with the same
// symbol-packing trick the original construction tool uses to trade
// resolution for memory: several residues are folded into a single SAIS
// input symbol so the recursion runs over a shorter string.
package saisbuild

// rankBitsPerSymbol is the width, in bits, of one SAIS rank. The rank space
// (terminator, separator, 26 letters) needs 5 bits, matching the on-disk
// packed-text encoding in internal/packedtext even though the two symbol
// numberings are unrelated -- here rank 0 is reserved for the terminator,
// not for 'A' as in the dictionary-order alphabet.
const rankBitsPerSymbol = 5

// terminatorByte and separatorByte are the two non-amino-acid bytes that can
// appear in the text SAIS ranks; every other byte is an uppercase letter.
const terminatorByte = '$'
const separatorByte = '-'

// rank maps a text byte to its SAIS rank: '$' sorts first (0), '-' second
// (1), and amino acid letters sort by alphabetical order from 2 upward.
// This is deliberately NOT the dictionary-order 5-bit code used by
// internal/packedtext -- that encoding exists to minimize storage, this one
// exists to give SAIS a total order with a unique minimum element.
func rank(c byte) int {
	switch {
	case c == terminatorByte:
		return 0
	case c == separatorByte:
		return 1
	default:
		return 2 + int(c-'A')
	}
}

// translateLToI rewrites every literal 'L' byte to 'I', reflecting the
// biological equivalence of Isoleucine and Leucine for the purposes of
// suffix ordering and search. It returns a new slice; the caller's original
// bytes are left untouched so exact (non-equated) verification can still
// compare against the real residues.
func translateLToI(text []byte) []byte {
	out := make([]byte, len(text))
	for i, c := range text {
		if c == 'L' {
			out[i] = 'I'
		} else {
			out[i] = c
		}
	}
	return out
}

// rankEncode converts already I/L-folded text bytes into SAIS ranks.
func rankEncode(text []byte) []int {
	out := make([]int, len(text))
	for i, c := range text {
		out[i] = rank(c)
	}
	return out
}
