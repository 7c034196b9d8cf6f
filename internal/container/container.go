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

// Package container implements the on-disk binary layout shared by the
// suffix array and the packed protein text: a one-byte discriminator that
// doubles as the stored bit width, a sample-rate byte, an 8-byte length
// header, and a bit-packed payload.
package container

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/pepsearch/internal/bitpack"
)

// DiscriminatorPackedText is the fixed discriminator byte for packed-text
// files (always 5 bits per symbol).
const DiscriminatorPackedText = 5

// DiscriminatorUncompressedSA is the discriminator byte for an uncompressed
// (64-bit, plain i64) suffix array.
const DiscriminatorUncompressedSA = 64

// Sentinel error kinds, matching the abstract taxonomy of the design: a
// caller distinguishes them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("container: unsupported discriminator byte")
	ErrMalformedHeader   = errors.New("container: malformed header")
	ErrTruncatedPayload  = errors.New("container: truncated payload")
)

func readFull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrMalformedHeader, "%s", what)
		}
		return errors.Wrapf(err, "reading %s", what)
	}
	return nil
}

// SuffixArrayHeader is the decoded fixed-size header of a suffix-array file.
type SuffixArrayHeader struct {
	BitsPerValue uint8 // 64 => uncompressed, 8..63 => compressed
	SampleRate   uint8
	Length       uint64
}

// WriteSuffixArray dumps an uncompressed suffix array: M int64 values at
// sample rate `sampleRate`, little-endian throughout.
func WriteSuffixArray(w io.Writer, values []int64, sampleRate uint8) error {
	header := []byte{DiscriminatorUncompressedSA, sampleRate, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(header[2:10], uint64(len(values)))
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "writing suffix array header")
	}
	buf := make([]byte, 8)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "writing suffix array payload")
		}
	}
	return nil
}

// WriteCompressedSuffixArray dumps a bit-packed suffix array of width
// `bitsPerValue` (8..63).
func WriteCompressedSuffixArray(w io.Writer, values []int64, bitsPerValue, sampleRate uint8) error {
	if bitsPerValue < 8 || bitsPerValue > 63 {
		return errors.Wrapf(ErrUnsupportedFormat, "bits_per_value=%d", bitsPerValue)
	}
	header := []byte{bitsPerValue, sampleRate, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(header[2:10], uint64(len(values)))
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "writing compressed suffix array header")
	}
	if err := bitpack.WriteValues(values, uint(bitsPerValue), payloadChunkValues, w); err != nil {
		return errors.Wrap(err, "writing compressed suffix array payload")
	}
	return nil
}

// payloadChunkValues bounds how many values WriteCompressedSuffixArray packs
// in memory at once before flushing to the writer.
const payloadChunkValues = 8 * 1024

// ReadSuffixArrayHeader decodes the 10-byte fixed header.
func ReadSuffixArrayHeader(r io.Reader) (SuffixArrayHeader, error) {
	buf := make([]byte, 10)
	if err := readFull(r, buf, "suffix array header"); err != nil {
		return SuffixArrayHeader{}, err
	}
	h := SuffixArrayHeader{
		BitsPerValue: buf[0],
		SampleRate:   buf[1],
		Length:       binary.LittleEndian.Uint64(buf[2:10]),
	}
	if h.BitsPerValue != DiscriminatorUncompressedSA && (h.BitsPerValue < 8 || h.BitsPerValue > 63) {
		return h, errors.Wrapf(ErrUnsupportedFormat, "discriminator=%d", h.BitsPerValue)
	}
	return h, nil
}

// ReadSuffixArrayPayload decodes the payload following a header read with
// ReadSuffixArrayHeader, returning plain int64 values regardless of whether
// the on-disk form was compressed.
func ReadSuffixArrayPayload(r io.Reader, h SuffixArrayHeader) ([]int64, error) {
	n := int(h.Length)
	if h.BitsPerValue == DiscriminatorUncompressedSA {
		buf := make([]byte, 8)
		out := make([]int64, n)
		for i := 0; i < n; i++ {
			if err := readFull(r, buf, "suffix array value"); err != nil {
				return nil, errors.Wrap(ErrTruncatedPayload, err.Error())
			}
			out[i] = int64(binary.LittleEndian.Uint64(buf))
		}
		return out, nil
	}

	out, err := bitpack.ReadValues(r, n, uint(h.BitsPerValue))
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedPayload, err.Error())
	}
	return out, nil
}

// WritePackedText dumps a packed 5-bit-per-symbol text: discriminator byte
// 5, 8-byte length N, then the BitArray payload.
func WritePackedText(w io.Writer, ba *bitpack.BitArray) error {
	if ba.Bits() != DiscriminatorPackedText {
		return errors.Wrapf(ErrUnsupportedFormat, "packed text bits=%d", ba.Bits())
	}
	header := []byte{DiscriminatorPackedText, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(header[1:9], uint64(ba.Len()))
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "writing packed text header")
	}
	if _, err := ba.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing packed text payload")
	}
	return nil
}

// ReadPackedText loads a packed-text file into a fresh BitArray.
func ReadPackedText(r io.Reader) (*bitpack.BitArray, error) {
	header := make([]byte, 9)
	if err := readFull(r, header, "packed text header"); err != nil {
		return nil, err
	}
	if header[0] != DiscriminatorPackedText {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "discriminator=%d", header[0])
	}
	n := binary.LittleEndian.Uint64(header[1:9])

	ba := bitpack.New(int(n), DiscriminatorPackedText)
	if _, err := ba.ReadFrom(r); err != nil {
		return nil, errors.Wrap(ErrTruncatedPayload, err.Error())
	}
	return ba, nil
}
