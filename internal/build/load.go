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

package build

import (
	"os"

	"github.com/pkg/errors"

	"github.com/shenwei356/pepsearch/internal/container"
	"github.com/shenwei356/pepsearch/internal/packedtext"
	"github.com/shenwei356/pepsearch/internal/suffixarray"
)

// Index bundles everything read back from an index directory: the
// manifest, the packed text, and the suffix array.
type Index struct {
	Info *Info
	Text *packedtext.Text
	SA   *suffixarray.SuffixArray
}

// Load reads a previously built index directory: info.toml, text.bin, and
// sa.bin. It does not touch the original protein database -- callers that
// need protein records load those separately via internal/proteins.
func Load(dir string) (*Index, error) {
	info, err := ReadInfo(dir)
	if err != nil {
		return nil, err
	}

	textFile, err := os.Open(dir + string(os.PathSeparator) + FileText)
	if err != nil {
		return nil, errors.Wrap(err, "opening text container")
	}
	defer textFile.Close()
	ba, err := container.ReadPackedText(textFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading text container")
	}
	text := packedtext.FromBitArray(ba)

	saFile, err := os.Open(dir + string(os.PathSeparator) + FileSA)
	if err != nil {
		return nil, errors.Wrap(err, "opening suffix array container")
	}
	defer saFile.Close()
	header, err := container.ReadSuffixArrayHeader(saFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading suffix array header")
	}
	values, err := container.ReadSuffixArrayPayload(saFile, header)
	if err != nil {
		return nil, errors.Wrap(err, "reading suffix array payload")
	}

	// ReadSuffixArrayPayload already decodes a compressed on-disk payload
	// back into plain int64s, so the in-memory representation is always
	// the uncompressed variant regardless of how it was stored.
	sa := suffixarray.New(values, header.SampleRate)

	return &Index{Info: info, Text: text, SA: sa}, nil
}
