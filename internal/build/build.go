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
	"math/bits"
	"os"

	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/shenwei356/pepsearch/internal/container"
	"github.com/shenwei356/pepsearch/internal/packedtext"
	"github.com/shenwei356/pepsearch/internal/proteins"
	"github.com/shenwei356/pepsearch/internal/saisbuild"
)

// ErrBuildFailed wraps any failure during the suffix-array construction
// stage, distinguishing it from I/O or option-validation errors.
var ErrBuildFailed = errors.New("build: index construction failed")

// defaultBoundsCacheK is the k-mer length internal/search's bounds cache is
// populated for. 3 keeps the cache small (20^3-ish entries) while still
// meaningfully narrowing the binary search's starting window.
const defaultBoundsCacheK = 3

// Run executes one full build: load the protein database, construct the
// sparse suffix array, write the packed-text and suffix-array containers,
// and write the info.toml manifest.
func Run(opt *Options) error {
	if err := CheckOptions(opt); err != nil {
		return err
	}
	if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output dir %q", opt.OutputDir)
	}

	var pbs *mpb.Progress
	if opt.Verbose {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	}
	stage := func(name string, total int64) *mpb.Bar {
		if pbs == nil {
			return nil
		}
		return pbs.AddBar(total,
			mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name), C: decor.DindentRight})),
			mpb.AppendDecorators(decor.OnComplete(decor.Name(""), ". done")),
		)
	}
	finish := func(bar *mpb.Bar, total int64) {
		if bar != nil {
			bar.SetCurrent(total)
		}
	}

	bar := stage("packing text", 1)
	db, err := proteins.LoadDatabaseFile(opt.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "loading protein database")
	}
	text, err := packedtext.FromBytes(db.Text)
	if err != nil {
		return errors.Wrap(err, "packing protein text")
	}
	finish(bar, 1)

	bar = stage("building suffix array", 1)
	res, err := saisbuild.Build(db.Text, opt.SparsenessFactor)
	if err != nil {
		return errors.Wrap(ErrBuildFailed, err.Error())
	}
	finish(bar, 1)

	bar = stage("sampling", 1)
	// saisbuild.Build already applies the sparseness subsampling; this
	// stage exists to report it to the user as a distinct step, matching
	// the pipeline named in the build's logging contract.
	finish(bar, 1)

	bar = stage("writing container", 1)
	bitsPerValue := bitsNeededFor(int64(len(db.Text)))
	if err := writeContainers(opt.OutputDir, text, res.SA, bitsPerValue, opt.CompressSA, opt.SparsenessFactor); err != nil {
		return err
	}
	finish(bar, 1)

	if pbs != nil {
		pbs.Wait()
	}

	info := &Info{
		FormatVersion:    FormatVersion,
		K:                defaultBoundsCacheK,
		SparsenessFactor: opt.SparsenessFactor,
		Compressed:       opt.CompressSA,
		BitsPerValue:     int(bitsPerValue),
		TextLength:       len(db.Text),
		Proteins:         db.Len(),
	}
	return WriteInfo(opt.OutputDir, info)
}

// bitsNeededFor returns ceil(log2(n)), the minimum bit width able to
// represent every offset in [0, n), with a floor of 8 bits.
func bitsNeededFor(n int64) uint8 {
	if n <= 1 {
		return 8
	}
	b := bits.Len64(uint64(n - 1))
	if b < 8 {
		b = 8
	}
	return uint8(b)
}

func writeContainers(dir string, text *packedtext.Text, sa []int64, bitsPerValue uint8, compressSA bool, sampleRate int) error {
	textFile, err := os.Create(dir + string(os.PathSeparator) + FileText)
	if err != nil {
		return errors.Wrap(err, "creating text container")
	}
	defer textFile.Close()
	if err := container.WritePackedText(textFile, text.BitArray()); err != nil {
		return errors.Wrap(err, "writing text container")
	}

	saFile, err := os.Create(dir + string(os.PathSeparator) + FileSA)
	if err != nil {
		return errors.Wrap(err, "creating suffix array container")
	}
	defer saFile.Close()

	rate := uint8(sampleRate)
	if compressSA {
		if err := container.WriteCompressedSuffixArray(saFile, sa, bitsPerValue, rate); err != nil {
			return errors.Wrap(err, "writing compressed suffix array container")
		}
		return nil
	}
	if err := container.WriteSuffixArray(saFile, sa, rate); err != nil {
		return errors.Wrap(err, "writing suffix array container")
	}
	return nil
}
