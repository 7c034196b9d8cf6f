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

// Package build drives the end-to-end index build: load the protein
// database, construct the sparse suffix array, and write the on-disk
// container plus its info.toml manifest.
package build

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
)

// dirIsEmpty reports whether dir has no entries. Used alongside
// pathutil.DirExists, which only answers existence, not emptiness.
func dirIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// FileInfo is the manifest filename written into every index directory.
const FileInfo = "info.toml"

// FileText and FileSA are the two container payload filenames.
const (
	FileText = "text.bin"
	FileSA   = "sa.bin"
)

// FormatVersion is bumped whenever the on-disk layout changes incompatibly.
const FormatVersion = 1

// Options controls one build run.
type Options struct {
	DatabasePath          string
	OutputDir             string
	SparsenessFactor      int
	ConstructionAlgorithm string // only "sais" is implemented
	CompressSA            bool
	Force                 bool
	Verbose               bool
}

// ErrUnsupportedAlgorithm is returned for any ConstructionAlgorithm other
// than "sais", the only one this module implements.
var ErrUnsupportedAlgorithm = errors.New("build: unsupported construction algorithm")

// CheckOptions validates an Options value and the filesystem state around
// it before Run touches anything.
func CheckOptions(opt *Options) error {
	if opt.SparsenessFactor < 1 {
		return errors.Errorf("invalid sparseness factor: %d, should be >= 1", opt.SparsenessFactor)
	}
	if opt.ConstructionAlgorithm != "" && opt.ConstructionAlgorithm != "sais" {
		return errors.Wrapf(ErrUnsupportedAlgorithm, "%q", opt.ConstructionAlgorithm)
	}

	if _, err := os.Stat(opt.DatabasePath); err != nil {
		return errors.Wrapf(err, "database file %q", opt.DatabasePath)
	}

	exists, err := pathutil.DirExists(opt.OutputDir)
	if err != nil {
		return errors.Wrapf(err, "checking output dir %q", opt.OutputDir)
	}
	if exists && !opt.Force {
		empty, err := dirIsEmpty(opt.OutputDir)
		if err != nil {
			return errors.Wrapf(err, "checking output dir %q", opt.OutputDir)
		}
		if !empty {
			return errors.Errorf("output dir %q is not empty, use --force to overwrite", opt.OutputDir)
		}
	}

	return nil
}

// Info is the info.toml manifest: everything the serve command needs to
// interpret the container files without re-deriving it from the database.
type Info struct {
	FormatVersion    int  `toml:"format-version" comment:"Index format"`
	K                int  `toml:"k" comment:"bounds-cache k-mer prefix length"`
	SparsenessFactor int  `toml:"sparseness-factor"`
	Compressed       bool `toml:"compressed" comment:"whether the suffix array is bit-packed"`
	BitsPerValue     int  `toml:"bits-per-value"`
	TextLength       int  `toml:"text-length"`
	Proteins         int  `toml:"proteins"`
}

// WriteInfo writes the manifest to `dir`/info.toml.
func WriteInfo(dir string, info *Info) error {
	data, err := toml.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "marshaling info.toml")
	}
	if err := os.WriteFile(dir+string(os.PathSeparator)+FileInfo, data, 0o644); err != nil {
		return errors.Wrap(err, "writing info.toml")
	}
	return nil
}

// ReadInfo loads the manifest from `dir`/info.toml.
func ReadInfo(dir string) (*Info, error) {
	data, err := os.ReadFile(dir + string(os.PathSeparator) + FileInfo)
	if err != nil {
		return nil, errors.Wrap(err, "reading info.toml")
	}
	info := &Info{}
	if err := toml.Unmarshal(data, info); err != nil {
		return nil, errors.Wrap(err, "parsing info.toml")
	}
	return info, nil
}
