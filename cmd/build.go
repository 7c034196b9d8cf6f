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

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shenwei356/pepsearch/internal/build"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a sparse suffix array index from a protein database",
	Long: `Build reads a tab-separated protein database (uniprot_id, taxon_id,
sequence, ec, go, ipr), constructs a sparse suffix array over the
concatenated sequence text, and writes the on-disk index directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := cmd.Flags().GetString("database")
		checkError(err)
		output, err := cmd.Flags().GetString("output")
		checkError(err)
		sparsenessFactor, err := cmd.Flags().GetInt("sparseness-factor")
		checkError(err)
		algorithm, err := cmd.Flags().GetString("construction-algorithm")
		checkError(err)
		compressSA, err := cmd.Flags().GetBool("compress-sa")
		checkError(err)
		force, err := cmd.Flags().GetBool("force")
		checkError(err)
		verbose, err := cmd.Flags().GetBool("verbose")
		checkError(err)

		opt := &build.Options{
			DatabasePath:          database,
			OutputDir:             output,
			SparsenessFactor:      sparsenessFactor,
			ConstructionAlgorithm: algorithm,
			CompressSA:            compressSA,
			Force:                 force,
			Verbose:               verbose,
		}

		start := time.Now()
		checkError(build.Run(opt))
		if verbose {
			cmd.Printf("built index in %s\n", time.Since(start))
		}
	},
}

func init() {
	buildCmd.Flags().StringP("database", "d", "", "path to the protein database TSV file")
	buildCmd.Flags().StringP("output", "o", "", "output index directory")
	buildCmd.Flags().IntP("sparseness-factor", "s", 1, "suffix array sampling rate (sparseness)")
	buildCmd.Flags().String("construction-algorithm", "sais", `suffix array construction algorithm ("sais")`)
	buildCmd.Flags().Bool("compress-sa", false, "bit-pack the on-disk suffix array")
	buildCmd.Flags().BoolP("force", "f", false, "overwrite a non-empty output directory")
	buildCmd.Flags().BoolP("verbose", "v", false, "print progress bars and a final timing summary")

	buildCmd.MarkFlagRequired("database")
	buildCmd.MarkFlagRequired("output")
}
