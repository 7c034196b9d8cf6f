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
	"path/filepath"
	"testing"

	"github.com/shenwei356/pepsearch/internal/proteins"
	"github.com/shenwei356/pepsearch/internal/search"
	"github.com/shenwei356/pepsearch/internal/suffixtoprotein"
)

func TestRunAndLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db.tsv")
	contents := "P00001\t9606\tmkwvtfisllflfssaysr\tEC1\tGO1\tIPR1\n" +
		"P00002\t10090\tahkseiahrfk\tEC2\tGO2\tIPR2\n"
	if err := os.WriteFile(dbPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "idx")
	opt := &Options{
		DatabasePath:     dbPath,
		OutputDir:        outDir,
		SparsenessFactor: 1,
	}
	if err := Run(opt); err != nil {
		t.Fatalf("Run: %v", err)
	}

	idx, err := Load(outDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Info.Proteins != 2 {
		t.Errorf("Info.Proteins = %d, want 2", idx.Info.Proteins)
	}
	if idx.Text.Len() != idx.Info.TextLength {
		t.Errorf("Text.Len() = %d, want %d", idx.Text.Len(), idx.Info.TextLength)
	}

	db, err := proteins.LoadDatabaseFile(dbPath)
	if err != nil {
		t.Fatalf("LoadDatabaseFile: %v", err)
	}

	toProtein := suffixtoprotein.NewSparse(idx.Text)
	s, err := search.New(idx.SA, idx.Text, db, toProtein, idx.Info.K)
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}

	res := s.SearchPeptide(search.Query{Sequence: "AHKSEIAHRFK", Cutoff: search.Unbounded})
	if len(res.Proteins) != 1 {
		t.Fatalf("expected 1 protein match, got %d (%+v)", len(res.Proteins), res)
	}
	if res.Proteins[0].UniprotID != "P00002" {
		t.Errorf("matched protein = %q, want P00002", res.Proteins[0].UniprotID)
	}

	noMatch := s.SearchPeptide(search.Query{Sequence: "ZZZZZ"})
	if len(noMatch.Proteins) != 0 {
		t.Errorf("expected no match for out-of-alphabet query, got %+v", noMatch)
	}
}
