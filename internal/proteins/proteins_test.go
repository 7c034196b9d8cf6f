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

package proteins

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempDB(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "db.tsv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDatabaseFile(t *testing.T) {
	path := writeTempDB(t, "P00001\t9606\tmkwvtfisllflfssaysr\tEC1\tGO1\tIPR1\n"+
		"P00002\t10090\tahkseiahrfk\tEC2\tGO2\tIPR2\n")

	db, err := LoadDatabaseFile(path)
	if err != nil {
		t.Fatalf("LoadDatabaseFile: %v", err)
	}

	if db.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", db.Len())
	}

	want := "MKWVTFISLLFLFSSAYSR-AHKSEIAHRFK$"
	if string(db.Text) != want {
		t.Errorf("Text = %q, want %q", db.Text, want)
	}

	if db.Records[0].UniprotID != "P00001" || db.Records[0].TaxonID != 9606 {
		t.Errorf("Records[0] = %+v, want UniprotID=P00001 TaxonID=9606", db.Records[0])
	}
	if string(db.Records[0].Annotations) != "EC1;GO1;IPR1" {
		t.Errorf("Records[0].Annotations = %q", db.Records[0].Annotations)
	}
	if db.Records[1].TaxonID != 10090 {
		t.Errorf("Records[1].TaxonID = %d, want 10090", db.Records[1].TaxonID)
	}
}

func TestLoadDatabaseFileEmpty(t *testing.T) {
	path := writeTempDB(t, "")
	db, err := LoadDatabaseFile(path)
	if err != nil {
		t.Fatalf("LoadDatabaseFile: %v", err)
	}
	if db.Len() != 0 {
		t.Errorf("Len() = %d, want 0", db.Len())
	}
	if string(db.Text) != "$" {
		t.Errorf("Text = %q, want %q", db.Text, "$")
	}
}

func TestLoadDatabaseFileMalformedRow(t *testing.T) {
	path := writeTempDB(t, "P00001\t9606\tMKWV\n")
	if _, err := LoadDatabaseFile(path); err == nil {
		t.Fatal("expected error for row with too few fields")
	}
}
