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

// Package proteins parses the TSV protein database and owns the concatenated
// text together with the per-protein records built from it. It is the one
// place in the module that touches the database file format; everything
// downstream (Builder, Searcher) consumes its plain []byte text and
// []Protein records.
package proteins

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/pepsearch/internal/packedtext"
)

// Protein is one row of the protein database: its accession, owning taxon,
// and the functional-annotation fields carried through opaquely (the
// EC/GO/IPR *decoder* is out of scope for this module; the raw fields are
// concatenated and kept verbatim so callers can still expose them).
type Protein struct {
	UniprotID   string
	TaxonID     uint32
	Annotations []byte
}

// Proteins owns the full concatenated database text and the ordered record
// list whose i-th element owns the i-th sequence in concatenation order.
type Proteins struct {
	Text    []byte
	Records []Protein
}

// ErrMalformedRow is returned when a TSV row does not have the expected
// uniprot_id/taxon_id/sequence/ec/go/ipr six fields.
var ErrMalformedRow = errors.New("proteins: malformed database row")

// LoadDatabaseFile reads a tab-separated protein database (uniprot_id,
// taxon_id, sequence, ec_encoded, go_encoded, ipr_encoded) and builds the
// concatenated text (sequences uppercased and joined by '-', with the final
// separator replaced by the terminator '$') plus the parallel Protein
// records.
func LoadDatabaseFile(path string) (*Proteins, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database file %q", path)
	}
	defer f.Close()

	var text strings.Builder
	var records []Protein

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 6 {
			return nil, errors.Wrapf(ErrMalformedRow, "line %d: expected 6 fields, got %d", lineNo, len(fields))
		}

		uniprotID := fields[0]
		taxonID, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: parsing taxon_id", lineNo)
		}
		sequence := strings.ToUpper(fields[2])

		text.WriteString(sequence)
		text.WriteByte(packedtext.Separator)

		annotations := strings.Join(fields[3:6], ";")
		records = append(records, Protein{
			UniprotID:   uniprotID,
			TaxonID:     uint32(taxonID),
			Annotations: []byte(annotations),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading database file")
	}

	raw := text.String()
	if len(raw) == 0 {
		return &Proteins{Text: []byte{packedtext.Terminator}, Records: records}, nil
	}
	// drop the trailing separator appended after the last sequence and
	// replace it with the single terminator
	out := make([]byte, len(raw))
	copy(out, raw)
	out[len(out)-1] = packedtext.Terminator

	return &Proteins{Text: out, Records: records}, nil
}

// Len returns the number of protein records.
func (p *Proteins) Len() int { return len(p.Records) }
