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

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shenwei356/pepsearch/internal/packedtext"
	"github.com/shenwei356/pepsearch/internal/proteins"
	"github.com/shenwei356/pepsearch/internal/saisbuild"
	"github.com/shenwei356/pepsearch/internal/search"
	"github.com/shenwei356/pepsearch/internal/suffixarray"
	"github.com/shenwei356/pepsearch/internal/suffixtoprotein"
)

// buildTestServer indexes a two-protein in-memory database and returns a
// ready-to-use Server, mirroring the fixture shape used across the search
// package's tests.
func buildTestServer(t *testing.T) *Server {
	t.Helper()

	db := &proteins.Proteins{
		Text: []byte("MKWVTFISLLFLFSSAYSR-AHKSEIAHRFK$"),
		Records: []proteins.Protein{
			{UniprotID: "P00001", TaxonID: 9606, Annotations: []byte("EC1;GO1;IPR1")},
			{UniprotID: "P00002", TaxonID: 10090, Annotations: []byte("EC2;GO2;IPR2")},
		},
	}

	text, err := packedtext.FromBytes(db.Text)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	res, err := saisbuild.Build(db.Text, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sa := suffixarray.New(res.SA, uint8(res.SparsenessFactor))
	toProtein := suffixtoprotein.NewDense(text)

	searcher, err := search.New(sa, text, db, toProtein, 3)
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}

	log := zerolog.New(io.Discard)
	return New(searcher, db.Len(), len(db.Text), log)
}

func TestHandleHealthz(t *testing.T) {
	s := buildTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body healthzResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Status != "ok" || body.Proteins != 2 {
		t.Errorf("unexpected healthz body: %+v", body)
	}
}

func TestHandleSearchFindsMatch(t *testing.T) {
	s := buildTestServer(t)
	reqBody := `{"peptides":["AHKSEIAHRFK","ZZZZZ"]}`
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var results []searchResponseItem
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	if len(results[0].Proteins) != 1 || results[0].Proteins[0].UniprotAccession != "P00002" {
		t.Errorf("results[0] = %+v, want a single match on P00002", results[0])
	}
	if len(results[1].Proteins) != 0 {
		t.Errorf("results[1] = %+v, want no matches for out-of-alphabet query", results[1])
	}
}

func TestHandleSearchExplicitZeroCutoffCaps(t *testing.T) {
	s := buildTestServer(t)
	reqBody := `{"peptides":["AHKSEIAHRFK"],"cutoff":0}`
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var results []searchResponseItem
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	// An explicit cutoff of 0 is a real cap, not "omitted" -- it must not
	// fall back to defaultCutoff, so the otherwise-matching peptide comes
	// back capped with no proteins resolved.
	if !results[0].CutoffUsed || len(results[0].Proteins) != 0 {
		t.Errorf("results[0] = %+v, want CutoffUsed=true with no proteins", results[0])
	}
}

func TestHandleSearchOmittedCutoffUsesDefault(t *testing.T) {
	s := buildTestServer(t)
	reqBody := `{"peptides":["AHKSEIAHRFK"]}`
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(reqBody))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var results []searchResponseItem
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(results) != 1 || results[0].CutoffUsed || len(results[0].Proteins) != 1 {
		t.Errorf("results[0] = %+v, want one uncapped match", results[0])
	}
}

func TestHandleSearchMalformedBody(t *testing.T) {
	s := buildTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
