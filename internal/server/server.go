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

// Package server exposes a peptide Searcher over HTTP: POST /search for
// batch peptide lookups and GET /healthz for readiness checks.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/shenwei356/pepsearch/internal/search"
)

// defaultCutoff matches peptide_search.rs's default match cap when a
// request omits "cutoff".
const defaultCutoff = 10000

// defaultNumWorkers bounds how many peptides from one batch are searched
// concurrently.
const defaultNumWorkers = 8

// Server holds everything the HTTP handlers need: the loaded searcher and
// the sizes reported by /healthz.
type Server struct {
	searcher   *search.Searcher
	proteins   int
	textLength int
	log        zerolog.Logger
	numWorkers int
}

// New builds a Server around an already-populated Searcher.
func New(searcher *search.Searcher, proteins, textLength int, log zerolog.Logger) *Server {
	return &Server{
		searcher:   searcher,
		proteins:   proteins,
		textLength: textLength,
		log:        log,
		numWorkers: defaultNumWorkers,
	}
}

// Router builds the chi router: request logging, panic recovery, and the
// two routes described in the HTTP API contract.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/search", s.handleSearch)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// requestLogger logs method, path, latency, and status for every request.
// The number of peptides in a /search body is not logged.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

// searchRequest is the JSON body accepted by POST /search. Cutoff is a
// pointer so an explicit 0 (a valid, meaningful cap per the search
// contract) can be told apart from an omitted field, which falls back to
// defaultCutoff.
type searchRequest struct {
	Peptides []string `json:"peptides"`
	Cutoff   *int     `json:"cutoff"`
	EquateIL bool     `json:"equate_il"`
	Tryptic  bool     `json:"tryptic"`
}

// proteinInfo is one matched protein in a search response element.
type proteinInfo struct {
	Taxon                uint32 `json:"taxon"`
	UniprotAccession     string `json:"uniprot_accession"`
	FunctionalAnnotation string `json:"functional_annotations"`
}

// searchResponseItem is one element of the POST /search response array,
// positionally aligned with the request's peptide list.
type searchResponseItem struct {
	Sequence   string        `json:"sequence"`
	Proteins   []proteinInfo `json:"proteins"`
	CutoffUsed bool          `json:"cutoff_used"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	cutoff := defaultCutoff
	if req.Cutoff != nil {
		cutoff = *req.Cutoff
	}
	if cutoff < 0 {
		http.Error(w, "cutoff must be >= 0", http.StatusBadRequest)
		return
	}

	queries := make([]search.Query, len(req.Peptides))
	for i, pep := range req.Peptides {
		queries[i] = search.Query{
			Sequence: pep,
			Cutoff:   cutoff,
			EquateIL: req.EquateIL,
			Tryptic:  req.Tryptic,
		}
	}

	results := s.searcher.SearchPeptides(queries, s.numWorkers)

	out := make([]searchResponseItem, len(results))
	for i, res := range results {
		item := searchResponseItem{Sequence: res.Sequence, CutoffUsed: res.CutoffUsed}
		item.Proteins = make([]proteinInfo, len(res.Proteins))
		for j, p := range res.Proteins {
			item.Proteins[j] = proteinInfo{
				Taxon:                p.TaxonID,
				UniprotAccession:     p.UniprotID,
				FunctionalAnnotation: string(p.Annotations),
			}
		}
		out[i] = item
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Error().Err(err).Msg("encoding search response")
	}
}

type healthzResponse struct {
	Status     string `json:"status"`
	Proteins   int    `json:"proteins"`
	TextLength int    `json:"text_length"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthzResponse{
		Status:     "ok",
		Proteins:   s.proteins,
		TextLength: s.textLength,
	})
}
