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
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shenwei356/pepsearch/internal/build"
	"github.com/shenwei356/pepsearch/internal/proteins"
	"github.com/shenwei356/pepsearch/internal/search"
	"github.com/shenwei356/pepsearch/internal/server"
	"github.com/shenwei356/pepsearch/internal/suffixtoprotein"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve peptide search over HTTP",
	Long: `Serve loads a prebuilt index directory and the protein database it was
built from, then exposes POST /search and GET /healthz over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := cmd.Flags().GetString("database")
		checkError(err)
		indexDir, err := cmd.Flags().GetString("index")
		checkError(err)
		addr, err := cmd.Flags().GetString("addr")
		checkError(err)
		logFormat, err := cmd.Flags().GetString("log-format")
		checkError(err)

		log := newLogger(logFormat)

		idx, err := build.Load(indexDir)
		checkError(errors.Wrap(err, "loading index"))

		db, err := proteins.LoadDatabaseFile(database)
		checkError(errors.Wrap(err, "loading protein database"))

		toProtein := suffixtoprotein.NewSparse(idx.Text)
		searcher, err := search.New(idx.SA, idx.Text, db, toProtein, idx.Info.K)
		checkError(errors.Wrap(err, "building searcher"))

		srv := server.New(searcher, db.Len(), len(db.Text), log)

		log.Info().Str("addr", addr).Int("proteins", db.Len()).Msg("listening")
		checkError(http.ListenAndServe(addr, srv.Router()))
	},
}

// newLogger builds a zerolog.Logger writing JSON to stderr when logFormat is
// "json", and a human-readable console format otherwise.
func newLogger(logFormat string) zerolog.Logger {
	if logFormat == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).With().Timestamp().Logger()
}

func init() {
	serveCmd.Flags().StringP("database", "d", "", "path to the protein database TSV file used at build time")
	serveCmd.Flags().StringP("index", "i", "", "prebuilt index directory")
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("log-format", "console", `request log format ("console" or "json")`)

	serveCmd.MarkFlagRequired("database")
	serveCmd.MarkFlagRequired("index")
}
