// Package importer loads client records from spreadsheets.
//
// The first worksheet is a cover page and is never read. On every other
// sheet the leading rows are captions; the rest carry name, email,
// telephone and address, in that order. Only name and email are stored.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// DefaultHeaderRows is the number of caption rows at the top of each sheet.
const DefaultHeaderRows = 3

const (
	colName = iota
	colEmail
)

type Options struct {
	HeaderRows int
	// Workers stores rows concurrently. Rows with the same e-mail always go
	// to the same worker.
	Workers int
	Log     zerolog.Logger
}

// Issue describes a row that was not imported.
type Issue struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Summary reports the outcome of one import run. Row numbers are 1-based as
// shown by spreadsheet software.
type Summary struct {
	Sheets   int     `json:"sheets"`
	Rows     int     `json:"rows"`
	Created  int     `json:"created"`
	Existing int     `json:"existing"`
	Blank    int     `json:"blank"`
	Issues   []Issue `json:"issues,omitempty"`
}

// ImportClients get-or-creates one client per data row. Running it twice on
// the same file creates nothing the second time. Rows that cannot be stored
// are collected in the summary; only store failures abort the run, in which
// case the summary covers the rows before the failing one.
func ImportClients(ctx context.Context, src RowSource, clients ports.ClientRepository, opts Options) (Summary, error) {
	header := opts.HeaderRows
	if header <= 0 {
		header = DefaultHeaderRows
	}

	var sum Summary
	sheets := src.Sheets()
	if len(sheets) <= 1 {
		return sum, nil
	}

	// Rows are read and checked in file order first; the issues found here
	// are merged back by position once the workers are done.
	var pending []row
	invalid := map[int]Issue{}
	seq := 0
	for _, sheet := range sheets[1:] {
		rows, err := src.Rows(sheet)
		if err != nil {
			return sum, err
		}
		sum.Sheets++
		opts.Log.Info().Str("sheet", sheet).Int("rows", len(rows)).Msg("reading sheet")

		for i := header; i < len(rows); i++ {
			if blank(rows[i]) {
				sum.Blank++
				continue
			}
			sum.Rows++
			r := row{seq: seq, sheet: sheet, line: i + 1, name: cell(rows[i], colName), email: cell(rows[i], colEmail)}
			seq++
			if r.name == "" || r.email == "" {
				invalid[r.seq] = Issue{Sheet: sheet, Row: r.line, Name: r.name, Email: r.email, Reason: "name and email are required"}
				continue
			}
			pending = append(pending, r)
		}
	}

	d := newDispatcher(opts.Workers, seq, clients, opts.Log)
	d.start(ctx)
	for _, r := range pending {
		d.enqueue(r)
	}
	sum = tally(sum, pending, invalid, d.wait(), opts.Log)
	if d.err != nil {
		return sum, fmt.Errorf("sheet %q row %d: %w", d.errRow.sheet, d.errRow.line, d.err)
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// tally folds the outcomes into sum in file order. It stops at the first row
// that was not stored.
func tally(sum Summary, pending []row, invalid map[int]Issue, results []outcome, log zerolog.Logger) Summary {
	next := 0
	for seq := range results {
		if issue, ok := invalid[seq]; ok {
			sum.Issues = append(sum.Issues, issue)
			continue
		}
		r := pending[next]
		next++
		out := results[seq]
		switch {
		case isConflict(out.err):
			sum.Issues = append(sum.Issues, Issue{Sheet: r.sheet, Row: r.line, Name: r.name, Email: r.email, Reason: "email belongs to another client"})
			log.Warn().Str("sheet", r.sheet).Int("row", r.line).Str("email", r.email).Msg("client conflict")
		case out.err != nil:
			return sum
		case out.created:
			sum.Created++
		default:
			sum.Existing++
		}
		if out.client != nil {
			log.Debug().Str("client_id", out.client.ID).Str("name", out.client.Name).Bool("created", out.created).Msg("client imported")
		}
	}
	return sum
}

func isConflict(err error) bool { return errors.Is(err, domain.ErrConflict) }

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
