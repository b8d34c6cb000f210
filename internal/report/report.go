// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders PaperRecords as CSV, a console table, JSON or YAML.
// Column names and order are fixed by Headers.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Headers are the report columns in output order.
var Headers = []string{
	"PubmedID",
	"Title",
	"PublicationDate",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// Format selects how papers are rendered.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv, table, json or yaml)", s)
	}
}

// Row flattens p into one value per header.
func Row(p types.PaperRecord) []string {
	return []string{
		p.ID,
		p.Title,
		p.PublicationDate,
		p.JoinedAuthors(),
		p.JoinedCompanies(),
		p.CorrespondingEmail,
	}
}

// Write renders papers to w in format f.
func Write(w io.Writer, f Format, papers []types.PaperRecord) error {
	switch f {
	case FormatCSV, "":
		return writeCSV(w, papers)
	case FormatTable:
		writeTable(w, papers)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(papers))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(nonNil(papers))
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteFile renders papers into path. The file is written to a temporary
// sibling first and renamed into place, so a failed run never leaves a
// truncated report behind.
func WriteFile(path string, f Format, papers []types.PaperRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, f, papers); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, papers []types.PaperRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, p := range papers {
		if err := cw.Write(Row(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Column widths for the console table; the email column is not truncated.
var tableWidths = []int{10, 40, 12, 30, 40}

func writeTable(w io.Writer, papers []types.PaperRecord) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	writeTableRow(w, Headers)
	total := len(tableWidths) * 2
	for _, n := range tableWidths {
		total += n
	}
	fmt.Fprintln(w, strings.Repeat("-", total+len(Headers[len(Headers)-1])))

	for _, p := range papers {
		writeTableRow(w, Row(p))
	}
	fmt.Fprintf(w, "\n%d results\n", len(papers))
}

func writeTableRow(w io.Writer, cells []string) {
	var b strings.Builder
	for i, cell := range cells {
		if i < len(tableWidths) {
			fmt.Fprintf(&b, "%-*s  ", tableWidths[i], truncate(cell, tableWidths[i]))
			continue
		}
		b.WriteString(cell)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// nonNil keeps JSON and YAML output a list even when nothing matched.
func nonNil(papers []types.PaperRecord) []types.PaperRecord {
	if papers == nil {
		return []types.PaperRecord{}
	}
	return papers
}
