package client

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

const missing = "—"

// ReportHeader lists the columns of an exported media report.
var ReportHeader = []string{"Título", "Responsável", "Participantes", "Linha", "Sistema", "Plataforma", "Data", "URL"}

// Report is a media listing flattened to display strings.
type Report struct {
	Header     []string
	Rows       [][]string
	Total      int
	ByPlatform map[string]int
}

// BuildReport resolves names through dir; unknown or absent values become "—".
func BuildReport(media []Media, dir *Directory) Report {
	r := Report{Header: ReportHeader, Total: len(media), ByPlatform: map[string]int{}}
	if dir == nil {
		dir = NewDirectory(nil, nil, nil)
	}
	for _, m := range media {
		responsible := missing
		if id, ok := m.People.Responsible(); ok {
			responsible = nameOr(dir.PersonName(id))
		}
		var parts []string
		for _, id := range m.People.Participants() {
			parts = append(parts, nameOr(dir.PersonName(id)))
		}
		participants := missing
		if len(parts) > 0 {
			participants = strings.Join(parts, ", ")
		}
		platform := orMissing(string(m.Platform))
		r.ByPlatform[platform]++
		r.Rows = append(r.Rows, []string{
			orMissing(m.Title),
			responsible,
			participants,
			nameOr(dir.LineName(m.LineID)),
			nameOr(dir.SystemName(m.SystemID)),
			platform,
			orMissing(datePrefix(m.PublishedAt)),
			orMissing(m.URL),
		})
	}
	return r
}

// PlatformSummary renders the per-platform totals, e.g. "vimeo: 2  •  youtube: 1".
func (r Report) PlatformSummary() string {
	keys := make([]string, 0, len(r.ByPlatform))
	for k := range r.ByPlatform {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, r.ByPlatform[k]))
	}
	return strings.Join(parts, "  •  ")
}

// WriteCSV writes the report as ';'-separated CSV with a header row.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(r.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// FileName returns the export file name stamped with t, e.g.
// relatorio-midias-2025-08-10-1430.csv.
func FileName(t time.Time, ext string) string {
	return "relatorio-midias-" + t.Format("2006-01-02-1504") + "." + ext
}

func nameOr(name string, ok bool) string {
	if !ok || name == "" {
		return missing
	}
	return name
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
