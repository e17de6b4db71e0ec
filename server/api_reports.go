package main

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var reportHeader = []string{"media_id", "title", "platform", "url", "published_at", "line_id", "system_id"}

// GET /api/reports/by-person?person_id=...[&csv_export=true]
func (a *api) handleReportByPerson(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, errs := parseMediaFilter(q)
	if strings.TrimSpace(q.Get("person_id")) == "" {
		errs.add("person_id", "Informe a pessoa.")
	}
	asCSV := false
	if v := q.Get("csv_export"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs.add("csv_export", "Valor inválido para csv_export.")
		}
		asCSV = b
	}
	if len(errs) > 0 {
		invalid(w, errs)
		return
	}
	items, err := a.store.ListMedia(r.Context(), f)
	if err != nil {
		a.fail(w, r, "report by person", err, "")
		return
	}
	if !asCSV {
		writeJSON(w, 200, items)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio_por_pessoa.csv"`)
	w.WriteHeader(200)
	if err := writeMediaCSV(w, items); err != nil {
		a.log.Error("write report csv", "err", err, "request_id", requestID(r.Context()))
	}
}

func writeMediaCSV(w io.Writer, items []Media) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, m := range items {
		if err := cw.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.Platform,
			m.URL,
			m.PublishedAt,
			formatID(m.LineID),
			formatID(m.SystemID),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
