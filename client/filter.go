package client

import "strings"

// MediaFilter narrows an already loaded media list. Zero fields match
// everything.
type MediaFilter struct {
	Text          string
	Platform      Platform
	SystemID      int64
	LineID        int64
	ResponsibleID int64
	DateFrom      string
	DateTo        string
}

func (f MediaFilter) IsZero() bool { return f == MediaFilter{} }

// Apply returns the media matching every criterion, in input order. Text
// matches the title or the name of any linked person, case-insensitively.
func (f MediaFilter) Apply(media []Media, dir *Directory) []Media {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	out := make([]Media, 0, len(media))
	for _, m := range media {
		if text != "" && !matchesText(m, text, dir) {
			continue
		}
		if f.Platform != "" && m.Platform != f.Platform {
			continue
		}
		if f.SystemID != 0 && (m.SystemID == nil || *m.SystemID != f.SystemID) {
			continue
		}
		if f.LineID != 0 && (m.LineID == nil || *m.LineID != f.LineID) {
			continue
		}
		if f.ResponsibleID != 0 {
			if id, ok := m.People.Responsible(); !ok || id != f.ResponsibleID {
				continue
			}
		}
		d := datePrefix(m.PublishedAt)
		if f.DateFrom != "" && (d == "" || d < f.DateFrom) {
			continue
		}
		if f.DateTo != "" && (d == "" || d > f.DateTo) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesText(m Media, text string, dir *Directory) bool {
	if strings.Contains(strings.ToLower(m.Title), text) {
		return true
	}
	if dir == nil {
		return false
	}
	for _, link := range m.People {
		if name, ok := dir.PersonName(link.PersonID); ok && strings.Contains(strings.ToLower(name), text) {
			return true
		}
	}
	return false
}

func datePrefix(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// VisibleLines returns the lines of systemID, or all lines when it is 0.
func VisibleLines(lines []Line, systemID int64) []Line {
	if systemID == 0 {
		return lines
	}
	var out []Line
	for _, l := range lines {
		if l.SystemID != nil && *l.SystemID == systemID {
			out = append(out, l)
		}
	}
	return out
}
