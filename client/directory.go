package client

// Directory resolves ids to display names for filtering and reports.
type Directory struct {
	people  map[int64]Person
	lines   map[int64]Line
	systems map[int64]System
}

func NewDirectory(people []Person, lines []Line, systems []System) *Directory {
	d := &Directory{
		people:  make(map[int64]Person, len(people)),
		lines:   make(map[int64]Line, len(lines)),
		systems: make(map[int64]System, len(systems)),
	}
	for _, p := range people {
		d.people[p.ID] = p
	}
	for _, l := range lines {
		d.lines[l.ID] = l
	}
	for _, s := range systems {
		d.systems[s.ID] = s
	}
	return d
}

func (d *Directory) PersonName(id int64) (string, bool) {
	p, ok := d.people[id]
	return p.Name, ok
}

func (d *Directory) LineName(id *int64) (string, bool) {
	if id == nil {
		return "", false
	}
	l, ok := d.lines[*id]
	return l.Name, ok
}

func (d *Directory) SystemName(id *int64) (string, bool) {
	if id == nil {
		return "", false
	}
	s, ok := d.systems[*id]
	return s.Name, ok
}
