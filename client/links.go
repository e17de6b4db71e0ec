package client

// PersonLinks is the people list of a media record. At most one entry has
// RoleResponsible and a person appears at most once.
type PersonLinks []MediaPersonLink

func (l PersonLinks) Validate() error {
	seen := make(map[int64]bool, len(l))
	responsible := 0
	for _, link := range l {
		if !link.Role.Valid() {
			return invalid("people", "Papel inválido (use responsavel ou participante).")
		}
		if seen[link.PersonID] {
			return invalid("people", "Pessoa repetida na mídia.")
		}
		seen[link.PersonID] = true
		if link.Role == RoleResponsible {
			responsible++
		}
	}
	if responsible > 1 {
		return invalid("people", "Apenas um responsável por mídia.")
	}
	return nil
}

// Responsible returns the responsible person's id.
func (l PersonLinks) Responsible() (int64, bool) {
	for _, link := range l {
		if link.Role == RoleResponsible {
			return link.PersonID, true
		}
	}
	return 0, false
}

// Participants returns the participant ids in order.
func (l PersonLinks) Participants() []int64 {
	var ids []int64
	for _, link := range l {
		if link.Role == RoleParticipant {
			ids = append(ids, link.PersonID)
		}
	}
	return ids
}

// WithResponsible returns a copy where personID is the only responsible.
// A previous responsible is dropped, and personID stops being a participant.
func (l PersonLinks) WithResponsible(personID int64) PersonLinks {
	out := make(PersonLinks, 0, len(l)+1)
	for _, link := range l {
		if link.Role == RoleResponsible || link.PersonID == personID {
			continue
		}
		out = append(out, link)
	}
	return append(out, MediaPersonLink{PersonID: personID, Role: RoleResponsible})
}

// WithoutResponsible returns a copy with the responsible removed.
func (l PersonLinks) WithoutResponsible() PersonLinks {
	out := make(PersonLinks, 0, len(l))
	for _, link := range l {
		if link.Role != RoleResponsible {
			out = append(out, link)
		}
	}
	return out
}

// WithParticipants replaces the participants with ids, keeping the
// responsible. The responsible and repeated ids are skipped.
func (l PersonLinks) WithParticipants(ids []int64) PersonLinks {
	out := make(PersonLinks, 0, len(ids)+1)
	resp, hasResp := l.Responsible()
	if hasResp {
		out = append(out, MediaPersonLink{PersonID: resp, Role: RoleResponsible})
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		if (hasResp && id == resp) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, MediaPersonLink{PersonID: id, Role: RoleParticipant})
	}
	return out
}

// Has reports whether personID is linked in any role.
func (l PersonLinks) Has(personID int64) bool {
	for _, link := range l {
		if link.PersonID == personID {
			return true
		}
	}
	return false
}
