package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDirectory() *Directory {
	return NewDirectory(
		[]Person{{ID: 1, Name: "Ana Souza"}, {ID: 2, Name: "Bruno Lima"}},
		[]Line{{ID: 10, Name: "Jornalismo", SystemID: Ptr[int64](100)}, {ID: 11, Name: "Esportes"}},
		[]System{{ID: 100, Name: "TV"}},
	)
}

func testMedia() []Media {
	return []Media{
		{
			ID: 1, Title: "Entrevista", Platform: PlatformYouTube, URL: "https://youtu.be/1",
			PublishedAt: "2025-01-10", LineID: Ptr[int64](10), SystemID: Ptr[int64](100),
			People: PersonLinks{{PersonID: 1, Role: RoleResponsible}, {PersonID: 2, Role: RoleParticipant}},
		},
		{
			ID: 2, Title: "Resumo da rodada", Platform: PlatformVimeo, URL: "https://vimeo.com/2",
			PublishedAt: "2025-02-20T10:00:00", LineID: Ptr[int64](11),
			People: PersonLinks{{PersonID: 2, Role: RoleResponsible}},
		},
		{
			ID: 3, Title: "Bastidores", Platform: PlatformYouTube, URL: "https://youtu.be/3",
			PublishedAt: "2025-03-05",
		},
	}
}

func ids(media []Media) []int64 {
	out := []int64{}
	for _, m := range media {
		out = append(out, m.ID)
	}
	return out
}

func TestMediaFilterApply(t *testing.T) {
	dir := testDirectory()
	media := testMedia()

	tests := []struct {
		name   string
		filter MediaFilter
		want   []int64
	}{
		{"zero matches all", MediaFilter{}, []int64{1, 2, 3}},
		{"title", MediaFilter{Text: "RODADA"}, []int64{2}},
		{"person name", MediaFilter{Text: "bruno"}, []int64{1, 2}},
		{"platform", MediaFilter{Platform: PlatformYouTube}, []int64{1, 3}},
		{"system", MediaFilter{SystemID: 100}, []int64{1}},
		{"line", MediaFilter{LineID: 11}, []int64{2}},
		{"responsible only", MediaFilter{ResponsibleID: 2}, []int64{2}},
		{"date from", MediaFilter{DateFrom: "2025-02-20"}, []int64{2, 3}},
		{"date range", MediaFilter{DateFrom: "2025-01-01", DateTo: "2025-02-20"}, []int64{1, 2}},
		{"combined", MediaFilter{Text: "a", Platform: PlatformYouTube, DateTo: "2025-02-01"}, []int64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(media, dir)))
		})
	}
	assert.True(t, MediaFilter{}.IsZero())
}

func TestVisibleLines(t *testing.T) {
	lines := []Line{{ID: 10, SystemID: Ptr[int64](100)}, {ID: 11}, {ID: 12, SystemID: Ptr[int64](200)}}
	assert.Len(t, VisibleLines(lines, 0), 3)
	got := VisibleLines(lines, 100)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}
