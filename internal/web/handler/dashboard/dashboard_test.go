package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/souls-console/souls-console/internal/db/models"
)

func testSouls() []Soul {
	return []Soul{
		{ID: 1, Name: "Aurora", Archetype: "mentor", Temperament: "calm", SessionCount: 12},
		{ID: 2, Name: "Brick", Archetype: "companion", Temperament: "cheerful", SessionCount: 3},
		{ID: 3, Name: "Cinder", Archetype: "mentor", Temperament: "stern", SessionCount: 40},
		{ID: 4, Name: "aurelia", Archetype: "muse", Temperament: "dreamy", SessionCount: 7},
	}
}

func TestCategorizeSouls(t *testing.T) {
	dbSouls := []models.Soul{
		{ID: 1, Name: "Aurora", Status: models.SoulStatusActive},
		{ID: 2, Name: "Brick", Status: models.SoulStatusTraining},
		{ID: 3, Name: "Cinder", Status: models.SoulStatusRetired},
		{ID: 4, Name: "Dune", Status: models.SoulStatusActive},
	}

	active, training, retired := categorizeSouls(dbSouls)

	assert.Len(t, active, 2)
	assert.Len(t, training, 1)
	assert.Len(t, retired, 1)
	assert.Equal(t, "Brick", training[0].Name)
	assert.Equal(t, "Cinder", retired[0].Name)
}

func TestFilterSouls(t *testing.T) {
	tests := []struct {
		name            string
		searchQuery     string
		filterArchetype string
		wantNames       []string
	}{
		{
			name:      "no filters",
			wantNames: []string{"Aurora", "Brick", "Cinder", "aurelia"},
		},
		{
			name:        "search is case insensitive",
			searchQuery: "aur",
			wantNames:   []string{"Aurora", "aurelia"},
		},
		{
			name:            "archetype filter",
			filterArchetype: "mentor",
			wantNames:       []string{"Aurora", "Cinder"},
		},
		{
			name:            "search and archetype combined",
			searchQuery:     "aur",
			filterArchetype: "mentor",
			wantNames:       []string{"Aurora"},
		},
		{
			name:        "no matches",
			searchQuery: "zzz",
			wantNames:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterSouls(testSouls(), tt.searchQuery, tt.filterArchetype)

			gotNames := make([]string, 0, len(got))
			for _, soul := range got {
				gotNames = append(gotNames, soul.Name)
			}

			assert.Equal(t, tt.wantNames, gotNames)
		})
	}
}

func TestSortSouls(t *testing.T) {
	t.Run("by name ascending ignores case", func(t *testing.T) {
		souls := testSouls()
		sortSouls(souls, "name", "asc")

		assert.Equal(t, "aurelia", souls[0].Name)
		assert.Equal(t, "Aurora", souls[1].Name)
		assert.Equal(t, "Cinder", souls[3].Name)
	})

	t.Run("by name descending", func(t *testing.T) {
		souls := testSouls()
		sortSouls(souls, "name", "desc")

		assert.Equal(t, "Cinder", souls[0].Name)
	})

	t.Run("by sessions descending", func(t *testing.T) {
		souls := testSouls()
		sortSouls(souls, "sessions", "desc")

		assert.Equal(t, 40, souls[0].SessionCount)
		assert.Equal(t, 3, souls[3].SessionCount)
	})

	t.Run("by archetype ascending", func(t *testing.T) {
		souls := testSouls()
		sortSouls(souls, "archetype", "asc")

		assert.Equal(t, "companion", souls[0].Archetype)
		assert.Equal(t, "muse", souls[3].Archetype)
	})

	t.Run("unknown field keeps order", func(t *testing.T) {
		souls := testSouls()
		sortSouls(souls, "bogus", "asc")

		assert.Equal(t, "Aurora", souls[0].Name)
	})
}

func TestPaginateSouls(t *testing.T) {
	souls := make([]Soul, 0, 55)
	for i := range 55 {
		souls = append(souls, Soul{ID: uint64(i + 1)})
	}

	t.Run("first page", func(t *testing.T) {
		paginated, totalPages, page := paginateSouls(souls, 1, 25)

		assert.Len(t, paginated, 25)
		assert.Equal(t, 3, totalPages)
		assert.Equal(t, 1, page)
		assert.Equal(t, uint64(1), paginated[0].ID)
	})

	t.Run("last partial page", func(t *testing.T) {
		paginated, totalPages, page := paginateSouls(souls, 3, 25)

		assert.Len(t, paginated, 5)
		assert.Equal(t, 3, totalPages)
		assert.Equal(t, 3, page)
		assert.Equal(t, uint64(51), paginated[0].ID)
	})

	t.Run("page beyond range clamps to last page", func(t *testing.T) {
		paginated, totalPages, page := paginateSouls(souls, 99, 25)

		assert.Len(t, paginated, 5)
		assert.Equal(t, 3, totalPages)
		assert.Equal(t, 3, page)
	})

	t.Run("empty input yields single empty page", func(t *testing.T) {
		paginated, totalPages, page := paginateSouls([]Soul{}, 1, 25)

		assert.Empty(t, paginated)
		assert.Equal(t, 1, totalPages)
		assert.Equal(t, 1, page)
	})
}

func TestBuildTabData(t *testing.T) {
	params := QueryParams{
		Page:            2,
		PageSize:        10,
		SearchQuery:     "aur",
		FilterArchetype: "mentor",
		SortField:       "name",
		SortOrder:       "asc",
	}

	data := buildTabData(testSouls(), 3, &params)

	assert.Equal(t, 2, data.CurrentPage)
	assert.Equal(t, 3, data.TotalPages)
	assert.True(t, data.HasPrevPage)
	assert.True(t, data.HasNextPage)
	assert.Equal(t, 1, data.PrevPage)
	assert.Equal(t, 3, data.NextPage)
	assert.Equal(t, "aur", data.SearchQuery)
	assert.Equal(t, "mentor", data.FilterArchetype)
}
