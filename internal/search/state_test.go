package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

func TestStoreSetAllTechniciansSortsAndSeedsFiltered(t *testing.T) {
	s := NewStore()
	zoe := tech(1, "Zoe", created("2025-01-10"))
	alice := tech(2, "Alice", created("2025-01-15"))
	bob := tech(3, "Bob")

	s.SetAllTechnicians([]models.User{zoe, alice, bob})

	assert.Equal(t, []string{"Alice", "Zoe", "Bob"}, names(s.AllTechnicians()))
	assert.Equal(t, []string{"Alice", "Zoe", "Bob"}, names(s.FilteredTechnicians()))
	assert.Equal(t, 3, s.TotalCount())
	assert.Equal(t, 3, s.FilteredCount())
}

func TestStoreSetAllTechniciansKeepsNonEmptyFiltered(t *testing.T) {
	s := NewStore()
	s.SetFilteredTechnicians([]models.User{tech(9, "Kept")})

	s.SetAllTechnicians([]models.User{tech(1, "A"), tech(2, "B")})

	assert.Equal(t, []string{"Kept"}, names(s.FilteredTechnicians()))
	assert.Equal(t, 2, s.TotalCount())
}

func TestStoreSetFilteredTechniciansIsVerbatim(t *testing.T) {
	s := NewStore()
	list := []models.User{tech(1, "Old", created("2020-01-01")), tech(2, "New", created("2025-01-01"))}

	s.SetFilteredTechnicians(list)

	assert.Equal(t, []string{"Old", "New"}, names(s.FilteredTechnicians()))
}

func TestStoreDerivedFlags(t *testing.T) {
	s := NewStore()
	assert.False(t, s.HasActiveFilters())
	assert.False(t, s.HasLocationFilter())

	s.SetUserLocation(&geo.Coordinates{Latitude: 40, Longitude: -3})
	assert.False(t, s.HasLocationFilter(), "location without radius")
	assert.False(t, s.HasActiveFilters())

	s.SetSearchRadius(ptr(20.0))
	assert.True(t, s.HasLocationFilter())
	assert.True(t, s.HasActiveFilters())

	s.SetUserLocation(nil)
	assert.False(t, s.HasLocationFilter(), "radius without location")

	s.SetSelectedSections([]models.Section{{ID: 4, Name: "Frontend"}})
	assert.True(t, s.HasActiveFilters())
	assert.Equal(t, []int{4}, s.SelectedSectionIDs())

	s.SetSelectedSections(nil)
	s.SetSelectedKnowledges([]models.Knowledge{{ID: 7, SectionID: 4}, {ID: 8, SectionID: 4}})
	assert.True(t, s.HasActiveFilters())
	assert.Equal(t, []int{7, 8}, s.SelectedKnowledgeIDs())
}

func TestStoreClearFilters(t *testing.T) {
	s := NewStore()
	s.SetAllTechnicians([]models.User{tech(1, "A"), tech(2, "B")})
	s.SetFilteredTechnicians([]models.User{tech(2, "B")})
	s.SetSelectedSections([]models.Section{{ID: 1}})
	s.SetSelectedKnowledges([]models.Knowledge{{ID: 1, SectionID: 1}})
	s.SetUserLocation(&geo.Coordinates{Latitude: 1, Longitude: 1})
	s.SetSearchRadius(ptr(5.0))

	s.ClearFilters()

	st := s.Snapshot()
	assert.Empty(t, st.SelectedSections)
	assert.Empty(t, st.SelectedKnowledges)
	assert.Nil(t, st.UserLocation)
	assert.Nil(t, st.SearchRadius)
	assert.Equal(t, names(st.AllTechnicians), names(st.FilteredTechnicians))
	assert.False(t, st.HasActiveFilters())
}

func TestStoreResetKeepsLocationAndRadius(t *testing.T) {
	s := NewStore()
	s.SetAllTechnicians([]models.User{tech(1, "A")})
	s.SetSelectedSections([]models.Section{{ID: 1}})
	s.SetUserLocation(&geo.Coordinates{Latitude: 1, Longitude: 1})
	s.SetSearchRadius(ptr(5.0))

	s.Reset()

	st := s.Snapshot()
	assert.True(t, st.Loading)
	assert.Empty(t, st.AllTechnicians)
	assert.Empty(t, st.FilteredTechnicians)
	assert.Empty(t, st.SelectedSections)
	require.NotNil(t, st.UserLocation)
	require.NotNil(t, st.SearchRadius)
	assert.Equal(t, 5.0, *st.SearchRadius)
}

func TestStoreReadsAreCopies(t *testing.T) {
	s := NewStore()
	s.SetAllTechnicians([]models.User{tech(1, "A")})
	loc := &geo.Coordinates{Latitude: 1, Longitude: 1}
	s.SetUserLocation(loc)

	got := s.AllTechnicians()
	got[0].Name = "mutated"
	loc.Latitude = 50
	s.UserLocation().Latitude = 60

	assert.Equal(t, "A", s.AllTechnicians()[0].Name)
	assert.Equal(t, 1.0, s.UserLocation().Latitude)
}

func TestStoreReadsCopyUserFields(t *testing.T) {
	town := "Madrid"
	src := tech(1, "A", at(40.4, -3.7))
	src.Town = &town
	s := NewStore()
	s.SetAllTechnicians([]models.User{src})

	town = "caller changed it"
	*src.Latitude = 0

	got := s.AllTechnicians()
	*got[0].Town = "x"
	*got[0].Latitude = 1
	got[0].Roles[0] = "admin"
	filtered := s.FilteredTechnicians()
	*filtered[0].Longitude = 2

	again := s.Snapshot()
	require.Len(t, again.AllTechnicians, 1)
	u := again.AllTechnicians[0]
	assert.Equal(t, "Madrid", *u.Town)
	assert.Equal(t, 40.4, *u.Latitude)
	assert.Equal(t, []string{models.RoleTechnician}, u.Roles)
	assert.Equal(t, -3.7, *again.FilteredTechnicians[0].Longitude)
}

func TestStoreApplySelectionNotifiesOnce(t *testing.T) {
	s := NewStore()
	s.SetAllTechnicians([]models.User{tech(1, "A"), tech(2, "B")})

	var seen []State
	defer s.Subscribe(func(st State) { seen = append(seen, st) })()

	loc := &geo.Coordinates{Latitude: 40.4, Longitude: -3.7}
	s.ApplySelection(Selection{
		Sections:     []models.Section{{ID: 1, Name: "Frontend"}},
		Knowledges:   []models.Knowledge{{ID: 10, Name: "Angular", SectionID: 1}},
		UserLocation: loc,
		SearchRadius: ptr(20.0),
	}, []models.User{tech(2, "B")})

	require.Len(t, seen, 1)
	st := seen[0]
	assert.Equal(t, []int{1}, st.SelectedSectionIDs())
	assert.Equal(t, []int{10}, st.SelectedKnowledgeIDs())
	assert.True(t, st.HasLocationFilter())
	assert.Equal(t, []string{"B"}, names(st.FilteredTechnicians))
	assert.Equal(t, 2, st.TotalCount())

	s.ApplySelection(Selection{}, s.AllTechnicians())
	require.Len(t, seen, 2)
	assert.False(t, seen[1].HasActiveFilters())
	assert.NotNil(t, seen[1].SelectedSections)
	assert.Equal(t, 2, seen[1].FilteredCount())
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()
	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	s.SetLoading(true)
	s.SetAllTechnicians([]models.User{tech(1, "A")})
	unsubscribe()
	s.SetLoading(false)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Equal(t, 1, seen[1].TotalCount())
}

func TestStoreSubscriberMayReadStore(t *testing.T) {
	s := NewStore()
	var count int
	s.Subscribe(func(State) { count = s.TotalCount() })

	s.SetAllTechnicians([]models.User{tech(1, "A"), tech(2, "B")})

	assert.Equal(t, 2, count)
}
