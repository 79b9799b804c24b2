package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
	"tecawayBack/internal/search"
)

type stubTechnicians struct {
	list []models.User
	err  error
}

func (s stubTechnicians) GetTechnicians(context.Context) ([]models.User, error) { return s.list, s.err }

type stubSections struct{ list []models.Section }

func (s stubSections) GetAll(context.Context) ([]models.Section, error) { return s.list, nil }

type stubKnowledges struct{ list []models.Knowledge }

func (s stubKnowledges) GetAll(context.Context) ([]models.Knowledge, error) { return s.list, nil }

type stubMemberships struct{ list []models.UserKnowledge }

func (s stubMemberships) GetMemberships(context.Context) ([]models.UserKnowledge, error) {
	return s.list, nil
}

type stubLocations map[int]*geo.Coordinates

func (s stubLocations) CurrentLocation(_ context.Context, userID int) (*geo.Coordinates, error) {
	return s[userID], nil
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

var (
	madrid    = geo.Coordinates{Latitude: 40.4168, Longitude: -3.7038}
	barcelona = geo.Coordinates{Latitude: 41.3851, Longitude: 2.1734}
)

func technician(id int, name, town string, created string, c *geo.Coordinates, canMove bool) models.User {
	u := models.User{ID: id, Name: name, Town: sptr(town), CanMove: canMove, Roles: []string{models.RoleTechnician}}
	if created != "" {
		u.CreatedAt = day(created)
	}
	if c != nil {
		u.Latitude, u.Longitude = fptr(c.Latitude), fptr(c.Longitude)
	}
	return u
}

func newSearchService(techErr error) *SearchService {
	return &SearchService{
		Sessions: search.NewSessions(),
		Technicians: stubTechnicians{err: techErr, list: []models.User{
			technician(1, "Zoe", "Madrid", "2025-01-10", &madrid, false),
			technician(2, "Alice", "Barcelona", "2025-01-15", &barcelona, true),
			technician(3, "Bob", "Madrid", "", nil, false),
			technician(4, "Carla", "Barcelona", "2024-12-01", &barcelona, false),
		}},
		Sections: stubSections{list: []models.Section{{ID: 1, Name: "Frontend"}, {ID: 2, Name: "Backend"}}},
		Knowledges: stubKnowledges{list: []models.Knowledge{
			{ID: 10, Name: "Angular", SectionID: 1},
			{ID: 11, Name: "React", SectionID: 1},
			{ID: 20, Name: "Go", SectionID: 2},
		}},
		Memberships: stubMemberships{list: []models.UserKnowledge{
			{UserID: 1, KnowledgeID: 10},
			{UserID: 2, KnowledgeID: 10},
			{UserID: 2, KnowledgeID: 20},
			{UserID: 3, KnowledgeID: 11},
			{UserID: 4, KnowledgeID: 10},
		}},
		Locations: stubLocations{7: &madrid},
	}
}

func technicianNames(list []models.TechnicianWithDistance) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Name)
	}
	return out
}

func TestStartSession(t *testing.T) {
	svc := newSearchService(nil)

	resp, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.False(t, resp.Loading)
	assert.Equal(t, 4, resp.TotalCount)
	assert.Equal(t, 4, resp.FilteredCount)
	assert.Equal(t, []string{"Alice", "Zoe", "Carla", "Bob"}, technicianNames(resp.Technicians))
	assert.False(t, resp.HasActiveFilters)
	assert.Equal(t, models.SortRecent, resp.Sort)
	assert.Len(t, resp.SortOptions, 2)
	assert.Equal(t, 1, svc.Sessions.Count())
}

func TestStartSessionLoadErrorDropsSession(t *testing.T) {
	boom := errors.New("db down")
	svc := newSearchService(boom)

	_, err := svc.StartSession(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, svc.Sessions.Count())
}

func TestApplyFiltersSkillsDistanceAndSort(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	resp, err := svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{
		SectionIDs:   []int{1},
		KnowledgeIDs: []int{10, 999},
		Location:     &madrid,
		RadiusKm:     fptr(20),
		Sort:         "distance",
	})
	require.NoError(t, err)

	// Carla is in Barcelona and cannot move; Alice can.
	assert.Equal(t, []string{"Zoe", "Alice"}, technicianNames(resp.Technicians))
	assert.Equal(t, []int{1}, resp.SelectedSectionIDs)
	assert.Equal(t, []int{10}, resp.SelectedKnowledgeIDs)
	assert.True(t, resp.HasActiveFilters)
	assert.True(t, resp.HasLocationFilter)
	assert.Equal(t, models.SortDistance, resp.Sort)
	assert.Len(t, resp.SortOptions, 3)

	require.NotNil(t, resp.Technicians[0].Distance)
	assert.Equal(t, "0 m", resp.Technicians[0].DistanceLabel)
	require.NotNil(t, resp.Technicians[1].Distance)
	assert.InDelta(t, 504, *resp.Technicians[1].Distance, 2)
}

func TestApplyFiltersSectionOnlyYieldsNothing(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	resp, err := svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{SectionIDs: []int{1}})
	require.NoError(t, err)

	assert.Empty(t, resp.Technicians)
	assert.Equal(t, 4, resp.TotalCount)
}

func TestApplyFiltersTown(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	resp, err := svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{Town: "Barcelona", Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Carla"}, technicianNames(resp.Technicians))

	resp, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{
		SectionIDs: []int{1}, KnowledgeIDs: []int{10}, Town: "Madrid",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zoe"}, technicianNames(resp.Technicians))
}

func TestApplyFiltersUseMyLocation(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	resp, err := svc.ApplyFilters(ctx, 7, start.SessionID, models.SearchRequest{UseMyLocation: true, RadiusKm: fptr(10)})
	require.NoError(t, err)
	require.NotNil(t, resp.UserLocation)
	assert.Equal(t, madrid, *resp.UserLocation)
	assert.Equal(t, []string{"Alice", "Zoe"}, technicianNames(resp.Technicians))

	_, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{UseMyLocation: true})
	assert.ErrorIs(t, err, models.ErrForbidden)

	resp, err = svc.ApplyFilters(ctx, 8, start.SessionID, models.SearchRequest{UseMyLocation: true, RadiusKm: fptr(10)})
	require.NoError(t, err)
	assert.Nil(t, resp.UserLocation)
	assert.False(t, resp.HasLocationFilter)
	assert.Equal(t, 4, resp.FilteredCount)
}

func TestApplyFiltersRejectsBadInput(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{Location: &geo.Coordinates{Latitude: 100}})
	assert.ErrorIs(t, err, models.ErrInvalidLocation)

	_, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{RadiusKm: fptr(-5)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.ApplyFilters(ctx, 0, "missing", models.SearchRequest{})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestClearFiltersKeepsSortType(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{
		SectionIDs: []int{2}, KnowledgeIDs: []int{20}, Location: &madrid, RadiusKm: fptr(5), Sort: "name",
	})
	require.NoError(t, err)

	resp, err := svc.ClearFilters(start.SessionID)
	require.NoError(t, err)

	assert.False(t, resp.HasActiveFilters)
	assert.Nil(t, resp.UserLocation)
	assert.Empty(t, resp.SelectedSectionIDs)
	assert.Equal(t, []string{"Alice", "Bob", "Carla", "Zoe"}, technicianNames(resp.Technicians))

	opts, err := svc.SortOptions(start.SessionID)
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	a, err := svc.StartSession(ctx)
	require.NoError(t, err)
	b, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.ApplyFilters(ctx, 0, a.SessionID, models.SearchRequest{Town: "Madrid"})
	require.NoError(t, err)

	state, err := svc.State(b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 4, state.FilteredCount)
}

func TestEndSession(t *testing.T) {
	svc := newSearchService(nil)
	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(start.SessionID))

	_, err = svc.State(start.SessionID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = svc.Catalog(start.SessionID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestCatalog(t *testing.T) {
	svc := newSearchService(nil)
	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	cat, err := svc.Catalog(start.SessionID)
	require.NoError(t, err)
	assert.Len(t, cat.Sections, 2)
	assert.Len(t, cat.Knowledges, 3)
}

func TestApplyFiltersPublishesOneConsistentState(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)
	sess, err := svc.Session(start.SessionID)
	require.NoError(t, err)

	var seen []search.State
	defer sess.Store.Subscribe(func(st search.State) { seen = append(seen, st) })()

	_, err = svc.ApplyFilters(ctx, 0, start.SessionID, models.SearchRequest{Location: &madrid, RadiusKm: fptr(20)})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	st := seen[0]
	assert.True(t, st.HasLocationFilter())
	assert.Equal(t, 4, st.TotalCount())
	assert.ElementsMatch(t, []int{1, 2}, userIDs(st.FilteredTechnicians))

	_, err = svc.ClearFilters(start.SessionID)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.False(t, seen[1].HasActiveFilters())
	assert.Equal(t, 4, seen[1].FilteredCount())
}

func TestConcurrentFiltersKeepSelectionAndResultTogether(t *testing.T) {
	svc := newSearchService(nil)
	ctx := context.Background()
	start, err := svc.StartSession(ctx)
	require.NoError(t, err)
	sess, err := svc.Session(start.SessionID)
	require.NoError(t, err)

	// Knowledge 10 is held by Zoe, Alice and Carla; no filter shows all four.
	consistent := func(st search.State) bool {
		if len(st.SelectedKnowledges) == 1 && st.SelectedKnowledges[0].ID == 10 {
			return st.FilteredCount() == 3
		}
		return len(st.SelectedKnowledges) == 0 && st.FilteredCount() == 4
	}

	var mu sync.Mutex
	bad := 0
	defer sess.Store.Subscribe(func(st search.State) {
		if !consistent(st) {
			mu.Lock()
			bad++
			mu.Unlock()
		}
	})()

	skills := models.SearchRequest{SectionIDs: []int{1}, KnowledgeIDs: []int{10}}
	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for _, req := range []models.SearchRequest{skills, {}} {
			wg.Add(1)
			go func(req models.SearchRequest) {
				defer wg.Done()
				_, err := svc.ApplyFilters(ctx, 0, start.SessionID, req)
				assert.NoError(t, err)
			}(req)
		}
		wg.Wait()
		require.True(t, consistent(sess.Store.Snapshot()), "round %d", round)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, bad)
}

func userIDs(list []models.User) []int {
	out := make([]int, 0, len(list))
	for _, u := range list {
		out = append(out, u.ID)
	}
	return out
}
