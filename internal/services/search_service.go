package services

import (
	"context"
	"fmt"
	"strings"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/metrics"
	"tecawayBack/internal/models"
	"tecawayBack/internal/search"
)

type TechnicianSource interface {
	GetTechnicians(ctx context.Context) ([]models.User, error)
}

type SectionSource interface {
	GetAll(ctx context.Context) ([]models.Section, error)
}

type KnowledgeSource interface {
	GetAll(ctx context.Context) ([]models.Knowledge, error)
}

type MembershipSource interface {
	GetMemberships(ctx context.Context) ([]models.UserKnowledge, error)
}

type LocationProvider interface {
	CurrentLocation(ctx context.Context, userID int) (*geo.Coordinates, error)
}

// SearchService drives technician search sessions: it loads the directory
// into a session store and recomputes the filtered list on every request.
type SearchService struct {
	Sessions    *search.Sessions
	Technicians TechnicianSource
	Sections    SectionSource
	Knowledges  KnowledgeSource
	Memberships MembershipSource
	Locations   LocationProvider
	Logger      Logger
}

// StartSession creates a session and loads technicians and catalogs into it.
func (s *SearchService) StartSession(ctx context.Context) (models.SearchResponse, error) {
	sess := s.Sessions.Create()
	sess.Store.Reset()

	if err := s.load(ctx, sess); err != nil {
		_ = s.Sessions.Delete(sess.ID)
		return models.SearchResponse{}, err
	}

	loggerOrNop(s.Logger).Infof("search session %s started with %d technicians", sess.ID, sess.Store.TotalCount())
	return Response(sess, sess.Store.Snapshot()), nil
}

func (s *SearchService) load(ctx context.Context, sess *search.Session) error {
	techs, err := s.Technicians.GetTechnicians(ctx)
	if err != nil {
		return fmt.Errorf("search load technicians: %w", err)
	}
	sections, err := s.Sections.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("search load sections: %w", err)
	}
	knowledges, err := s.Knowledges.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("search load knowledges: %w", err)
	}
	memberships, err := s.Memberships.GetMemberships(ctx)
	if err != nil {
		return fmt.Errorf("search load user knowledges: %w", err)
	}

	sess.Catalog = models.Catalog{Sections: sections, Knowledges: knowledges}
	sess.Memberships = memberships
	sess.Store.SetAllTechnicians(techs)
	sess.Store.SetLoading(false)
	return nil
}

// ApplyFilters replaces the session's selection with req and recomputes the
// filtered list. actorID is the caller, 0 when anonymous.
func (s *SearchService) ApplyFilters(ctx context.Context, actorID int, sessionID string, req models.SearchRequest) (models.SearchResponse, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return models.SearchResponse{}, err
	}
	if err := validateRequest(req); err != nil {
		return models.SearchResponse{}, err
	}

	location, err := s.resolveLocation(ctx, actorID, req)
	if err != nil {
		return models.SearchResponse{}, err
	}

	sortType := search.ParseSortType(string(req.Sort))
	sel := search.Selection{
		Sections:     pickSections(sess.Catalog.Sections, req.SectionIDs),
		Knowledges:   pickKnowledges(sess.Catalog.Knowledges, req.KnowledgeIDs),
		UserLocation: location,
		SearchRadius: req.RadiusKm,
	}

	sess.Lock()
	sess.SetSortType(sortType)
	filtered := s.compute(sess, sel, strings.TrimSpace(req.Town))
	sess.Store.ApplySelection(sel, filtered)
	st := sess.Store.Snapshot()
	sess.Unlock()

	metrics.FilterRuns.WithLabelValues(string(sortType)).Inc()
	metrics.FilteredTechnicians.Observe(float64(len(filtered)))

	return Response(sess, st), nil
}

func (s *SearchService) resolveLocation(ctx context.Context, actorID int, req models.SearchRequest) (*geo.Coordinates, error) {
	if req.Location != nil {
		if !geo.IsValidCoordinates(req.Location) {
			return nil, models.ErrInvalidLocation
		}
		loc := *req.Location
		return &loc, nil
	}
	if !req.UseMyLocation {
		return nil, nil
	}
	if actorID == 0 || s.Locations == nil {
		return nil, models.ErrForbidden
	}
	loc, err := s.Locations.CurrentLocation(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("current location: %w", err)
	}
	return loc, nil
}

// compute narrows the full list by skills, town and distance, then sorts it.
// The skill filters run against a scratch store holding sel, so the session
// store only changes once the result is ready.
func (s *SearchService) compute(sess *search.Session, sel search.Selection, town string) []models.User {
	candidates := sess.Store.AllTechnicians()

	skillFilter := len(sel.Sections) > 0 || len(sel.Knowledges) > 0
	if skillFilter {
		scratch := search.NewStore()
		scratch.SetAllTechnicians(candidates)
		scratch.ApplySelection(sel, nil)
		filter := search.NewKnowledgeFilter(scratch)

		ids := toSet(filter.FilterTechnicians(sess.Memberships, sess.Catalog.Knowledges))
		if town != "" {
			ids = intersect(ids, toSet(filter.FilterByTown(town, sess.Memberships)))
		}
		candidates = keepIDs(candidates, ids)
	} else if town != "" {
		candidates = keepTown(candidates, town)
	}

	candidates = search.FilterByDistance(candidates, sel.UserLocation, sel.SearchRadius)
	return search.Sort(candidates, sess.SortType(), sel.UserLocation)
}

// ClearFilters drops every selection and shows the whole directory in the session's sort order.
func (s *SearchService) ClearFilters(sessionID string) (models.SearchResponse, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return models.SearchResponse{}, err
	}
	sess.Lock()
	sorted := search.Sort(sess.Store.AllTechnicians(), sess.SortType(), nil)
	sess.Store.ApplySelection(search.Selection{}, sorted)
	st := sess.Store.Snapshot()
	sess.Unlock()

	return Response(sess, st), nil
}

func (s *SearchService) State(sessionID string) (models.SearchResponse, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return models.SearchResponse{}, err
	}
	return Response(sess, sess.Store.Snapshot()), nil
}

func (s *SearchService) Catalog(sessionID string) (models.Catalog, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return models.Catalog{}, err
	}
	return sess.Catalog, nil
}

func (s *SearchService) SortOptions(sessionID string) ([]models.SortOption, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return search.AvailableSortOptions(sess.Store.UserLocation() != nil), nil
}

func (s *SearchService) EndSession(sessionID string) error {
	return s.Sessions.Delete(sessionID)
}

// Session returns the live session, for subscribers such as the WebSocket feed.
func (s *SearchService) Session(sessionID string) (*search.Session, error) {
	return s.Sessions.Get(sessionID)
}

// Response renders a session state for clients.
func Response(sess *search.Session, st search.State) models.SearchResponse {
	return models.SearchResponse{
		SessionID:            sess.ID,
		Loading:              st.Loading,
		Technicians:          search.EnrichWithDistance(st.FilteredTechnicians, st.UserLocation),
		TotalCount:           st.TotalCount(),
		FilteredCount:        st.FilteredCount(),
		SelectedSectionIDs:   st.SelectedSectionIDs(),
		SelectedKnowledgeIDs: st.SelectedKnowledgeIDs(),
		UserLocation:         st.UserLocation,
		SearchRadius:         st.SearchRadius,
		HasActiveFilters:     st.HasActiveFilters(),
		HasLocationFilter:    st.HasLocationFilter(),
		Sort:                 sess.SortType(),
		SortOptions:          search.AvailableSortOptions(st.UserLocation != nil),
	}
}

func pickSections(catalog []models.Section, ids []int) []models.Section {
	byID := make(map[int]models.Section, len(catalog))
	for _, sec := range catalog {
		byID[sec.ID] = sec
	}
	out := make([]models.Section, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		sec, ok := byID[id]
		if _, dup := seen[id]; !ok || dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, sec)
	}
	return out
}

func pickKnowledges(catalog []models.Knowledge, ids []int) []models.Knowledge {
	byID := make(map[int]models.Knowledge, len(catalog))
	for _, k := range catalog {
		byID[k.ID] = k
	}
	out := make([]models.Knowledge, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		k, ok := byID[id]
		if _, dup := seen[id]; !ok || dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, k)
	}
	return out
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersect(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func keepIDs(list []models.User, ids map[int]struct{}) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, u := range list {
		if _, ok := ids[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

func keepTown(list []models.User, town string) []models.User {
	out := make([]models.User, 0)
	for _, u := range list {
		if u.Town != nil && *u.Town == town {
			out = append(out, u)
		}
	}
	return out
}
