package search

import (
	"sync"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

// State is an immutable snapshot of a Store.
type State struct {
	AllTechnicians      []models.User
	FilteredTechnicians []models.User
	SelectedSections    []models.Section
	SelectedKnowledges  []models.Knowledge
	UserLocation        *geo.Coordinates
	SearchRadius        *float64
	Loading             bool
}

func (s State) TotalCount() int    { return len(s.AllTechnicians) }
func (s State) FilteredCount() int { return len(s.FilteredTechnicians) }

func (s State) SelectedSectionIDs() []int {
	ids := make([]int, 0, len(s.SelectedSections))
	for _, sec := range s.SelectedSections {
		ids = append(ids, sec.ID)
	}
	return ids
}

func (s State) SelectedKnowledgeIDs() []int {
	ids := make([]int, 0, len(s.SelectedKnowledges))
	for _, k := range s.SelectedKnowledges {
		ids = append(ids, k.ID)
	}
	return ids
}

// HasLocationFilter is true only when both a location and a radius are set.
func (s State) HasLocationFilter() bool {
	return s.UserLocation != nil && s.SearchRadius != nil
}

func (s State) HasActiveFilters() bool {
	return len(s.SelectedSections) > 0 || len(s.SelectedKnowledges) > 0 || s.HasLocationFilter()
}

func (s State) clone() State {
	out := State{
		AllTechnicians:      cloneUsers(s.AllTechnicians),
		FilteredTechnicians: cloneUsers(s.FilteredTechnicians),
		SelectedSections:    cloneSlice(s.SelectedSections),
		SelectedKnowledges:  cloneSlice(s.SelectedKnowledges),
		Loading:             s.Loading,
	}
	out.UserLocation = clonePtr(s.UserLocation)
	out.SearchRadius = clonePtr(s.SearchRadius)
	return out
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneUsers copies the users together with their pointer fields and roles.
func cloneUsers(in []models.User) []models.User {
	out := make([]models.User, len(in))
	for i, u := range in {
		u.Title = clonePtr(u.Title)
		u.Description = clonePtr(u.Description)
		u.Town = clonePtr(u.Town)
		u.Country = clonePtr(u.Country)
		u.Photo = clonePtr(u.Photo)
		u.Latitude = clonePtr(u.Latitude)
		u.Longitude = clonePtr(u.Longitude)
		u.CreatedAt = clonePtr(u.CreatedAt)
		u.UpdatedAt = clonePtr(u.UpdatedAt)
		if u.Roles != nil {
			u.Roles = cloneSlice(u.Roles)
		}
		out[i] = u
	}
	return out
}

// Store is the single source of truth of one search session. Readers get copies;
// the setters are the only way to change it and every setter replaces the
// field wholesale.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

func NewStore() *Store {
	return &Store{
		state: State{}.clone(),
		subs:  make(map[int]func(State)),
	}
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()

	s.subMu.Lock()
	listeners := make([]func(State), 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) read() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State { return s.read() }

// SetAllTechnicians stores the list newest first. The filtered list is seeded
// with it only while it is still empty.
func (s *Store) SetAllTechnicians(list []models.User) {
	sorted := cloneUsers(sortRecent(list))
	s.mutate(func(st *State) {
		st.AllTechnicians = sorted
		if len(st.FilteredTechnicians) == 0 {
			st.FilteredTechnicians = cloneUsers(sorted)
		}
	})
}

func (s *Store) SetFilteredTechnicians(list []models.User) {
	cp := cloneUsers(list)
	s.mutate(func(st *State) { st.FilteredTechnicians = cp })
}

func (s *Store) SetSelectedSections(list []models.Section) {
	cp := cloneSlice(list)
	s.mutate(func(st *State) { st.SelectedSections = cp })
}

func (s *Store) SetSelectedKnowledges(list []models.Knowledge) {
	cp := cloneSlice(list)
	s.mutate(func(st *State) { st.SelectedKnowledges = cp })
}

func (s *Store) SetUserLocation(loc *geo.Coordinates) {
	cp := clonePtr(loc)
	s.mutate(func(st *State) { st.UserLocation = cp })
}

func (s *Store) SetSearchRadius(km *float64) {
	cp := clonePtr(km)
	s.mutate(func(st *State) { st.SearchRadius = cp })
}

func (s *Store) SetLoading(loading bool) {
	s.mutate(func(st *State) { st.Loading = loading })
}

// Selection is everything a filter request chooses.
type Selection struct {
	Sections     []models.Section
	Knowledges   []models.Knowledge
	UserLocation *geo.Coordinates
	SearchRadius *float64
}

// ApplySelection replaces the selection and the filtered list in a single
// mutation, so subscribers never see one without the other.
func (s *Store) ApplySelection(sel Selection, filtered []models.User) {
	sections := cloneSlice(sel.Sections)
	knowledges := cloneSlice(sel.Knowledges)
	loc := clonePtr(sel.UserLocation)
	radius := clonePtr(sel.SearchRadius)
	list := cloneUsers(filtered)
	s.mutate(func(st *State) {
		st.SelectedSections = sections
		st.SelectedKnowledges = knowledges
		st.UserLocation = loc
		st.SearchRadius = radius
		st.FilteredTechnicians = list
	})
}

// ClearFilters lifts the skill and the distance constraints together.
func (s *Store) ClearFilters() {
	s.mutate(func(st *State) {
		st.SelectedSections = []models.Section{}
		st.SelectedKnowledges = []models.Knowledge{}
		st.UserLocation = nil
		st.SearchRadius = nil
		st.FilteredTechnicians = cloneUsers(st.AllTechnicians)
	})
}

// Reset empties technicians and selections and marks the store as loading.
// Location and radius are kept.
func (s *Store) Reset() {
	s.mutate(func(st *State) {
		st.AllTechnicians = []models.User{}
		st.FilteredTechnicians = []models.User{}
		st.SelectedSections = []models.Section{}
		st.SelectedKnowledges = []models.Knowledge{}
		st.Loading = true
	})
}

func (s *Store) AllTechnicians() []models.User      { return s.read().AllTechnicians }
func (s *Store) FilteredTechnicians() []models.User { return s.read().FilteredTechnicians }
func (s *Store) SelectedSections() []models.Section { return s.read().SelectedSections }
func (s *Store) SelectedKnowledges() []models.Knowledge {
	return s.read().SelectedKnowledges
}
func (s *Store) UserLocation() *geo.Coordinates { return s.read().UserLocation }
func (s *Store) SearchRadius() *float64         { return s.read().SearchRadius }
func (s *Store) Loading() bool                  { return s.read().Loading }

func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TotalCount()
}

func (s *Store) FilteredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FilteredCount()
}

func (s *Store) SelectedSectionIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedSectionIDs()
}

func (s *Store) SelectedKnowledgeIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedKnowledgeIDs()
}

func (s *Store) HasActiveFilters() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasActiveFilters()
}

func (s *Store) HasLocationFilter() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasLocationFilter()
}
