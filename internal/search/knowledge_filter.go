package search

import (
	"tecawayBack/internal/models"
)

// KnowledgeFilter narrows technicians by the sections and knowledges selected
// in a Store. The membership table and the knowledge catalog are passed on
// every call so a filter never works on a stale catalog.
type KnowledgeFilter struct {
	store *Store
}

func NewKnowledgeFilter(store *Store) *KnowledgeFilter {
	return &KnowledgeFilter{store: store}
}

// knowledgesByUser groups membership rows per technician, keeping the order in
// which technicians first appear.
func knowledgesByUser(memberships []models.UserKnowledge) ([]int, map[int]map[int]struct{}) {
	order := make([]int, 0)
	held := make(map[int]map[int]struct{})
	for _, m := range memberships {
		set, ok := held[m.UserID]
		if !ok {
			set = make(map[int]struct{})
			held[m.UserID] = set
			order = append(order, m.UserID)
		}
		set[m.KnowledgeID] = struct{}{}
	}
	return order, held
}

// FilteredBySections returns the technicians that, for every selected section,
// hold at least one selected knowledge of that section.
func (f *KnowledgeFilter) FilteredBySections(memberships []models.UserKnowledge) []int {
	st := f.store.Snapshot()

	selectedSectionOf := make(map[int]int, len(st.SelectedKnowledges))
	for _, k := range st.SelectedKnowledges {
		selectedSectionOf[k.ID] = k.SectionID
	}

	order, held := knowledgesByUser(memberships)
	ids := make([]int, 0, len(order))
	for _, userID := range order {
		if coversSections(held[userID], st.SelectedSections, selectedSectionOf) {
			ids = append(ids, userID)
		}
	}
	return ids
}

func coversSections(held map[int]struct{}, sections []models.Section, selectedSectionOf map[int]int) bool {
	for _, sec := range sections {
		covered := false
		for kid := range held {
			if sid, ok := selectedSectionOf[kid]; ok && sid == sec.ID {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// FilterByKnowledges refines candidateIDs. With no knowledge selected a
// technician needs any knowledge of any selected section; otherwise they must
// hold every selected knowledge.
func (f *KnowledgeFilter) FilterByKnowledges(candidateIDs []int, memberships []models.UserKnowledge, catalog []models.Knowledge) []int {
	st := f.store.Snapshot()
	_, held := knowledgesByUser(memberships)

	var match func(map[int]struct{}) bool
	if len(st.SelectedKnowledges) == 0 {
		sectionOf := make(map[int]int, len(catalog))
		for _, k := range catalog {
			sectionOf[k.ID] = k.SectionID
		}
		selectedSections := make(map[int]struct{}, len(st.SelectedSections))
		for _, sec := range st.SelectedSections {
			selectedSections[sec.ID] = struct{}{}
		}
		match = func(have map[int]struct{}) bool {
			for kid := range have {
				sid, ok := sectionOf[kid]
				if !ok {
					continue
				}
				if _, ok := selectedSections[sid]; ok {
					return true
				}
			}
			return false
		}
	} else {
		match = func(have map[int]struct{}) bool {
			for _, k := range st.SelectedKnowledges {
				if _, ok := have[k.ID]; !ok {
					return false
				}
			}
			return true
		}
	}

	seen := make(map[int]struct{}, len(candidateIDs))
	out := make([]int, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if match(held[id]) {
			out = append(out, id)
		}
	}
	return out
}

// FilterTechnicians runs both stages and returns the matching technician IDs.
func (f *KnowledgeFilter) FilterTechnicians(memberships []models.UserKnowledge, catalog []models.Knowledge) []int {
	return f.FilterByKnowledges(f.FilteredBySections(memberships), memberships, catalog)
}

// FilterByTown keeps the section-filtered technicians whose town is exactly town.
func (f *KnowledgeFilter) FilterByTown(town string, memberships []models.UserKnowledge) []int {
	towns := make(map[int]string)
	for _, t := range f.store.AllTechnicians() {
		if t.Town != nil {
			towns[t.ID] = *t.Town
		}
	}

	out := make([]int, 0)
	for _, id := range f.FilteredBySections(memberships) {
		if tt, ok := towns[id]; ok && tt == town {
			out = append(out, id)
		}
	}
	return out
}
