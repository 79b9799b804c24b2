package models

import "tecawayBack/internal/geo"

type SortType string

const (
	SortRecent   SortType = "recent"
	SortName     SortType = "name"
	SortDistance SortType = "distance"
)

type SortOption struct {
	Value SortType `json:"value"`
	Label string   `json:"label"`
}

// SearchRequest is the full filter selection sent by a client. Every call replaces the previous one.
type SearchRequest struct {
	SectionIDs    []int            `json:"section_ids"`
	KnowledgeIDs  []int            `json:"knowledge_ids"`
	Location      *geo.Coordinates `json:"location"`
	UseMyLocation bool             `json:"use_my_location"`
	RadiusKm      *float64         `json:"radius_km" validate:"omitempty,gt=0,lte=20000"`
	Town          string           `json:"town"`
	Sort          SortType         `json:"sort"`
}

// SearchResponse is the view of a search session returned to clients.
type SearchResponse struct {
	SessionID            string                   `json:"session_id"`
	Loading              bool                     `json:"loading"`
	Technicians          []TechnicianWithDistance `json:"technicians"`
	TotalCount           int                      `json:"total_count"`
	FilteredCount        int                      `json:"filtered_count"`
	SelectedSectionIDs   []int                    `json:"selected_section_ids"`
	SelectedKnowledgeIDs []int                    `json:"selected_knowledge_ids"`
	UserLocation         *geo.Coordinates         `json:"user_location,omitempty"`
	SearchRadius         *float64                 `json:"search_radius,omitempty"`
	HasActiveFilters     bool                     `json:"has_active_filters"`
	HasLocationFilter    bool                     `json:"has_location_filter"`
	Sort                 SortType                 `json:"sort"`
	SortOptions          []SortOption             `json:"sort_options"`
}

// Catalog is the section/knowledge data a search session was loaded with.
type Catalog struct {
	Sections   []Section   `json:"sections"`
	Knowledges []Knowledge `json:"knowledges"`
}
