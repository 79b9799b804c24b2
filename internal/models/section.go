package models

// Section is a skill category.
type Section struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Knowledge is a specific skill. It belongs to exactly one section.
type Knowledge struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SectionID int    `json:"section_id"`
}

// UserKnowledge links a technician to a knowledge.
type UserKnowledge struct {
	UserID      int `json:"user_id"`
	KnowledgeID int `json:"knowledge_id"`
}

type SetKnowledgesRequest struct {
	KnowledgeIDs []int `json:"knowledge_ids"`
}
