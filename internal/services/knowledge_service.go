package services

import (
	"context"
	"fmt"
	"strings"

	"tecawayBack/internal/models"
)

type KnowledgeRepo interface {
	CreateKnowledge(ctx context.Context, k models.Knowledge) (models.Knowledge, error)
	GetAllKnowledges(ctx context.Context) ([]models.Knowledge, error)
	DeleteKnowledge(ctx context.Context, id int) error
}

type MembershipRepo interface {
	GetAll(ctx context.Context) ([]models.UserKnowledge, error)
	GetByUser(ctx context.Context, userID int) ([]models.UserKnowledge, error)
	ReplaceForUser(ctx context.Context, userID int, knowledgeIDs []int) error
}

type KnowledgeCache interface {
	Knowledges(ctx context.Context) ([]models.Knowledge, bool, error)
	SetKnowledges(ctx context.Context, v []models.Knowledge) error
	InvalidateKnowledges(ctx context.Context) error
	Memberships(ctx context.Context) ([]models.UserKnowledge, bool, error)
	SetMemberships(ctx context.Context, v []models.UserKnowledge) error
	InvalidateMemberships(ctx context.Context) error
}

// KnowledgeService serves the knowledge catalog and the technician membership table.
type KnowledgeService struct {
	Repo        KnowledgeRepo
	Memberships MembershipRepo
	Cache       KnowledgeCache
	Logger      Logger
}

func (s *KnowledgeService) GetAll(ctx context.Context) ([]models.Knowledge, error) {
	log := loggerOrNop(s.Logger)
	if s.Cache != nil {
		cached, ok, err := s.Cache.Knowledges(ctx)
		if err != nil {
			log.Errorf("knowledges cache: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	list, err := s.Repo.GetAllKnowledges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledges: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.SetKnowledges(ctx, list); err != nil {
			log.Errorf("knowledges cache: %v", err)
		}
	}
	return list, nil
}

func (s *KnowledgeService) GetBySection(ctx context.Context, sectionID int) ([]models.Knowledge, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Knowledge, 0)
	for _, k := range all {
		if k.SectionID == sectionID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *KnowledgeService) Create(ctx context.Context, k models.Knowledge) (models.Knowledge, error) {
	k.Name = strings.TrimSpace(k.Name)
	if k.Name == "" || k.SectionID <= 0 {
		return models.Knowledge{}, fmt.Errorf("%w: name and section_id are required", models.ErrInvalidInput)
	}
	created, err := s.Repo.CreateKnowledge(ctx, k)
	if err != nil {
		return models.Knowledge{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *KnowledgeService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.DeleteKnowledge(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// GetMemberships returns the whole user/knowledge table.
func (s *KnowledgeService) GetMemberships(ctx context.Context) ([]models.UserKnowledge, error) {
	log := loggerOrNop(s.Logger)
	if s.Cache != nil {
		cached, ok, err := s.Cache.Memberships(ctx)
		if err != nil {
			log.Errorf("memberships cache: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	list, err := s.Memberships.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user knowledges: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.SetMemberships(ctx, list); err != nil {
			log.Errorf("memberships cache: %v", err)
		}
	}
	return list, nil
}

func (s *KnowledgeService) GetUserKnowledges(ctx context.Context, userID int) ([]models.UserKnowledge, error) {
	return s.Memberships.GetByUser(ctx, userID)
}

// SetUserKnowledges replaces the technician's knowledges. Duplicates are dropped.
func (s *KnowledgeService) SetUserKnowledges(ctx context.Context, actor models.Actor, userID int, knowledgeIDs []int) error {
	if !actor.CanEdit(userID) {
		return models.ErrForbidden
	}
	seen := make(map[int]struct{}, len(knowledgeIDs))
	ids := make([]int, 0, len(knowledgeIDs))
	for _, id := range knowledgeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if err := s.Memberships.ReplaceForUser(ctx, userID, ids); err != nil {
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.InvalidateMemberships(ctx); err != nil {
			loggerOrNop(s.Logger).Errorf("memberships cache invalidate: %v", err)
		}
	}
	return nil
}

func (s *KnowledgeService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateKnowledges(ctx); err != nil {
		loggerOrNop(s.Logger).Errorf("knowledges cache invalidate: %v", err)
	}
}
