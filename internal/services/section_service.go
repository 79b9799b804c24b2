package services

import (
	"context"
	"fmt"
	"strings"

	"tecawayBack/internal/models"
)

type SectionRepo interface {
	CreateSection(ctx context.Context, section models.Section) (models.Section, error)
	GetSectionByID(ctx context.Context, id int) (models.Section, error)
	GetAllSections(ctx context.Context) ([]models.Section, error)
	UpdateSection(ctx context.Context, section models.Section) (models.Section, error)
	DeleteSection(ctx context.Context, id int) error
}

type SectionCache interface {
	Sections(ctx context.Context) ([]models.Section, bool, error)
	SetSections(ctx context.Context, v []models.Section) error
	InvalidateSections(ctx context.Context) error
}

type SectionService struct {
	Repo   SectionRepo
	Cache  SectionCache
	Logger Logger
}

func (s *SectionService) GetAll(ctx context.Context) ([]models.Section, error) {
	log := loggerOrNop(s.Logger)
	if s.Cache != nil {
		cached, ok, err := s.Cache.Sections(ctx)
		if err != nil {
			log.Errorf("sections cache: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	sections, err := s.Repo.GetAllSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.SetSections(ctx, sections); err != nil {
			log.Errorf("sections cache: %v", err)
		}
	}
	return sections, nil
}

func (s *SectionService) GetByID(ctx context.Context, id int) (models.Section, error) {
	return s.Repo.GetSectionByID(ctx, id)
}

func (s *SectionService) Create(ctx context.Context, section models.Section) (models.Section, error) {
	section.Name = strings.TrimSpace(section.Name)
	if section.Name == "" {
		return models.Section{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	created, err := s.Repo.CreateSection(ctx, section)
	if err != nil {
		return models.Section{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *SectionService) Update(ctx context.Context, section models.Section) (models.Section, error) {
	section.Name = strings.TrimSpace(section.Name)
	if section.Name == "" {
		return models.Section{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	updated, err := s.Repo.UpdateSection(ctx, section)
	if err != nil {
		return models.Section{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *SectionService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SectionService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateSections(ctx); err != nil {
		loggerOrNop(s.Logger).Errorf("sections cache invalidate: %v", err)
	}
}
