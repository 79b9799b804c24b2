package repositories

import (
	"context"
	"database/sql"
	"errors"

	"tecawayBack/internal/models"
)

var (
	ErrSectionNotFound = models.ErrSectionNotFound
)

type SectionRepository struct {
	DB *sql.DB
}

func (r *SectionRepository) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	result, err := r.DB.ExecContext(ctx, `INSERT INTO sections (name) VALUES (?)`, section.Name)
	if err != nil {
		return models.Section{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Section{}, err
	}
	section.ID = int(id)
	return section, nil
}

func (r *SectionRepository) GetSectionByID(ctx context.Context, id int) (models.Section, error) {
	var s models.Section
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM sections WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Section{}, ErrSectionNotFound
	}
	return s, err
}

func (r *SectionRepository) GetAllSections(ctx context.Context) ([]models.Section, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM sections ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]models.Section, 0)
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *SectionRepository) UpdateSection(ctx context.Context, section models.Section) (models.Section, error) {
	if _, err := r.GetSectionByID(ctx, section.ID); err != nil {
		return models.Section{}, err
	}
	if _, err := r.DB.ExecContext(ctx, `UPDATE sections SET name = ? WHERE id = ?`, section.Name, section.ID); err != nil {
		return models.Section{}, err
	}
	return section, nil
}

// DeleteSection removes the section together with its knowledges and their memberships.
func (r *SectionRepository) DeleteSection(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE uk FROM user_knowledges uk
		JOIN knowledges k ON k.id = uk.knowledge_id
		WHERE k.section_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledges WHERE section_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(result, ErrSectionNotFound); err != nil {
		return err
	}
	return tx.Commit()
}
