package repositories

import (
	"context"
	"database/sql"

	"tecawayBack/internal/models"
)

var (
	ErrKnowledgeNotFound = models.ErrKnowledgeNotFound
)

type KnowledgeRepository struct {
	DB *sql.DB
}

func (r *KnowledgeRepository) CreateKnowledge(ctx context.Context, k models.Knowledge) (models.Knowledge, error) {
	result, err := r.DB.ExecContext(ctx, `INSERT INTO knowledges (name, section_id) VALUES (?, ?)`, k.Name, k.SectionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Knowledge{}, ErrSectionNotFound
		}
		return models.Knowledge{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Knowledge{}, err
	}
	k.ID = int(id)
	return k, nil
}

func (r *KnowledgeRepository) GetAllKnowledges(ctx context.Context) ([]models.Knowledge, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, section_id FROM knowledges ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Knowledge, 0)
	for rows.Next() {
		var k models.Knowledge
		if err := rows.Scan(&k.ID, &k.Name, &k.SectionID); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *KnowledgeRepository) DeleteKnowledge(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_knowledges WHERE knowledge_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM knowledges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(result, ErrKnowledgeNotFound); err != nil {
		return err
	}
	return tx.Commit()
}
