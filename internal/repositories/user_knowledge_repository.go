package repositories

import (
	"context"
	"database/sql"

	"tecawayBack/internal/models"
)

type UserKnowledgeRepository struct {
	DB *sql.DB
}

// GetAll returns the whole membership table ordered by insertion.
func (r *UserKnowledgeRepository) GetAll(ctx context.Context) ([]models.UserKnowledge, error) {
	return r.list(ctx, `SELECT user_id, knowledge_id FROM user_knowledges ORDER BY id`)
}

func (r *UserKnowledgeRepository) GetByUser(ctx context.Context, userID int) ([]models.UserKnowledge, error) {
	return r.list(ctx, `SELECT user_id, knowledge_id FROM user_knowledges WHERE user_id = ? ORDER BY id`, userID)
}

func (r *UserKnowledgeRepository) list(ctx context.Context, query string, args ...any) ([]models.UserKnowledge, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.UserKnowledge, 0)
	for rows.Next() {
		var uk models.UserKnowledge
		if err := rows.Scan(&uk.UserID, &uk.KnowledgeID); err != nil {
			return nil, err
		}
		out = append(out, uk)
	}
	return out, rows.Err()
}

// ReplaceForUser swaps the user's knowledges for knowledgeIDs in one transaction.
func (r *UserKnowledgeRepository) ReplaceForUser(ctx context.Context, userID int, knowledgeIDs []int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_knowledges WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, kid := range knowledgeIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_knowledges (user_id, knowledge_id) VALUES (?, ?)`, userID, kid); err != nil {
			if isForeignKeyViolation(err) {
				return ErrKnowledgeNotFound
			}
			return err
		}
	}
	return tx.Commit()
}
