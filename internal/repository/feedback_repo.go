package repository

import (
	"context"
	"strings"

	"github.com/data-analyzer-api/internal/database"
	"github.com/data-analyzer-api/internal/models"
)

// feedbackRepo is the concrete implementation of FeedbackRepository
type feedbackRepo struct {
	db *database.DB
}

// NewFeedbackRepo creates a new feedback repository
func NewFeedbackRepo(db *database.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

// Create inserts a new feedback row and backfills the generated id
func (r *feedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	query := `INSERT INTO feedback (username, user_id, feedback, feedback_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, fb.Username, fb.UserID, fb.Feedback, fb.FeedbackAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fb.ID = id
	return nil
}

// ListRecent returns up to limit feedback rows, most recent first
func (r *feedbackRepo) ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error) {
	query := `SELECT id, username, user_id, feedback, feedback_at FROM feedback ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Username, &fb.UserID, &fb.Feedback, &fb.FeedbackAt); err != nil {
			return nil, err
		}
		out = append(out, &fb)
	}
	return out, rows.Err()
}

// Delete removes feedback rows by id and returns how many were deleted
func (r *feedbackRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM feedback WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Exists checks for an exact username+feedback+timestamp match.
// Used to deduplicate the one-time legacy CSV import.
func (r *feedbackRepo) Exists(ctx context.Context, username, feedback, feedbackAt string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM feedback WHERE username = ? AND feedback = ? AND feedback_at = ?)",
		username, feedback, feedbackAt).Scan(&exists)
	return exists, err
}

// Count returns the total number of feedback rows
func (r *feedbackRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	return count, err
}
