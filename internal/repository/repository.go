package repository

import (
	"context"

	"github.com/data-analyzer-api/internal/database"
	"github.com/data-analyzer-api/internal/models"
)

// UserRepository defines the interface for credential store operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
	Count(ctx context.Context) (int, error)
}

// FeedbackRepository defines the interface for feedback store operations
type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	Exists(ctx context.Context, username, feedback, feedbackAt string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Feedback FeedbackRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Feedback: NewFeedbackRepo(db),
	}
}
