package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/mirror"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/repository"
	"github.com/data-analyzer-api/internal/validation"
)

// feedbackService is the concrete implementation of FeedbackService
type feedbackService struct {
	repos *repository.Repositories
	sink  mirror.Sink
	log   zerolog.Logger
}

// newFeedbackService creates a new FeedbackService
func newFeedbackService(repos *repository.Repositories, sink mirror.Sink, log zerolog.Logger) *feedbackService {
	return &feedbackService{
		repos: repos,
		sink:  sink,
		log:   log.With().Str("service", "feedback").Logger(),
	}
}

// Save stores one feedback row. The username may be empty for anonymous
// submissions; when it resolves to a user, the row carries that user's id.
// The committed row is mirrored to the feedback log best-effort.
func (s *feedbackService) Save(ctx context.Context, username, text string) (*models.Feedback, error) {
	if err := validation.ValidateFeedback(text); err != nil {
		return nil, err
	}

	fb := &models.Feedback{
		Username:   username,
		UserID:     s.resolveUserID(ctx, username),
		Feedback:   text,
		FeedbackAt: time.Now().Format(models.TimeLayout),
	}
	if err := s.repos.Feedback.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	if err := s.sink.FeedbackSaved(fb.Username, fb.Feedback, fb.FeedbackAt); err != nil {
		s.log.Warn().Err(err).Msg("Feedback mirror write failed")
	}

	s.log.Info().Int64("id", fb.ID).Str("username", username).Msg("Feedback saved")
	return fb, nil
}

// ListRecent returns up to limit rows, most recent first
func (s *feedbackService) ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error) {
	return s.repos.Feedback.ListRecent(ctx, limit)
}

// Delete removes feedback rows by id and reports how many went away
func (s *feedbackService) Delete(ctx context.Context, ids []int64) (int64, error) {
	deleted, err := s.repos.Feedback.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete feedback: %w", err)
	}
	s.log.Info().Int64("deleted", deleted).Msg("Feedback deleted")
	return deleted, nil
}

// ExportCSV writes recent feedback as CSV with a header row
func (s *feedbackService) ExportCSV(ctx context.Context, w io.Writer, limit int) error {
	rows, err := s.ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "username", "user_id", "feedback", "feedback_at"}); err != nil {
		return err
	}
	for _, fb := range rows {
		userID := ""
		if fb.UserID != nil {
			userID = strconv.FormatInt(*fb.UserID, 10)
		}
		record := []string{
			strconv.FormatInt(fb.ID, 10),
			fb.Username,
			userID,
			fb.Feedback,
			fb.FeedbackAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportLegacy performs the one-time migration of feedback rows out of the
// legacy combined users CSV. Non-empty feedback cells are copied into the
// feedback table (deduplicated by exact username+feedback+timestamp match),
// then the file is renamed so the migration does not run again. The whole
// routine is best-effort: the caller logs failures and starts up anyway.
func (s *feedbackService) ImportLegacy(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open legacy file: %w", err)
	}

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy file: %w", err)
	}

	migrated := 0
	if len(records) > 0 {
		header := records[0]
		col := func(name string) int {
			for i, h := range header {
				if h == name {
					return i
				}
			}
			return -1
		}
		fbIdx, unameIdx, atIdx := col("feedback"), col("username"), col("feedback_at")

		if fbIdx >= 0 {
			for _, row := range records[1:] {
				text := cell(row, fbIdx)
				if text == "" {
					continue
				}
				username := cell(row, unameIdx)
				at := cell(row, atIdx)
				if at == "" {
					at = time.Now().Format(models.TimeLayout)
				}

				exists, err := s.repos.Feedback.Exists(ctx, username, text, at)
				if err != nil {
					return migrated, fmt.Errorf("failed to check duplicate: %w", err)
				}
				if exists {
					continue
				}

				fb := &models.Feedback{
					Username:   username,
					UserID:     s.resolveUserID(ctx, username),
					Feedback:   text,
					FeedbackAt: at,
				}
				if err := s.repos.Feedback.Create(ctx, fb); err != nil {
					return migrated, fmt.Errorf("failed to insert legacy feedback: %w", err)
				}
				migrated++
			}
		}
	}

	// archive so the migration never re-runs
	if err := os.Rename(path, path+".migrated"); err != nil {
		return migrated, fmt.Errorf("failed to archive legacy file: %w", err)
	}

	if migrated > 0 {
		s.log.Info().Int("migrated", migrated).Str("path", path).Msg("Legacy feedback migrated")
	}
	return migrated, nil
}

// Count returns the total number of feedback rows
func (s *feedbackService) Count(ctx context.Context) (int, error) {
	return s.repos.Feedback.Count(ctx)
}

// resolveUserID maps a username to its user id when possible; anonymous or
// unknown submitters stay nil. Lookup failures degrade to nil as well.
func (s *feedbackService) resolveUserID(ctx context.Context, username string) *int64 {
	if username == "" {
		return nil
	}
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("User lookup for feedback failed")
		return nil
	}
	if user == nil {
		return nil
	}
	return &user.ID
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
