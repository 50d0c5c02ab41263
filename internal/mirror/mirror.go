// Package mirror implements the best-effort append-only CSV mirrors of
// writes already committed to the primary store. Callers treat every error
// as non-fatal: a failed mirror append is logged and never escalated.
package mirror

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/models"
)

// Sink receives audit events after a successful primary commit.
type Sink interface {
	UserCreated(username, createdAt, passwordHash string) error
	LoginEvent(username string) error
	FeedbackSaved(username, feedback, feedbackAt string) error
}

// Config names the mirror files.
type Config struct {
	UsersExportLog string
	FeedbackLog    string
	ActivityLog    string
}

// CSVSink appends audit events to per-event CSV files, writing each file's
// header exactly once on creation.
type CSVSink struct {
	cfg Config
	log zerolog.Logger
}

// NewCSVSink creates a CSV-backed mirror sink
func NewCSVSink(cfg Config, log zerolog.Logger) *CSVSink {
	return &CSVSink{
		cfg: cfg,
		log: log.With().Str("component", "mirror").Logger(),
	}
}

// UserCreated mirrors a successful signup to the users export log
func (s *CSVSink) UserCreated(username, createdAt, passwordHash string) error {
	return s.append(s.cfg.UsersExportLog,
		[]string{"username", "created_at", "password"},
		[]string{username, createdAt, passwordHash})
}

// LoginEvent mirrors a successful credential verification to the activity log
func (s *CSVSink) LoginEvent(username string) error {
	return s.append(s.cfg.ActivityLog,
		[]string{"username", "event", "at"},
		[]string{username, "login", time.Now().Format(models.TimeLayout)})
}

// FeedbackSaved mirrors a stored feedback row to the feedback log
func (s *CSVSink) FeedbackSaved(username, feedback, feedbackAt string) error {
	return s.append(s.cfg.FeedbackLog,
		[]string{"username", "feedback", "feedback_at"},
		[]string{username, feedback, feedbackAt})
}

// append writes one record to path, creating the file with its header first
// when it does not exist yet.
func (s *CSVSink) append(path string, header, record []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
