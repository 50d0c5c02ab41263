package mirror_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/mirror"
)

func setupSink(t *testing.T) (*mirror.CSVSink, mirror.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := mirror.Config{
		UsersExportLog: filepath.Join(dir, "users_export.csv"),
		FeedbackLog:    filepath.Join(dir, "feedback_log.csv"),
		ActivityLog:    filepath.Join(dir, "user_activity.csv"),
	}
	return mirror.NewCSVSink(cfg, zerolog.Nop()), cfg
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return records
}

func TestUserCreatedWritesHeaderOnce(t *testing.T) {
	sink, cfg := setupSink(t)

	if err := sink.UserCreated("alice", "2024-01-01 10:00:00", "digest-a"); err != nil {
		t.Fatalf("UserCreated failed: %v", err)
	}
	if err := sink.UserCreated("bob", "2024-01-02 11:00:00", "digest-b"); err != nil {
		t.Fatalf("UserCreated failed: %v", err)
	}

	records := readCSV(t, cfg.UsersExportLog)
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "username,created_at,password" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][0] != "alice" || records[2][0] != "bob" {
		t.Errorf("Rows not appended in order: %v", records)
	}
}

func TestLoginEvent(t *testing.T) {
	sink, cfg := setupSink(t)

	if err := sink.LoginEvent("alice"); err != nil {
		t.Fatalf("LoginEvent failed: %v", err)
	}

	records := readCSV(t, cfg.ActivityLog)
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "username,event,at" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][0] != "alice" || records[1][1] != "login" {
		t.Errorf("Unexpected row: %v", records[1])
	}
	if records[1][2] == "" {
		t.Error("Expected a timestamp")
	}
}

func TestFeedbackSaved(t *testing.T) {
	sink, cfg := setupSink(t)

	if err := sink.FeedbackSaved("alice", "great tool", "2024-03-01 09:00:00"); err != nil {
		t.Fatalf("FeedbackSaved failed: %v", err)
	}

	records := readCSV(t, cfg.FeedbackLog)
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(records))
	}
	if records[1][1] != "great tool" {
		t.Errorf("Unexpected feedback cell: %v", records[1])
	}
}

func TestSinkCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := mirror.Config{
		UsersExportLog: filepath.Join(dir, "nested", "logs", "users_export.csv"),
		FeedbackLog:    filepath.Join(dir, "feedback_log.csv"),
		ActivityLog:    filepath.Join(dir, "user_activity.csv"),
	}
	sink := mirror.NewCSVSink(cfg, zerolog.Nop())

	if err := sink.UserCreated("alice", "2024-01-01 10:00:00", "digest"); err != nil {
		t.Fatalf("UserCreated failed: %v", err)
	}
	if _, err := os.Stat(cfg.UsersExportLog); err != nil {
		t.Errorf("Expected log file to exist: %v", err)
	}
}
