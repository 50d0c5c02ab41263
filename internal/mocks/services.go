package mocks

import (
	"context"
	"io"

	"github.com/data-analyzer-api/internal/charts"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/tabular"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	CreateAccountFunc func(ctx context.Context, username, password string) (*models.User, error)
	VerifyFunc        func(ctx context.Context, username, password string) (bool, error)
	UserCount         int
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) CreateAccount(ctx context.Context, username, password string) (*models.User, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, username, password)
	}
	return &models.User{ID: 1, Username: username}, nil
}

func (m *MockAuthService) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, username, password)
	}
	return false, nil
}

func (m *MockAuthService) Count(ctx context.Context) (int, error) {
	return m.UserCount, nil
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	SaveFunc   func(ctx context.Context, username, text string) (*models.Feedback, error)
	Saved      []*models.Feedback
	Recent     []*models.Feedback
	DeletedIDs []int64
	Migrated   int
}

// Verify interface compliance
var _ service.FeedbackService = (*MockFeedbackService)(nil)

func NewMockFeedbackService() *MockFeedbackService {
	return &MockFeedbackService{}
}

func (m *MockFeedbackService) Save(ctx context.Context, username, text string) (*models.Feedback, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, username, text)
	}
	fb := &models.Feedback{ID: int64(len(m.Saved) + 1), Username: username, Feedback: text}
	m.Saved = append(m.Saved, fb)
	return fb, nil
}

func (m *MockFeedbackService) ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error) {
	if limit < len(m.Recent) {
		return m.Recent[:limit], nil
	}
	return m.Recent, nil
}

func (m *MockFeedbackService) Delete(ctx context.Context, ids []int64) (int64, error) {
	m.DeletedIDs = append(m.DeletedIDs, ids...)
	return int64(len(ids)), nil
}

func (m *MockFeedbackService) ExportCSV(ctx context.Context, w io.Writer, limit int) error {
	_, err := w.Write([]byte("id,username,user_id,feedback,feedback_at\n"))
	return err
}

func (m *MockFeedbackService) ImportLegacy(ctx context.Context, path string) (int, error) {
	return m.Migrated, nil
}

func (m *MockFeedbackService) Count(ctx context.Context) (int, error) {
	return len(m.Recent), nil
}

// MockWorkspaceService is a mock implementation of WorkspaceService
type MockWorkspaceService struct {
	UploadFunc  func(name string, r io.Reader) (*tabular.Table, error)
	AnalyzeFunc func(req *models.AnalysisRequest) (*tabular.Table, error)
	ChartFunc   func(req *models.ChartRequest) (*charts.Chart, error)
	ExportFunc  func(format string) (*service.ChartExport, error)

	Datasets []models.DatasetInfo
	Analysis *tabular.Table
}

// Verify interface compliance
var _ service.WorkspaceService = (*MockWorkspaceService)(nil)

func NewMockWorkspaceService() *MockWorkspaceService {
	return &MockWorkspaceService{}
}

func (m *MockWorkspaceService) Upload(name string, r io.Reader) (*tabular.Table, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(name, r)
	}
	return tabular.ParseCSV(r)
}

func (m *MockWorkspaceService) List() []models.DatasetInfo {
	return m.Datasets
}

func (m *MockWorkspaceService) Analyze(req *models.AnalysisRequest) (*tabular.Table, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(req)
	}
	return &tabular.Table{}, nil
}

func (m *MockWorkspaceService) LastAnalysis() (string, *tabular.Table, bool) {
	if m.Analysis == nil {
		return "", nil, false
	}
	return "analysis", m.Analysis, true
}

func (m *MockWorkspaceService) BuildChart(req *models.ChartRequest) (*charts.Chart, error) {
	if m.ChartFunc != nil {
		return m.ChartFunc(req)
	}
	return &charts.Chart{Kind: charts.Kind(req.Kind), Title: req.Title}, nil
}

func (m *MockWorkspaceService) ExportChart(format string) (*service.ChartExport, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(format)
	}
	return &service.ChartExport{Data: []byte("<html></html>"), ContentType: "text/html", Extension: "html"}, nil
}
