package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/charts"
	"github.com/data-analyzer-api/internal/config"
	"github.com/data-analyzer-api/internal/mirror"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/repository"
	"github.com/data-analyzer-api/internal/tabular"
	"github.com/data-analyzer-api/internal/workspace"
)

// ErrUsernameTaken is returned by CreateAccount when the username exists
var ErrUsernameTaken = errors.New("username already exists")

// ErrNoChart is returned by ExportChart when no chart has been built yet
var ErrNoChart = errors.New("no chart has been created")

// AuthService defines the interface for the credential store operations
type AuthService interface {
	CreateAccount(ctx context.Context, username, password string) (*models.User, error)
	VerifyCredentials(ctx context.Context, username, password string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// FeedbackService defines the interface for feedback operations
type FeedbackService interface {
	Save(ctx context.Context, username, text string) (*models.Feedback, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Feedback, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	ExportCSV(ctx context.Context, w io.Writer, limit int) error
	ImportLegacy(ctx context.Context, path string) (int, error)
	Count(ctx context.Context) (int, error)
}

// WorkspaceService defines the interface for dataset upload, analysis and
// charting over the in-memory workspace
type WorkspaceService interface {
	Upload(name string, r io.Reader) (*tabular.Table, error)
	List() []models.DatasetInfo
	Analyze(req *models.AnalysisRequest) (*tabular.Table, error)
	LastAnalysis() (string, *tabular.Table, bool)
	BuildChart(req *models.ChartRequest) (*charts.Chart, error)
	ExportChart(format string) (*ChartExport, error)
}

// ChartExport is a downloadable rendering of the retained chart. Fallback
// is set when the requested format could not be rendered and the export
// degraded to HTML.
type ChartExport struct {
	Data        []byte
	ContentType string
	Extension   string
	Fallback    bool
}

// Services holds all service interfaces
type Services struct {
	Auth      AuthService
	Feedback  FeedbackService
	Workspace WorkspaceService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, ws *workspace.Workspace, sink mirror.Sink, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:      newAuthService(repos.User, sink, log),
		Feedback:  newFeedbackService(repos, sink, log),
		Workspace: newWorkspaceService(ws, log),
	}
}
