package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/data-analyzer-api/internal/charts"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/tabular"
	"github.com/data-analyzer-api/internal/validation"
	"github.com/data-analyzer-api/internal/workspace"
)

// chartMediaTypes maps export formats to their media type. HTML is absent
// on purpose: it is the always-available fallback, not a raster format.
var chartMediaTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
}

// workspaceService is the concrete implementation of WorkspaceService
type workspaceService struct {
	ws  *workspace.Workspace
	log zerolog.Logger
}

// newWorkspaceService creates a new WorkspaceService
func newWorkspaceService(ws *workspace.Workspace, log zerolog.Logger) *workspaceService {
	return &workspaceService{
		ws:  ws,
		log: log.With().Str("service", "workspace").Logger(),
	}
}

// Upload parses one file into the workspace, keyed (and overwritten) by
// its file name. A parse failure affects only this file.
func (s *workspaceService) Upload(name string, r io.Reader) (*tabular.Table, error) {
	table, err := tabular.Parse(name, r)
	if err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("Upload parse failed")
		return nil, err
	}

	s.ws.Put(name, table)
	s.log.Info().
		Str("file", name).
		Int("rows", table.NumRows()).
		Int("columns", table.NumColumns()).
		Msg("Dataset loaded")
	return table, nil
}

// List describes the selectable datasets
func (s *workspaceService) List() []models.DatasetInfo {
	return s.ws.List()
}

// Analyze filters, windows and column-selects one dataset. The result is
// returned and retained as the virtual last-analysis dataset.
func (s *workspaceService) Analyze(req *models.AnalysisRequest) (*tabular.Table, error) {
	if err := validation.ValidateAnalysis(req.Dataset, req.Rows); err != nil {
		return nil, err
	}

	table, ok := s.ws.Get(req.Dataset)
	if !ok {
		return nil, validation.Errorf("dataset", "unknown dataset: %s", req.Dataset)
	}

	filtered := table
	if req.SearchValue != "" {
		if req.SearchColumn == "" {
			return nil, validation.Errorf("search_column", "search column is required when a search value is given")
		}
		var err error
		filtered, err = table.FilterContains(req.SearchColumn, req.SearchValue)
		if err != nil {
			return nil, validation.Errorf("search_column", "%s", err)
		}
	}

	windowed := filtered.Window(req.Offset, req.Rows)

	result, err := windowed.SelectColumns(req.Columns)
	if err != nil {
		return nil, validation.Errorf("columns", "%s", err)
	}

	s.ws.SetAnalysis(fmt.Sprintf("%s - analyzed", req.Dataset), result)
	return result, nil
}

// LastAnalysis returns the retained analysis result, if any
func (s *workspaceService) LastAnalysis() (string, *tabular.Table, bool) {
	return s.ws.Analysis()
}

// BuildChart builds a chart over a raw dataset or the last analysis result
// and retains it for subsequent exports
func (s *workspaceService) BuildChart(req *models.ChartRequest) (*charts.Chart, error) {
	if req.Dataset == "" {
		return nil, validation.Errorf("dataset", "dataset is required")
	}
	table, ok := s.ws.Get(req.Dataset)
	if !ok {
		return nil, validation.Errorf("dataset", "unknown dataset: %s", req.Dataset)
	}

	chart, err := charts.Build(table, charts.BuildRequest{
		Kind:  charts.Kind(req.Kind),
		X:     req.X,
		Y:     req.Y,
		Color: req.Color,
		Title: req.Title,
	})
	if err != nil {
		return nil, err
	}

	s.ws.SetChart(chart)
	s.log.Info().Str("kind", req.Kind).Str("dataset", req.Dataset).Msg("Chart created")
	return chart, nil
}

// ExportChart renders the retained chart in the requested format. When the
// raster renderer cannot produce the format or kind, the export degrades
// to HTML with Fallback set instead of failing.
func (s *workspaceService) ExportChart(format string) (*ChartExport, error) {
	chart, ok := s.ws.Chart()
	if !ok {
		return nil, ErrNoChart
	}

	if format == "html" {
		data, err := renderHTML(chart)
		if err != nil {
			return nil, err
		}
		return &ChartExport{Data: data, ContentType: "text/html", Extension: "html"}, nil
	}

	mediaType, ok := chartMediaTypes[format]
	if !ok {
		return nil, validation.Errorf("format", "unsupported format: %s", format)
	}

	data, err := chart.RenderImage(format)
	if err == nil {
		return &ChartExport{Data: data, ContentType: mediaType, Extension: format}, nil
	}
	if !errors.Is(err, charts.ErrRasterUnavailable) {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	s.log.Warn().
		Str("format", format).
		Str("kind", string(chart.Kind)).
		Msg("Raster export unavailable, falling back to HTML")

	fallback, err := renderHTML(chart)
	if err != nil {
		return nil, err
	}
	return &ChartExport{Data: fallback, ContentType: "text/html", Extension: "html", Fallback: true}, nil
}

func renderHTML(chart *charts.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := chart.RenderHTML(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart HTML: %w", err)
	}
	return buf.Bytes(), nil
}
