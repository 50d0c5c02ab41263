// Package workspace holds the in-memory, session-scoped state of the
// dashboard: uploaded datasets keyed by file name, the most recent analysis
// result, and the most recently built chart. Nothing here survives a
// restart.
package workspace

import (
	"sync"

	"github.com/data-analyzer-api/internal/charts"
	"github.com/data-analyzer-api/internal/models"
	"github.com/data-analyzer-api/internal/tabular"
)

// VirtualAnalysisKey is the dataset name under which the last analysis
// result is selectable, e.g. by the chart builder.
const VirtualAnalysisKey = "last_analysis"

// Workspace is the per-process dataset workspace. The process serves one
// interactive session, but handlers may overlap, so access is guarded.
type Workspace struct {
	mu       sync.RWMutex
	datasets map[string]*tabular.Table
	order    []string

	analysisName  string
	analysisTable *tabular.Table

	lastChart *charts.Chart
}

// New creates an empty workspace
func New() *Workspace {
	return &Workspace{datasets: make(map[string]*tabular.Table)}
}

// Put inserts or overwrites a dataset under its upload file name
func (w *Workspace) Put(name string, table *tabular.Table) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.datasets[name]; !exists {
		w.order = append(w.order, name)
	}
	w.datasets[name] = table
}

// Get returns a dataset by name. The VirtualAnalysisKey name resolves to
// the last analysis result when one exists.
func (w *Workspace) Get(name string) (*tabular.Table, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if name == VirtualAnalysisKey {
		if w.analysisTable == nil {
			return nil, false
		}
		return w.analysisTable, true
	}
	t, ok := w.datasets[name]
	return t, ok
}

// List describes every selectable dataset, the virtual analysis result
// first when present, then uploads in first-seen order.
func (w *Workspace) List() []models.DatasetInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []models.DatasetInfo
	if w.analysisTable != nil {
		out = append(out, models.DatasetInfo{
			Name:    VirtualAnalysisKey,
			Rows:    w.analysisTable.NumRows(),
			Columns: w.analysisTable.NumColumns(),
			Virtual: true,
		})
	}
	for _, name := range w.order {
		t := w.datasets[name]
		out = append(out, models.DatasetInfo{
			Name:    name,
			Rows:    t.NumRows(),
			Columns: t.NumColumns(),
		})
	}
	return out
}

// SetAnalysis retains an analysis result as the virtual dataset
func (w *Workspace) SetAnalysis(name string, table *tabular.Table) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.analysisName = name
	w.analysisTable = table
}

// Analysis returns the retained analysis result, if any
func (w *Workspace) Analysis() (string, *tabular.Table, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.analysisTable == nil {
		return "", nil, false
	}
	return w.analysisName, w.analysisTable, true
}

// SetChart retains the most recently built chart so unrelated requests
// (such as changing the export format) do not discard it
func (w *Workspace) SetChart(c *charts.Chart) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastChart = c
}

// Chart returns the retained chart, if any
func (w *Workspace) Chart() (*charts.Chart, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.lastChart == nil {
		return nil, false
	}
	return w.lastChart, true
}
