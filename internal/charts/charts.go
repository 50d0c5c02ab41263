// Package charts builds renderable chart objects from tabular data. A
// built Chart holds fully prepared series data, so it can be re-rendered
// to HTML or a raster image later without the source table.
package charts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/data-analyzer-api/internal/tabular"
	"github.com/data-analyzer-api/internal/validation"
)

// Kind identifies a chart type.
type Kind string

const (
	KindBar            Kind = "bar"
	KindLine           Kind = "line"
	KindPie            Kind = "pie"
	KindScatter        Kind = "scatter"
	KindHistogram      Kind = "histogram"
	KindBox            Kind = "box"
	KindArea           Kind = "area"
	KindViolin         Kind = "violin"
	KindDensityHeatmap Kind = "density_heatmap"
	KindFunnel         Kind = "funnel"
	KindSunburst       Kind = "sunburst"
	KindTreemap        Kind = "treemap"
	KindHeatmap        Kind = "heatmap"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{
	KindBar, KindLine, KindPie, KindScatter, KindHistogram, KindBox,
	KindArea, KindViolin, KindDensityHeatmap, KindFunnel, KindSunburst,
	KindTreemap, KindHeatmap,
}

// BuildRequest assigns column roles for a chart over one table. Pie uses X
// as the names column and Y as optional values.
type BuildRequest struct {
	Kind  Kind
	X     string
	Y     string
	Color string
	Title string
}

// Series is one named numeric series aligned to the chart's Labels.
type Series struct {
	Name string
	Data []float64
}

// PointSeries is one named set of xy points.
type PointSeries struct {
	Name string
	X    []float64
	Y    []float64
}

// NameValue is one slice of a part-to-whole chart.
type NameValue struct {
	Name  string
	Value float64
}

// BoxStats is a five-number summary for one group.
type BoxStats struct {
	Name   string
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Chart is a built, renderable chart. Only the fields relevant to its Kind
// are populated.
type Chart struct {
	Kind  Kind
	Title string

	// bar, line, area, histogram
	Labels []string
	Series []Series

	// scatter
	Points []PointSeries

	// pie, funnel, sunburst, treemap
	Values []NameValue

	// box, violin
	Boxes []BoxStats

	// heatmap, density_heatmap: Cells[yi][xi] holds the count
	XCats []string
	YCats []string
	Cells [][]int
}

func knownKind(k Kind) bool {
	for _, kk := range Kinds {
		if k == kk {
			return true
		}
	}
	return false
}

// Validate checks role assignments before any data work
func (r *BuildRequest) Validate() error {
	if !knownKind(r.Kind) {
		return validation.Errorf("kind", "unknown chart kind: %s", r.Kind)
	}
	if r.X == "" {
		if r.Kind == KindPie {
			return validation.Errorf("x", "pie requires a names column")
		}
		return validation.Errorf("x", "x column is required")
	}
	if (r.Kind == KindHeatmap || r.Kind == KindDensityHeatmap) && r.Y == "" {
		return validation.Errorf("y", "%s requires both X and Y columns", r.Kind)
	}
	return nil
}

// Build prepares a chart from the table according to the role assignments.
// Role mismatches come back as validation errors; unparsable values as
// plain errors. Neither leaves a partially built chart behind.
func Build(table *tabular.Table, req BuildRequest) (*Chart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if table == nil || table.NumColumns() == 0 {
		return nil, validation.Errorf("dataset", "dataset is empty or has no columns")
	}

	c := &Chart{Kind: req.Kind, Title: req.Title}
	if c.Title == "" {
		c.Title = fmt.Sprintf("%s of %s", req.Kind, req.X)
	}

	var err error
	switch req.Kind {
	case KindBar, KindLine, KindArea:
		err = buildCategorySeries(c, table, req)
	case KindScatter:
		err = buildScatter(c, table, req)
	case KindPie, KindFunnel, KindSunburst, KindTreemap:
		err = buildNameValues(c, table, req)
	case KindHistogram:
		err = buildHistogram(c, table, req)
	case KindBox, KindViolin:
		err = buildBoxes(c, table, req)
	case KindHeatmap, KindDensityHeatmap:
		err = buildGrid(c, table, req)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// buildCategorySeries prepares bar/line/area data: distinct X values become
// category labels; Y is summed per label (or rows counted when Y is
// absent); the color column splits the result into one series per group.
func buildCategorySeries(c *Chart, t *tabular.Table, req BuildRequest) error {
	xs, err := t.Column(req.X)
	if err != nil {
		return err
	}

	var ys []float64
	if req.Y != "" {
		ys, err = rowNumericColumn(t, req.Y)
		if err != nil {
			return err
		}
	}

	var groups []string
	if req.Color != "" {
		groups, err = t.Column(req.Color)
		if err != nil {
			return err
		}
	}

	labels, labelIdx := distinct(xs)
	c.Labels = labels

	seriesName := func(i int) string {
		if groups != nil {
			return groups[i]
		}
		if req.Y != "" {
			return req.Y
		}
		return "count"
	}

	byName := map[string]*Series{}
	var order []string
	for i := range xs {
		name := seriesName(i)
		s, ok := byName[name]
		if !ok {
			s = &Series{Name: name, Data: make([]float64, len(labels))}
			byName[name] = s
			order = append(order, name)
		}
		v := 1.0
		if ys != nil {
			v = ys[i]
		}
		s.Data[labelIdx[xs[i]]] += v
	}

	for _, name := range order {
		c.Series = append(c.Series, *byName[name])
	}
	return nil
}

func buildScatter(c *Chart, t *tabular.Table, req BuildRequest) error {
	if req.Y == "" {
		return validation.Errorf("y", "scatter requires a Y column")
	}
	xs, err := rowNumericColumn(t, req.X)
	if err != nil {
		return err
	}
	ys, err := rowNumericColumn(t, req.Y)
	if err != nil {
		return err
	}

	var groups []string
	if req.Color != "" {
		groups, err = t.Column(req.Color)
		if err != nil {
			return err
		}
	}

	byName := map[string]*PointSeries{}
	var order []string
	for i := range xs {
		name := req.Y
		if groups != nil {
			name = groups[i]
		}
		s, ok := byName[name]
		if !ok {
			s = &PointSeries{Name: name}
			byName[name] = s
			order = append(order, name)
		}
		s.X = append(s.X, xs[i])
		s.Y = append(s.Y, ys[i])
	}

	for _, name := range order {
		c.Points = append(c.Points, *byName[name])
	}
	return nil
}

// buildNameValues prepares pie/funnel/sunburst/treemap data: one slice per
// distinct X value, sized by the Y sum or by row count when Y is absent.
func buildNameValues(c *Chart, t *tabular.Table, req BuildRequest) error {
	xs, err := t.Column(req.X)
	if err != nil {
		return err
	}

	var ys []float64
	if req.Y != "" {
		ys, err = rowNumericColumn(t, req.Y)
		if err != nil {
			return err
		}
	}

	labels, labelIdx := distinct(xs)
	totals := make([]float64, len(labels))
	for i := range xs {
		v := 1.0
		if ys != nil {
			v = ys[i]
		}
		totals[labelIdx[xs[i]]] += v
	}

	for i, name := range labels {
		c.Values = append(c.Values, NameValue{Name: name, Value: totals[i]})
	}
	return nil
}

func buildHistogram(c *Chart, t *tabular.Table, req BuildRequest) error {
	xs, err := t.NumericColumn(req.X)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return validation.Errorf("x", "column %s has no numeric values", req.X)
	}

	min, max := xs[0], xs[0]
	for _, v := range xs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	const bins = 10
	width := (max - min) / bins
	counts := make([]float64, bins)
	labels := make([]string, bins)
	for i := 0; i < bins; i++ {
		labels[i] = fmt.Sprintf("%.4g", min+width*float64(i))
	}

	for _, v := range xs {
		idx := bins - 1
		if width > 0 {
			idx = int((v - min) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		counts[idx]++
	}

	c.Labels = labels
	c.Series = []Series{{Name: "count", Data: counts}}
	return nil
}

// buildBoxes prepares box/violin data as five-number summaries. With a Y
// column, Y values are grouped by distinct X value; without one, X itself
// must be numeric and forms a single box. Violin is rendered with the same
// summary since the renderers have no violin primitive.
func buildBoxes(c *Chart, t *tabular.Table, req BuildRequest) error {
	if req.Y == "" {
		xs, err := t.NumericColumn(req.X)
		if err != nil {
			return err
		}
		if len(xs) == 0 {
			return validation.Errorf("x", "column %s has no numeric values", req.X)
		}
		c.Boxes = []BoxStats{fiveNumber(req.X, xs)}
		return nil
	}

	xs, err := t.Column(req.X)
	if err != nil {
		return err
	}
	ys, err := rowNumericColumn(t, req.Y)
	if err != nil {
		return err
	}

	labels, labelIdx := distinct(xs)
	grouped := make([][]float64, len(labels))
	for i := range xs {
		gi := labelIdx[xs[i]]
		grouped[gi] = append(grouped[gi], ys[i])
	}

	for i, name := range labels {
		if len(grouped[i]) == 0 {
			continue
		}
		c.Boxes = append(c.Boxes, fiveNumber(name, grouped[i]))
	}
	return nil
}

func buildGrid(c *Chart, t *tabular.Table, req BuildRequest) error {
	xs, err := t.Column(req.X)
	if err != nil {
		return err
	}
	ys, err := t.Column(req.Y)
	if err != nil {
		return err
	}

	xCats, xIdx := distinct(xs)
	yCats, yIdx := distinct(ys)

	cells := make([][]int, len(yCats))
	for i := range cells {
		cells[i] = make([]int, len(xCats))
	}
	for i := range xs {
		cells[yIdx[ys[i]]][xIdx[xs[i]]]++
	}

	c.XCats = xCats
	c.YCats = yCats
	c.Cells = cells
	return nil
}

// rowNumericColumn parses a column as per-row numeric values, keeping
// positional alignment with sibling columns (empty cells are an error here,
// unlike the aggregate NumericColumn).
func rowNumericColumn(t *tabular.Table, name string) ([]float64, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s is not numeric: %q", name, v)
		}
		out[i] = f
	}
	return out, nil
}

// distinct returns the unique values in first-seen order plus an index map
func distinct(values []string) ([]string, map[string]int) {
	idx := make(map[string]int)
	var out []string
	for _, v := range values {
		if _, ok := idx[v]; !ok {
			idx[v] = len(out)
			out = append(out, v)
		}
	}
	return out, idx
}

// fiveNumber computes the min/Q1/median/Q3/max summary of one group
func fiveNumber(name string, values []float64) BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	quantile := func(q float64) float64 {
		if len(sorted) == 1 {
			return sorted[0]
		}
		pos := q * float64(len(sorted)-1)
		lo := int(pos)
		hi := lo + 1
		if hi >= len(sorted) {
			return sorted[lo]
		}
		frac := pos - float64(lo)
		return sorted[lo]*(1-frac) + sorted[hi]*frac
	}

	return BoxStats{
		Name:   name,
		Min:    sorted[0],
		Q1:     quantile(0.25),
		Median: quantile(0.5),
		Q3:     quantile(0.75),
		Max:    sorted[len(sorted)-1],
	}
}
