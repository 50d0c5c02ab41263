package charts_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/data-analyzer-api/internal/charts"
	"github.com/data-analyzer-api/internal/tabular"
	"github.com/data-analyzer-api/internal/validation"
)

func salesTable() *tabular.Table {
	return &tabular.Table{
		Columns: []string{"region", "amount", "channel"},
		Rows: [][]string{
			{"north", "10", "web"},
			{"south", "20", "web"},
			{"north", "5", "store"},
			{"south", "15", "store"},
			{"east", "30", "web"},
		},
	}
}

func TestBuildRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     charts.BuildRequest
		wantErr bool
	}{
		{"valid bar", charts.BuildRequest{Kind: charts.KindBar, X: "region"}, false},
		{"unknown kind", charts.BuildRequest{Kind: "donut", X: "region"}, true},
		{"missing x", charts.BuildRequest{Kind: charts.KindLine}, true},
		{"pie without names", charts.BuildRequest{Kind: charts.KindPie}, true},
		{"heatmap without y", charts.BuildRequest{Kind: charts.KindHeatmap, X: "region"}, true},
		{"density heatmap without y", charts.BuildRequest{Kind: charts.KindDensityHeatmap, X: "region"}, true},
		{"heatmap with both axes", charts.BuildRequest{Kind: charts.KindHeatmap, X: "region", Y: "channel"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr && !validation.IsValidation(err) {
				t.Errorf("Expected a validation error, got %T", err)
			}
		})
	}
}

func TestBuild_BarSumsByCategory(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region", Y: "amount",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// distinct regions in first-seen order
	wantLabels := []string{"north", "south", "east"}
	if len(chart.Labels) != len(wantLabels) {
		t.Fatalf("Expected %d labels, got %d", len(wantLabels), len(chart.Labels))
	}
	for i, l := range wantLabels {
		if chart.Labels[i] != l {
			t.Errorf("Label %d: expected %q, got %q", i, l, chart.Labels[i])
		}
	}

	if len(chart.Series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(chart.Series))
	}
	want := []float64{15, 35, 30}
	for i, v := range want {
		if chart.Series[0].Data[i] != v {
			t.Errorf("Series value %d: expected %v, got %v", i, v, chart.Series[0].Data[i])
		}
	}
}

func TestBuild_BarGroupedByColor(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region", Y: "amount", Color: "channel",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Series) != 2 {
		t.Fatalf("Expected 2 series (web, store), got %d", len(chart.Series))
	}
	if chart.Series[0].Name != "web" || chart.Series[1].Name != "store" {
		t.Errorf("Unexpected series names: %s, %s", chart.Series[0].Name, chart.Series[1].Name)
	}
	// web: north=10, south=20, east=30
	if chart.Series[0].Data[0] != 10 || chart.Series[0].Data[2] != 30 {
		t.Errorf("Unexpected web series: %v", chart.Series[0].Data)
	}
}

func TestBuild_BarCountsWithoutY(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if chart.Series[0].Name != "count" {
		t.Errorf("Expected series 'count', got %q", chart.Series[0].Name)
	}
	// north appears twice
	if chart.Series[0].Data[0] != 2 {
		t.Errorf("Expected north count 2, got %v", chart.Series[0].Data[0])
	}
}

func TestBuild_PieCountAggregation(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindPie, X: "channel",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Values) != 2 {
		t.Fatalf("Expected 2 slices, got %d", len(chart.Values))
	}
	if chart.Values[0].Name != "web" || chart.Values[0].Value != 3 {
		t.Errorf("Expected web=3, got %s=%v", chart.Values[0].Name, chart.Values[0].Value)
	}
	if chart.Values[1].Name != "store" || chart.Values[1].Value != 2 {
		t.Errorf("Expected store=2, got %s=%v", chart.Values[1].Name, chart.Values[1].Value)
	}
}

func TestBuild_Scatter(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"x", "y"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
	}
	chart, err := charts.Build(table, charts.BuildRequest{
		Kind: charts.KindScatter, X: "x", Y: "y",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Points) != 1 || len(chart.Points[0].X) != 2 {
		t.Fatalf("Unexpected points: %+v", chart.Points)
	}
}

func TestBuild_ScatterRequiresY(t *testing.T) {
	_, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindScatter, X: "amount",
	})
	if !validation.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestBuild_ScatterNonNumeric(t *testing.T) {
	_, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindScatter, X: "region", Y: "amount",
	})
	if err == nil {
		t.Error("Expected error for non-numeric x column")
	}
}

func TestBuild_Histogram(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"v"},
		Rows:    [][]string{{"0"}, {"1"}, {"5"}, {"9"}, {"10"}},
	}
	chart, err := charts.Build(table, charts.BuildRequest{
		Kind: charts.KindHistogram, X: "v",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Labels) != 10 {
		t.Fatalf("Expected 10 bins, got %d", len(chart.Labels))
	}
	total := 0.0
	for _, v := range chart.Series[0].Data {
		total += v
	}
	if total != 5 {
		t.Errorf("Expected 5 counted values, got %v", total)
	}
}

func TestBuild_BoxFiveNumber(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"v"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}},
	}
	chart, err := charts.Build(table, charts.BuildRequest{
		Kind: charts.KindBox, X: "v",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Boxes) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(chart.Boxes))
	}
	box := chart.Boxes[0]
	if box.Min != 1 || box.Q1 != 2 || box.Median != 3 || box.Q3 != 4 || box.Max != 5 {
		t.Errorf("Unexpected summary: %+v", box)
	}
}

func TestBuild_BoxGrouped(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBox, X: "region", Y: "amount",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.Boxes) != 3 {
		t.Fatalf("Expected 3 boxes, got %d", len(chart.Boxes))
	}
	if chart.Boxes[0].Name != "north" || chart.Boxes[0].Min != 5 || chart.Boxes[0].Max != 10 {
		t.Errorf("Unexpected north box: %+v", chart.Boxes[0])
	}
}

func TestBuild_HeatmapGrid(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindHeatmap, X: "region", Y: "channel",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(chart.XCats) != 3 || len(chart.YCats) != 2 {
		t.Fatalf("Unexpected grid shape: %dx%d", len(chart.XCats), len(chart.YCats))
	}
	// north/web appears once
	if chart.Cells[0][0] != 1 {
		t.Errorf("Expected cell [0][0]=1, got %d", chart.Cells[0][0])
	}
}

func TestBuild_EmptyDataset(t *testing.T) {
	_, err := charts.Build(&tabular.Table{}, charts.BuildRequest{
		Kind: charts.KindBar, X: "x",
	})
	if !validation.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestRenderHTML_AllKinds(t *testing.T) {
	table := salesTable()

	for _, kind := range charts.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			req := charts.BuildRequest{Kind: kind, X: "region", Y: "amount"}
			if kind == charts.KindHeatmap || kind == charts.KindDensityHeatmap {
				req.Y = "channel"
			}
			if kind == charts.KindHistogram || kind == charts.KindScatter {
				req.X = "amount"
			}
			if kind == charts.KindBox || kind == charts.KindViolin {
				req = charts.BuildRequest{Kind: kind, X: "amount"}
			}

			chart, err := charts.Build(table, req)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			var buf bytes.Buffer
			if err := chart.RenderHTML(&buf); err != nil {
				t.Fatalf("RenderHTML failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("Expected HTML output")
			}
		})
	}
}

func TestRenderImage_SupportedKinds(t *testing.T) {
	chart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region", Y: "amount",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, format := range []string{"png", "svg"} {
		data, err := chart.RenderImage(format)
		if err != nil {
			t.Fatalf("RenderImage(%s) failed: %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("Expected %s output", format)
		}
	}
}

func TestRenderImage_Unavailable(t *testing.T) {
	boxChart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBox, X: "region", Y: "amount",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// unsupported kind
	if _, err := boxChart.RenderImage("png"); !errors.Is(err, charts.ErrRasterUnavailable) {
		t.Errorf("Expected ErrRasterUnavailable for box/png, got %v", err)
	}

	barChart, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region", Y: "amount",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// unsupported format
	if _, err := barChart.RenderImage("pdf"); !errors.Is(err, charts.ErrRasterUnavailable) {
		t.Errorf("Expected ErrRasterUnavailable for bar/pdf, got %v", err)
	}

	// grouped bars have no raster equivalent
	grouped, err := charts.Build(salesTable(), charts.BuildRequest{
		Kind: charts.KindBar, X: "region", Y: "amount", Color: "channel",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := grouped.RenderImage("png"); !errors.Is(err, charts.ErrRasterUnavailable) {
		t.Errorf("Expected ErrRasterUnavailable for multi-series bar, got %v", err)
	}
}
