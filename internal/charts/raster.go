package charts

import (
	"bytes"
	"errors"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrRasterUnavailable marks a chart kind or format the raster renderer
// cannot produce. Callers fall back to HTML export instead of failing.
var ErrRasterUnavailable = errors.New("raster rendering unavailable for this chart or format")

// RasterFormats are the image formats the raster renderer can emit.
var RasterFormats = map[string]bool{"png": true, "svg": true}

// RenderImage renders the chart to a raster/vector image. Only png and svg
// are supported, and only for the kinds go-chart can draw (bar, histogram,
// line, area, scatter, pie); everything else returns ErrRasterUnavailable.
func (c *Chart) RenderImage(format string) ([]byte, error) {
	if !RasterFormats[format] {
		return nil, ErrRasterUnavailable
	}
	provider := gochart.PNG
	if format == "svg" {
		provider = gochart.SVG
	}

	var buf bytes.Buffer
	switch c.Kind {
	case KindBar, KindHistogram:
		if err := c.renderBars(provider, &buf); err != nil {
			return nil, err
		}
	case KindLine, KindArea, KindScatter:
		if err := c.renderXY(provider, &buf); err != nil {
			return nil, err
		}
	case KindPie:
		if err := c.renderPie(provider, &buf); err != nil {
			return nil, err
		}
	default:
		return nil, ErrRasterUnavailable
	}
	return buf.Bytes(), nil
}

func (c *Chart) renderBars(provider gochart.RendererProvider, buf *bytes.Buffer) error {
	// go-chart bars carry no grouping; only single-series charts rasterize
	if len(c.Series) != 1 {
		return ErrRasterUnavailable
	}

	bars := make([]gochart.Value, len(c.Labels))
	for i, label := range c.Labels {
		bars[i] = gochart.Value{Label: label, Value: c.Series[0].Data[i]}
	}

	graph := gochart.BarChart{
		Title:    c.Title,
		Height:   512,
		BarWidth: 40,
		Bars:     bars,
	}
	if err := graph.Render(provider, buf); err != nil {
		return fmt.Errorf("bar render: %w", err)
	}
	return nil
}

func (c *Chart) renderXY(provider gochart.RendererProvider, buf *bytes.Buffer) error {
	var series []gochart.Series

	switch c.Kind {
	case KindScatter:
		for _, s := range c.Points {
			series = append(series, gochart.ContinuousSeries{
				Name:    s.Name,
				XValues: s.X,
				YValues: s.Y,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    4,
				},
			})
		}
	default:
		// line/area: category labels map to their positional index
		xs := make([]float64, len(c.Labels))
		for i := range c.Labels {
			xs[i] = float64(i)
		}
		for _, s := range c.Series {
			style := gochart.Style{}
			if c.Kind == KindArea {
				style.FillColor = drawing.ColorBlue.WithAlpha(64)
			}
			series = append(series, gochart.ContinuousSeries{
				Name:    s.Name,
				XValues: xs,
				YValues: s.Data,
				Style:   style,
			})
		}
	}

	graph := gochart.Chart{
		Title:  c.Title,
		Height: 512,
		Series: series,
	}
	if err := graph.Render(provider, buf); err != nil {
		return fmt.Errorf("xy render: %w", err)
	}
	return nil
}

func (c *Chart) renderPie(provider gochart.RendererProvider, buf *bytes.Buffer) error {
	values := make([]gochart.Value, len(c.Values))
	for i, nv := range c.Values {
		values[i] = gochart.Value{Label: nv.Name, Value: nv.Value}
	}

	graph := gochart.PieChart{
		Title:  c.Title,
		Width:  512,
		Height: 512,
		Values: values,
	}
	if err := graph.Render(provider, buf); err != nil {
		return fmt.Errorf("pie render: %w", err)
	}
	return nil
}
