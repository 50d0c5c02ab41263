package charts

import (
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type htmlRenderer interface {
	Render(w io.Writer) error
}

// RenderHTML writes the chart as a standalone HTML document. Every kind is
// renderable this way, which is what makes HTML the universal export
// fallback.
func (c *Chart) RenderHTML(w io.Writer) error {
	r, err := c.buildRenderer()
	if err != nil {
		return err
	}
	return r.Render(w)
}

func (c *Chart) buildRenderer() (htmlRenderer, error) {
	title := echarts.WithTitleOpts(opts.Title{Title: c.Title})

	switch c.Kind {
	case KindBar, KindHistogram:
		bar := echarts.NewBar()
		bar.SetGlobalOptions(title)
		bar.SetXAxis(c.Labels)
		for _, s := range c.Series {
			data := make([]opts.BarData, len(s.Data))
			for i, v := range s.Data {
				data[i] = opts.BarData{Value: v}
			}
			bar.AddSeries(s.Name, data)
		}
		return bar, nil

	case KindLine, KindArea:
		line := echarts.NewLine()
		line.SetGlobalOptions(title)
		line.SetXAxis(c.Labels)
		for _, s := range c.Series {
			data := make([]opts.LineData, len(s.Data))
			for i, v := range s.Data {
				data[i] = opts.LineData{Value: v}
			}
			line.AddSeries(s.Name, data)
		}
		if c.Kind == KindArea {
			line.SetSeriesOptions(echarts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.4}))
		}
		return line, nil

	case KindScatter:
		scatter := echarts.NewScatter()
		scatter.SetGlobalOptions(
			title,
			echarts.WithXAxisOpts(opts.XAxis{Type: "value"}),
			echarts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		)
		for _, s := range c.Points {
			data := make([]opts.ScatterData, len(s.X))
			for i := range s.X {
				data[i] = opts.ScatterData{Value: []interface{}{s.X[i], s.Y[i]}}
			}
			scatter.AddSeries(s.Name, data)
		}
		return scatter, nil

	case KindPie:
		pie := echarts.NewPie()
		pie.SetGlobalOptions(title)
		data := make([]opts.PieData, len(c.Values))
		for i, nv := range c.Values {
			data[i] = opts.PieData{Name: nv.Name, Value: nv.Value}
		}
		pie.AddSeries("pie", data)
		return pie, nil

	case KindBox, KindViolin:
		bp := echarts.NewBoxPlot()
		bp.SetGlobalOptions(title)
		names := make([]string, len(c.Boxes))
		data := make([]opts.BoxPlotData, len(c.Boxes))
		for i, b := range c.Boxes {
			names[i] = b.Name
			data[i] = opts.BoxPlotData{Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}}
		}
		bp.SetXAxis(names)
		bp.AddSeries("boxplot", data)
		return bp, nil

	case KindHeatmap, KindDensityHeatmap:
		hm := echarts.NewHeatMap()
		max := 0
		var data []opts.HeatMapData
		for yi, row := range c.Cells {
			for xi, v := range row {
				if v > max {
					max = v
				}
				data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, v}})
			}
		}
		hm.SetGlobalOptions(
			title,
			echarts.WithXAxisOpts(opts.XAxis{Type: "category", Data: c.XCats}),
			echarts.WithYAxisOpts(opts.YAxis{Type: "category", Data: c.YCats}),
			echarts.WithVisualMapOpts(opts.VisualMap{Calculable: true, Min: 0, Max: float32(max)}),
		)
		hm.AddSeries("count", data)
		return hm, nil

	case KindFunnel:
		funnel := echarts.NewFunnel()
		funnel.SetGlobalOptions(title)
		data := make([]opts.FunnelData, len(c.Values))
		for i, nv := range c.Values {
			data[i] = opts.FunnelData{Name: nv.Name, Value: nv.Value}
		}
		funnel.AddSeries("funnel", data)
		return funnel, nil

	case KindSunburst:
		sb := echarts.NewSunburst()
		sb.SetGlobalOptions(title)
		data := make([]opts.SunBurstData, len(c.Values))
		for i, nv := range c.Values {
			data[i] = opts.SunBurstData{Name: nv.Name, Value: nv.Value}
		}
		sb.AddSeries("sunburst", data)
		return sb, nil

	case KindTreemap:
		tm := echarts.NewTreeMap()
		tm.SetGlobalOptions(title)
		data := make([]opts.TreeMapNode, len(c.Values))
		for i, nv := range c.Values {
			data[i] = opts.TreeMapNode{Name: nv.Name, Value: int(nv.Value)}
		}
		tm.AddSeries("treemap", data)
		return tm, nil
	}

	return nil, fmt.Errorf("unknown chart kind: %s", c.Kind)
}
