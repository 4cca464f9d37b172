// Package charts renders the diagnostic chart panel of a profiled table.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/autoeda-cli/internal/analysis"
	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	rows = 3
	cols = 2

	histBins = 30
	// maxBars bounds the categories drawn in the bar chart.
	maxBars = 30
)

// ErrNothingToPlot is returned when the table has no plottable column.
var ErrNothingToPlot = errors.New("no numeric or categorical columns to plot")

// Panel describes a rendered chart grid.
type Panel struct {
	Path   string
	Titles []string
}

// Render draws up to five charts into a 3x2 grid and writes it as PNG to
// path: a histogram of the first numeric column, a box plot of the second,
// a bar chart of the first categorical column, a scatter of the first two
// numeric columns and a correlation heat map.
func Render(t *table.Table, rep *analysis.Report, path string) (*Panel, error) {
	plots, err := build(t, rep)
	if err != nil {
		return nil, err
	}
	if len(plots) == 0 {
		return nil, ErrNothingToPlot
	}

	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, cols)
	}
	panel := &Panel{Path: path}
	for i, p := range plots {
		grid[i/cols][i%cols] = p
		panel.Titles = append(panel.Titles, p.Title.Text)
	}

	img := vgimg.New(15*vg.Inch, 12*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i, p := range grid[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("write png: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close chart file: %w", err)
	}
	return panel, nil
}

func build(t *table.Table, rep *analysis.Report) ([]*plot.Plot, error) {
	var out []*plot.Plot
	add := func(p *plot.Plot, err error) error {
		if err != nil {
			return err
		}
		if p != nil {
			out = append(out, p)
		}
		return nil
	}
	nums := t.NumericColumns()
	if len(nums) > 0 {
		if err := add(histogram(nums[0])); err != nil {
			return nil, fmt.Errorf("histogram: %w", err)
		}
	}
	if len(nums) > 1 {
		if err := add(boxPlot(nums[1])); err != nil {
			return nil, fmt.Errorf("box plot: %w", err)
		}
	}
	if rep.Categorical != nil {
		if err := add(barChart(rep.Categorical)); err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
	}
	if len(nums) >= 2 {
		if err := add(scatter(nums[0], nums[1])); err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
	}
	if rep.Corr != nil {
		if err := add(heatMap(rep.Corr), nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// finite returns the non-missing values of c that plotters accept.
func finite(c *table.Column) plotter.Values {
	var out plotter.Values
	for _, v := range c.Floats() {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func histogram(c *table.Column) (*plot.Plot, error) {
	data := finite(c)
	if len(data) == 0 {
		return nil, nil
	}
	h, err := plotter.NewHist(data, histBins)
	if err != nil {
		return nil, err
	}
	h.LineStyle.Color = color.Black
	p := plot.New()
	p.Title.Text = "Histogram: " + c.Name
	p.X.Label.Text = c.Name
	p.Y.Label.Text = "Frequency"
	p.Add(h)
	return p, nil
}

func boxPlot(c *table.Column) (*plot.Plot, error) {
	data := finite(c)
	if len(data) == 0 {
		return nil, nil
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, data)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = "Boxplot: " + c.Name
	p.Add(b)
	p.NominalX(c.Name)
	return p, nil
}

func barChart(ft *analysis.FrequencyTable) (*plot.Plot, error) {
	vals := ft.Values
	if len(vals) == 0 {
		return nil, nil
	}
	if len(vals) > maxBars {
		vals = vals[:maxBars]
	}
	counts := make(plotter.Values, len(vals))
	names := make([]string, len(vals))
	for i, v := range vals {
		counts[i] = float64(v.Count)
		names[i] = v.Value
	}
	bars, err := plotter.NewBarChart(counts, vg.Points(12))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p := plot.New()
	p.Title.Text = "Bar Chart: " + ft.Column
	p.X.Label.Text = ft.Column
	p.Y.Label.Text = "Count"
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

func scatter(x, y *table.Column) (*plot.Plot, error) {
	var pts plotter.XYs
	for i := range x.Cells {
		if x.Cells[i].Missing || y.Cells[i].Missing {
			continue
		}
		px, py := x.Cells[i].Num, y.Cells[i].Num
		if math.IsInf(px, 0) || math.IsInf(py, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: px, Y: py})
	}
	if len(pts) == 0 {
		return nil, nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scatter: %s vs %s", x.Name, y.Name)
	p.X.Label.Text = x.Name
	p.Y.Label.Text = y.Name
	p.Add(s)
	return p, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Min() float64       { return -1 }
func (g corrGrid) Max() float64       { return 1 }

func heatMap(m *analysis.CorrMatrix) *plot.Plot {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	h := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	h.NaN = color.Gray{Y: 200}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(h)
	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	return p
}
