// Render the log2(T2/T1) bar chart of a curated GO term group

package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/yumyai/goabund/internal/util"
	"github.com/yumyai/goabund/logger"
	"github.com/yumyai/goabund/pkg/model"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyChart is returned when none of the requested descriptions can be drawn.
var ErrEmptyChart = errors.New("no requested GO term has both phase abundances")

const PlotsDirName = "plots"

type ChartSpec struct {
	Name         string
	Domain       model.Domain
	Descriptions []string
	ColorScheme  string
}

type Size struct {
	Width  vg.Length
	Height vg.Length
}

// Bar is one drawn description with its normalized color.
type Bar struct {
	model.Comparison
	Color string
}

// Chart describes a rendered image.
type Chart struct {
	Spec ChartSpec
	File string
	Path string
	Bars []Bar
	// Requested descriptions found in phase I without a drawable ratio.
	Dropped []string
	// Requested descriptions absent from the phase I aggregate.
	Missing []string
}

// ChartFileName is the image name for a chart name.
func ChartFileName(name string) string {
	safe := strings.ReplaceAll(name, string(filepath.Separator), "_")
	return fmt.Sprintf("log2_ratio_of_phase_II_over_phase_I_for_%s_GO_terms.png", safe)
}

// WrapLabel puts every word of a description on its own line.
func WrapLabel(description string) string {
	return strings.ReplaceAll(description, " ", "\n")
}

// RenderChart compares the requested descriptions of spec.Domain, colors each
// ratio on a scale normalized to this chart only, and writes a PNG into plotsDir.
func RenderChart(summary *model.Summary, spec ChartSpec, plotsDir string, size Size) (*Chart, error) {
	cmap, err := LookupColorScheme(spec.ColorScheme)
	if err != nil {
		return nil, err
	}

	rows, dropped := model.Compare(summary, spec.Domain, spec.Descriptions)

	chart := &Chart{
		Spec:    spec,
		File:    ChartFileName(spec.Name),
		Dropped: dropped,
		Missing: missingDescriptions(spec.Descriptions, rows, dropped),
	}
	chart.Path = filepath.Join(plotsDir, chart.File)

	if len(chart.Missing) > 0 {
		logger.Debug("Requested GO terms not found in phase I",
			zap.String("chart", spec.Name), zap.Strings("descriptions", chart.Missing))
	}
	if len(dropped) > 0 {
		logger.Debug("Dropped GO terms without a finite ratio",
			zap.String("chart", spec.Name), zap.Strings("descriptions", dropped))
	}

	if len(rows) == 0 {
		return chart, ErrEmptyChart
	}

	norm := model.Normalize(rows)
	colors := make([]color.Color, len(rows))
	for i, r := range rows {
		colors[i] = cmap.At(norm[i])
		chart.Bars = append(chart.Bars, Bar{Comparison: r, Color: Hex(colors[i])})
	}

	p, err := newBarPlot(spec.Name, rows, colors, size)
	if err != nil {
		return nil, fmt.Errorf("building chart %s: %w", spec.Name, err)
	}

	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("encoding chart %s: %w", spec.Name, err)
	}
	err = util.WriteFileAtomic(chart.Path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Rendered chart", zap.String("chart", spec.Name), zap.Int("bars", len(rows)),
		zap.String("path", chart.Path))
	return chart, nil
}

func newBarPlot(name string, rows []model.Comparison, colors []color.Color, size Size) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = fmt.Sprintf("log2(T2/T1) for %s GO terms", name)
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = "GO term"
	p.X.Label.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = "log2(T2/T1)"
	p.Y.Label.TextStyle.Font.Size = vg.Points(16)

	// Leave room for the y axis, then 70% of each slot for the bar.
	slot := (size.Width - 1.5*vg.Inch) / vg.Length(len(rows))
	if slot <= 0 {
		slot = vg.Points(10)
	}
	width := slot * 0.7

	labels := make([]string, len(rows))
	for i, r := range rows {
		bar, err := plotter.NewBarChart(plotter.Values{r.Log2Ratio}, width)
		if err != nil {
			return nil, err
		}
		bar.XMin = float64(i)
		bar.Color = colors[i]
		bar.LineStyle.Color = color.Black
		bar.LineStyle.Width = vg.Points(1)
		p.Add(bar)

		labels[i] = WrapLabel(r.Description)
	}

	zero, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 0},
		{X: float64(len(rows)) - 0.5, Y: 0},
	})
	if err != nil {
		return nil, err
	}
	zero.LineStyle.Color = color.Black
	zero.LineStyle.Width = vg.Points(1)
	p.Add(zero)

	p.NominalX(labels...)
	return p, nil
}

func missingDescriptions(requested []string, rows []model.Comparison, dropped []string) []string {
	found := make(map[string]bool, len(rows)+len(dropped))
	for _, r := range rows {
		found[r.Description] = true
	}
	for _, d := range dropped {
		found[d] = true
	}

	var missing []string
	for _, d := range requested {
		if !found[d] {
			missing = append(missing, d)
		}
	}
	return missing
}
