package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yumyai/goabund/pkg/model"
	"gonum.org/v1/plot/vg"
)

func fixtureSummary() *model.Summary {
	c := model.CellularComponent
	return &model.Summary{Records: []model.Abundance{
		{Phase: model.PhaseI, Domain: c, Description: "chloroplast stroma", Abundance: 10},
		{Phase: model.PhaseI, Domain: c, Description: "thylakoid", Abundance: 10},
		{Phase: model.PhaseI, Domain: c, Description: "plastid", Abundance: 4},
		{Phase: model.PhaseII, Domain: c, Description: "chloroplast stroma", Abundance: 20},
		{Phase: model.PhaseII, Domain: c, Description: "thylakoid", Abundance: 5},
		{Phase: model.PhaseII, Domain: c, Description: "chloroplast envelope", Abundance: 3},
	}}
}

var smallSize = Size{Width: 4 * vg.Inch, Height: 4 * vg.Inch}

func TestChartFileName(t *testing.T) {
	got := ChartFileName("Endo and Exo cytosis")
	want := "log2_ratio_of_phase_II_over_phase_I_for_Endo and Exo cytosis_GO_terms.png"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWrapLabel(t *testing.T) {
	if got := WrapLabel("chloroplast thylakoid membrane"); got != "chloroplast\nthylakoid\nmembrane" {
		t.Errorf("got %q", got)
	}
}

func TestRenderChart(t *testing.T) {
	dir := t.TempDir()
	spec := ChartSpec{
		Name:         "Chloroplast",
		Domain:       model.CellularComponent,
		Descriptions: []string{"thylakoid", "chloroplast stroma", "plastid", "chloroplast envelope", "stromule"},
		ColorScheme:  "Blues",
	}

	chart, err := RenderChart(fixtureSummary(), spec, dir, smallSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chart.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(chart.Bars))
	}
	if chart.Bars[0].Description != "chloroplast stroma" || chart.Bars[0].Log2Ratio != 1 {
		t.Errorf("unexpected first bar %+v", chart.Bars[0])
	}
	if chart.Bars[1].Description != "thylakoid" || chart.Bars[1].Log2Ratio != -1 {
		t.Errorf("unexpected second bar %+v", chart.Bars[1])
	}

	cm, _ := LookupColorScheme("Blues")
	if chart.Bars[0].Color != Hex(cm.At(1)) || chart.Bars[1].Color != Hex(cm.At(0)) {
		t.Errorf("expected colors normalized to this chart, got %s and %s", chart.Bars[0].Color, chart.Bars[1].Color)
	}

	if !reflect.DeepEqual(chart.Dropped, []string{"plastid"}) {
		t.Errorf("unexpected dropped %v", chart.Dropped)
	}
	if !reflect.DeepEqual(chart.Missing, []string{"chloroplast envelope", "stromule"}) {
		t.Errorf("unexpected missing %v", chart.Missing)
	}

	data, err := os.ReadFile(filepath.Join(dir, ChartFileName("Chloroplast")))
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("expected a PNG file")
	}
}

func TestRenderChartEmpty(t *testing.T) {
	dir := t.TempDir()
	spec := ChartSpec{
		Name:         "Nothing",
		Domain:       model.CellularComponent,
		Descriptions: []string{"plastid", "stromule"},
		ColorScheme:  "Reds",
	}

	chart, err := RenderChart(fixtureSummary(), spec, dir, smallSize)
	if !errors.Is(err, ErrEmptyChart) {
		t.Fatalf("expected ErrEmptyChart, got %v", err)
	}
	if chart == nil || len(chart.Bars) != 0 {
		t.Fatalf("expected an empty chart description, got %+v", chart)
	}
	if _, err := os.Stat(chart.Path); !os.IsNotExist(err) {
		t.Errorf("expected no image to be written, stat returned %v", err)
	}
}

func TestRenderChartUnknownScheme(t *testing.T) {
	spec := ChartSpec{Name: "x", Domain: model.CellularComponent, ColorScheme: "nope"}
	_, err := RenderChart(fixtureSummary(), spec, t.TempDir(), smallSize)
	var target *UnknownColorSchemeError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnknownColorSchemeError, got %v", err)
	}
}
