package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yumyai/goabund/internal/config"
	"github.com/yumyai/goabund/internal/util"
	"github.com/yumyai/goabund/logger"
	"github.com/yumyai/goabund/pkg/db"
	"github.com/yumyai/goabund/pkg/model"
	"github.com/yumyai/goabund/pkg/render"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

const ManifestFileName = "run_manifest.json"

// Expression tables and the directory, relative to the output root, their
// artifacts are written to.
var datasets = []struct {
	Label db.SourceLabel
	Dir   string
}{
	{db.Expression, ""},
	{db.PlastidExpression, "plastid"},
	{db.MitoExpression, "mito"},
}

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

type ChartResult struct {
	Name    string             `json:"name"`
	File    string             `json:"file"`
	Bars    []model.Comparison `json:"bars"`
	Dropped []string           `json:"dropped,omitempty"`
	Missing []string           `json:"missing,omitempty"`
}

// DatasetResult holds what one expression table produced.
type DatasetResult struct {
	Label       db.SourceLabel  `json:"label"`
	Dir         string          `json:"dir"`
	Stats       model.JoinStats `json:"join_stats"`
	SummaryRows int             `json:"summary_rows"`
	Charts      []ChartResult   `json:"charts"`
	Skipped     []string        `json:"skipped_charts,omitempty"`
	Artifacts   []string        `json:"artifacts"`
}

// Result holds the results of a full pipeline run. It is also the run manifest.
type Result struct {
	RunID     string            `json:"run_id"`
	Started   time.Time         `json:"started"`
	Finished  time.Time         `json:"finished"`
	InputDir  string            `json:"input_dir"`
	OutputDir string            `json:"output_dir"`
	Inputs    map[string]string `json:"inputs"`
	Datasets  []*DatasetResult  `json:"datasets"`
	Steps     []StepResult      `json:"-"`
}

// Pipeline runs loader, joiner, aggregator and renderer over an input directory.
type Pipeline struct {
	cfg   *config.Config
	runID string
	log   *zap.Logger
	now   func() time.Time
}

// New creates a new pipeline.
func New(cfg *config.Config) *Pipeline {
	id := uuid.NewString()
	return &Pipeline{
		cfg:   cfg,
		runID: id,
		log:   logger.With(zap.String("run_id", id)),
		now:   time.Now,
	}
}

func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes every stage for each expression table found in inputDir.
// Any error aborts the run.
func (p *Pipeline) Run(inputDir, outputDir string) (*Result, error) {
	r := &Result{
		RunID:     p.runID,
		Started:   p.now(),
		InputDir:  inputDir,
		OutputDir: outputDir,
		Inputs:    make(map[string]string),
	}

	specs, err := p.chartSpecs()
	if err != nil {
		return r, err
	}

	sdb, err := db.NewSourceDB(inputDir)
	if err != nil {
		return r, err
	}
	for label, path := range sdb.Files {
		r.Inputs[string(label)] = path
	}
	if !sdb.Has(db.Expression) {
		return r, &db.MissingSourceError{Label: db.Expression, Dir: inputDir}
	}

	goTerms, err := sdb.Table(db.GOTermKeys)
	if err != nil {
		return r, err
	}
	r.step("Load", fmt.Sprintf("%d GO annotation rows from %s", len(goTerms.Rows), sdb.Files[db.GOTermKeys]))

	for _, ds := range datasets {
		if !sdb.Has(ds.Label) {
			continue
		}
		dr, err := p.runDataset(r, sdb, goTerms, ds.Label, ds.Dir, specs)
		if dr != nil {
			r.Datasets = append(r.Datasets, dr)
		}
		if err != nil {
			return r, fmt.Errorf("dataset %s: %w", ds.Label, err)
		}
	}

	r.Finished = p.now()
	if err := writeManifest(filepath.Join(outputDir, ManifestFileName), r); err != nil {
		return r, err
	}
	r.step("Manifest", filepath.Join(outputDir, ManifestFileName))

	p.log.Info("Run finished", zap.Int("datasets", len(r.Datasets)),
		zap.Duration("elapsed", r.Finished.Sub(r.Started)))
	return r, nil
}

func (p *Pipeline) runDataset(r *Result, sdb *db.SourceDB, goTerms *model.Table,
	label db.SourceLabel, sub string, specs []render.ChartSpec) (*DatasetResult, error) {

	log := p.log.With(zap.String("dataset", string(label)))
	dir := r.OutputDir
	if sub != "" {
		var err error
		if dir, err = util.EnsureDir(r.OutputDir, sub); err != nil {
			return nil, err
		}
	}
	dr := &DatasetResult{Label: label, Dir: sub}

	expression, err := sdb.Table(label)
	if err != nil {
		return nil, err
	}

	joined, err := model.Join(expression, goTerms, model.JoinOptions{QValueMax: p.cfg.Filter.QValueMax})
	if err != nil {
		return nil, err
	}
	dr.Stats = joined.Stats
	joinedPath := filepath.Join(dir, db.JoinedCSVName)
	if err := db.WriteTableCSV(joinedPath, joined.Table); err != nil {
		return dr, err
	}
	dr.Artifacts = append(dr.Artifacts, relPath(r.OutputDir, joinedPath))
	log.Info("Joined expression with GO terms", zap.Int("rows_in", joined.Stats.Input),
		zap.Int("rows_out", joined.Stats.Output), zap.String("path", joinedPath))
	r.step("Join", fmt.Sprintf("%s: %d of %d rows kept", label, joined.Stats.Output, joined.Stats.Input))

	summary, err := model.Aggregate(joined)
	if err != nil {
		return dr, err
	}
	dr.SummaryRows = len(summary.Records)
	summaryPath := filepath.Join(dir, db.SummaryCSVName)
	if err := db.WriteSummaryCSV(summaryPath, summary); err != nil {
		return dr, err
	}
	dr.Artifacts = append(dr.Artifacts, relPath(r.OutputDir, summaryPath))
	log.Info("Aggregated GO abundances", zap.Int("rows_in", joined.Stats.Output),
		zap.Int("rows_out", len(summary.Records)), zap.String("path", summaryPath))
	r.step("Aggregate", fmt.Sprintf("%s: %d summary rows", label, len(summary.Records)))

	plotsDir, err := util.EnsureDir(dir, render.PlotsDirName)
	if err != nil {
		return dr, err
	}

	size := render.Size{
		Width:  vg.Length(p.cfg.Chart.WidthIn) * vg.Inch,
		Height: vg.Length(p.cfg.Chart.HeightIn) * vg.Inch,
	}
	var charts []*render.Chart
	for _, spec := range specs {
		chart, err := render.RenderChart(summary, spec, plotsDir, size)
		if errors.Is(err, render.ErrEmptyChart) {
			log.Warn("Skipping empty chart", zap.String("chart", spec.Name))
			dr.Skipped = append(dr.Skipped, spec.Name)
			continue
		}
		if err != nil {
			return dr, err
		}
		charts = append(charts, chart)
		dr.Artifacts = append(dr.Artifacts, relPath(r.OutputDir, chart.Path))

		cr := ChartResult{Name: spec.Name, File: chart.File, Dropped: chart.Dropped, Missing: chart.Missing}
		for _, b := range chart.Bars {
			cr.Bars = append(cr.Bars, b.Comparison)
		}
		dr.Charts = append(dr.Charts, cr)
	}
	r.step("Render", fmt.Sprintf("%s: %d charts, %d skipped", label, len(charts), len(dr.Skipped)))

	reportPath := filepath.Join(dir, render.ReportFileName)
	err = util.WriteFileAtomic(reportPath, func(w io.Writer) error {
		return render.RenderReport(w, render.Report{
			RunID:       p.runID,
			Dataset:     string(label),
			Generated:   p.now(),
			JoinedCSV:   db.JoinedCSVName,
			SummaryCSV:  db.SummaryCSVName,
			Stats:       joined.Stats,
			SummaryRows: len(summary.Records),
			Charts:      charts,
			Skipped:     dr.Skipped,
		})
	})
	if err != nil {
		return dr, err
	}
	dr.Artifacts = append(dr.Artifacts, relPath(r.OutputDir, reportPath))

	return dr, nil
}

// chartSpecs converts the configured chart groups and checks every color
// scheme before any work is done.
func (p *Pipeline) chartSpecs() ([]render.ChartSpec, error) {
	specs := make([]render.ChartSpec, 0, len(p.cfg.Charts))
	for _, c := range p.cfg.Charts {
		if _, err := render.LookupColorScheme(c.ColorScheme); err != nil {
			return nil, fmt.Errorf("chart %s: %w", c.Name, err)
		}
		specs = append(specs, render.ChartSpec{
			Name:         c.Name,
			Domain:       model.Domain(c.Domain),
			Descriptions: c.Descriptions,
			ColorScheme:  c.ColorScheme,
		})
	}
	return specs, nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Result) step(name, summary string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Summary: summary})
}

func writeManifest(path string, r *Result) error {
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}
