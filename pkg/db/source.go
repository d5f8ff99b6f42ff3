package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yumyai/goabund/logger"
	"github.com/yumyai/goabund/pkg/model"
	"go.uber.org/zap"
)

// SourceLabel names the role of an input spreadsheet. It is the file name
// without extension.
type SourceLabel string

const (
	GOTermKeys        SourceLabel = "GO_term_keys"
	Expression        SourceLabel = "expression_phase_I_vs_phase_II"
	PlastidExpression SourceLabel = "plastid_expression_phase_I_vs_phase_II"
	MitoExpression    SourceLabel = "mito_expression_phase_I_vs_phase_II"
)

var RecognizedLabels = []SourceLabel{GOTermKeys, Expression, PlastidExpression, MitoExpression}

func ParseSourceLabel(s string) (SourceLabel, bool) {
	for _, l := range RecognizedLabels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

var ErrNotADirectory = errors.New("input path is not a directory")

// Extensions read as spreadsheets. Anything else in the directory is ignored.
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// folder which hosts the labelled spreadsheets of one analysis
type SourceDB struct {
	Dir   string
	Files map[SourceLabel]string
}

// NewSourceDB discovers the spreadsheets in dir and validates their labels.
// Nothing is read yet.
func NewSourceDB(dir string) (*SourceDB, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing input directory: %w", err)
	}

	sdb := &SourceDB{Dir: dir, Files: make(map[SourceLabel]string)}

	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || !spreadsheetExts[ext] {
			continue
		}
		// Office lock files and hidden files
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			logger.Debug("Skipping non-data file", zap.String("file", name))
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		label, ok := ParseSourceLabel(stem)
		if !ok {
			return nil, &UnrecognizedLabelError{File: filepath.Join(dir, name), Label: stem}
		}

		path := filepath.Join(dir, name)
		if first, dup := sdb.Files[label]; dup {
			return nil, &DuplicateSourceError{Label: label, First: first, Second: path}
		}
		sdb.Files[label] = path
	}

	return sdb, nil
}

// Has reports whether a spreadsheet for label was discovered.
func (sdb *SourceDB) Has(label SourceLabel) bool {
	_, ok := sdb.Files[label]
	return ok
}

// Labels returns the discovered labels in RecognizedLabels order.
func (sdb *SourceDB) Labels() []SourceLabel {
	var out []SourceLabel
	for _, l := range RecognizedLabels {
		if sdb.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Table reads the spreadsheet behind label.
func (sdb *SourceDB) Table(label SourceLabel) (*model.Table, error) {
	path, ok := sdb.Files[label]
	if !ok {
		return nil, &MissingSourceError{Label: label, Dir: sdb.Dir}
	}

	var (
		t   *model.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		t, err = readXLSX(string(label), path)
	default:
		t, err = readCSV(string(label), path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded table", zap.String("label", string(label)), zap.String("file", path),
		zap.Int("rows", len(t.Rows)), zap.Int("columns", len(t.Columns)))
	return t, nil
}

// LoadAll reads every discovered spreadsheet into a label -> table map.
func (sdb *SourceDB) LoadAll() (map[SourceLabel]*model.Table, error) {
	tables := make(map[SourceLabel]*model.Table, len(sdb.Files))
	for _, l := range sdb.Labels() {
		t, err := sdb.Table(l)
		if err != nil {
			return nil, err
		}
		tables[l] = t
	}
	return tables, nil
}

// LoadDir discovers and reads every spreadsheet of dir.
func LoadDir(dir string) (map[SourceLabel]*model.Table, error) {
	sdb, err := NewSourceDB(dir)
	if err != nil {
		return nil, err
	}
	return sdb.LoadAll()
}

// readXLSX reads the first sheet. The first row is the header. Raw cell values
// are used so number formats cannot round q-values.
func readXLSX(name, path string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.NewTable(name, nil), nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows for sheet %s of %s: %w", sheets[0], path, err)
	}
	return toTable(name, rows), nil
}

func readCSV(name, path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return toTable(name, rows), nil
}

func toTable(name string, rows [][]string) *model.Table {
	if len(rows) == 0 {
		return model.NewTable(name, nil)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := model.NewTable(name, header)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		t.AppendRow(row)
	}
	return t
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
