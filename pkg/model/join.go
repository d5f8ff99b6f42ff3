package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/yumyai/goabund/logger"
	"go.uber.org/zap"
)

type JoinOptions struct {
	// QValueMax drops rows with q_value above it. Zero means DefaultQValueMax.
	QValueMax float64
}

// Join cleans the expression table and left-joins it against the GO table on
// the normalized gene identifier.
//
// Steps, in order: drop the name and significant columns, drop null or
// non-significant q_value rows, drop null or zero T1/T2 rows, normalize gene
// IDs, left join, then drop rows whose GO field is "0" or whose name is
// "---NA---". Duplicate genes in the GO table keep their first row.
func Join(expression, goTerms *Table, opts JoinOptions) (*JoinedTable, error) {
	if err := expression.Require(ColGene, ColT1, ColT2, ColQValue, ColSignificant); err != nil {
		return nil, err
	}
	if err := goTerms.Require(ColGene, ColGO); err != nil {
		return nil, err
	}

	qMax := opts.QValueMax
	if qMax == 0 {
		qMax = DefaultQValueMax
	}

	expr := expression.Drop(ColName, ColSignificant)
	stats := JoinStats{Input: len(expr.Rows)}

	var (
		geneIdx = expr.Index(ColGene)
		t1Idx   = expr.Index(ColT1)
		t2Idx   = expr.Index(ColT2)
		qIdx    = expr.Index(ColQValue)
	)

	// Filter and normalize.
	type cleanRow struct {
		cells  []string
		t1, t2 float64
		q      float64
	}
	clean := make([]cleanRow, 0, len(expr.Rows))

	for i, row := range expr.Rows {
		q, ok, err := parseNumber(expr.Name, i, ColQValue, row[qIdx])
		if err != nil {
			return nil, err
		}
		if !ok {
			stats.NullQValue++
			continue
		}
		if q > qMax {
			stats.AboveThreshold++
			continue
		}

		t1, ok1, err := parseNumber(expr.Name, i, ColT1, row[t1Idx])
		if err != nil {
			return nil, err
		}
		t2, ok2, err := parseNumber(expr.Name, i, ColT2, row[t2Idx])
		if err != nil {
			return nil, err
		}
		if !ok1 || !ok2 {
			stats.NullAbundance++
			continue
		}
		if t1 == 0 || t2 == 0 {
			stats.ZeroAbundance++
			continue
		}

		cells := append([]string(nil), row...)
		cells[geneIdx] = NormalizeGeneID(cells[geneIdx])
		clean = append(clean, cleanRow{cells: cells, t1: t1, t2: t2, q: q})
	}

	// Index the GO table by exact gene, first row wins.
	goGene := goTerms.Index(ColGene)
	goIndex := make(map[string]int, len(goTerms.Rows))
	for i, row := range goTerms.Rows {
		if _, seen := goIndex[row[goGene]]; seen {
			stats.DuplicateGOGenes++
			continue
		}
		goIndex[row[goGene]] = i
	}
	if stats.DuplicateGOGenes > 0 {
		logger.Warn("Duplicate genes in GO table, keeping first occurrence",
			zap.String("table", goTerms.Name), zap.Int("duplicates", stats.DuplicateGOGenes))
	}

	columns, rightCols := joinColumns(expr.Columns, goTerms.Columns)
	joined := &JoinedTable{Table: &Table{Name: "joined_expression", Columns: columns}}

	goCol := goTerms.Index(ColGO)
	nameCol := goTerms.Index(ColName)
	if nameCol < 0 {
		nameCol = goTerms.Index(ColDescription)
	}

	for _, r := range clean {
		gene := r.cells[geneIdx]
		right := make([]string, len(rightCols))

		goRow, matched := goIndex[gene]
		if matched {
			src := goTerms.Rows[goRow]
			for j, c := range rightCols {
				right[j] = src[c]
			}
		} else {
			stats.Unmatched++
		}

		rec := JoinedRecord{Gene: gene, T1: r.t1, T2: r.t2, QValue: r.q}
		if matched {
			goField := goTerms.Rows[goRow][goCol]
			// Unannotated and unnamed genes.
			if strings.TrimSpace(goField) == NoGOSentinel {
				stats.GOSentinel++
				continue
			}
			if nameCol >= 0 && strings.TrimSpace(goTerms.Rows[goRow][nameCol]) == NoNameSentinel {
				stats.NameSentinel++
				continue
			}
			if !isNull(goField) {
				rec.GO = goField
				rec.HasGO = true
			}
		}

		rec.Row = len(joined.Rows)
		joined.Rows = append(joined.Rows, append(r.cells, right...))
		joined.Records = append(joined.Records, rec)
	}

	stats.Output = len(joined.Rows)
	joined.Stats = stats

	logger.Debug("Joined expression with GO terms",
		zap.String("expression", expression.Name),
		zap.Int("input", stats.Input),
		zap.Int("null_q_value", stats.NullQValue),
		zap.Int("above_threshold", stats.AboveThreshold),
		zap.Int("null_abundance", stats.NullAbundance),
		zap.Int("zero_abundance", stats.ZeroAbundance),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("go_sentinel", stats.GOSentinel),
		zap.Int("name_sentinel", stats.NameSentinel),
		zap.Int("output", stats.Output),
	)

	return joined, nil
}

// joinColumns builds the output header: left columns, then every right column
// except gene. Names present on both sides get _x / _y suffixes. The second
// return value holds the right-table indexes in output order.
func joinColumns(left, right []string) ([]string, []int) {
	leftSet := make(map[string]bool, len(left))
	for _, c := range left {
		leftSet[c] = true
	}
	rightSet := make(map[string]bool, len(right))
	for _, c := range right {
		if c != ColGene {
			rightSet[c] = true
		}
	}

	columns := make([]string, 0, len(left)+len(right))
	for _, c := range left {
		if c != ColGene && rightSet[c] {
			c += "_x"
		}
		columns = append(columns, c)
	}

	var rightIdx []int
	for i, c := range right {
		if c == ColGene {
			continue
		}
		if leftSet[c] {
			c += "_y"
		}
		columns = append(columns, c)
		rightIdx = append(rightIdx, i)
	}
	return columns, rightIdx
}

// parseNumber reads a numeric cell. ok is false for nulls.
func parseNumber(table string, row int, column, value string) (float64, bool, error) {
	if isNull(value) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false, &InvalidValueError{Table: table, Row: row, Column: column, Value: value}
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}
