package model

import (
	"errors"
	"reflect"
	"testing"
)

func table(name string, columns []string, rows ...[]string) *Table {
	t := NewTable(name, columns)
	for _, r := range rows {
		t.AppendRow(r)
	}
	return t
}

func sampleExpression() *Table {
	return table("expression_phase_I_vs_phase_II",
		[]string{"gene", "name", "T1", "T2", "q_value", "significant"},
		[]string{"AT1G001.1", "psbA", "10", "20", "0.01", "yes"},
		[]string{"AT1G002.2", "lhcb", "5", "5", "0.02", "yes"},
		[]string{"AT1G003.1", "", "3", "4", "0.2", "no"},
		[]string{"AT1G004.1", "", "3", "4", "", "no"},
		[]string{"AT1G005.1", "", "0", "4", "0.01", "yes"},
		[]string{"AT1G006.1", "", "", "4", "0.01", "yes"},
		[]string{"AT1G007.1", "", "7", "8", "0.03", "yes"},
		[]string{"AT1G008.1", "", "7", "8", "0.03", "yes"},
		[]string{"AT1G009.1", "", "2", "3", "0.04", "yes"},
	)
}

func sampleGOTerms() *Table {
	return table("GO_term_keys",
		[]string{"gene", "name", "GO"},
		[]string{"AT1G001", "PSBA", "C:chloroplast stroma;P:photosynthesis"},
		[]string{"AT1G002", "LHCB", "C:chloroplast stroma"},
		[]string{"AT1G007", "X", "0"},
		[]string{"AT1G008", "---NA---", "C:nucleus"},
		[]string{"AT1G001", "DUP", "F:should not win"},
	)
}

func TestJoin(t *testing.T) {
	joined, err := Join(sampleExpression(), sampleGOTerms(), JoinOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantColumns := []string{"gene", "T1", "T2", "q_value", "name", "GO"}
	if !reflect.DeepEqual(joined.Columns, wantColumns) {
		t.Fatalf("columns = %v, want %v", joined.Columns, wantColumns)
	}

	wantRows := [][]string{
		{"AT1G001", "10", "20", "0.01", "PSBA", "C:chloroplast stroma;P:photosynthesis"},
		{"AT1G002", "5", "5", "0.02", "LHCB", "C:chloroplast stroma"},
		{"AT1G009", "2", "3", "0.04", "", ""},
	}
	if !reflect.DeepEqual(joined.Rows, wantRows) {
		t.Fatalf("rows = %v, want %v", joined.Rows, wantRows)
	}

	if len(joined.Records) != len(joined.Rows) {
		t.Fatalf("expected one record per row, got %d records", len(joined.Records))
	}
	if rec := joined.Records[2]; rec.HasGO || rec.Row != 2 || rec.Gene != "AT1G009" {
		t.Errorf("unexpected unmatched record: %+v", rec)
	}

	wantStats := JoinStats{
		Input:            9,
		NullQValue:       1,
		AboveThreshold:   1,
		NullAbundance:    1,
		ZeroAbundance:    1,
		Unmatched:        1,
		GOSentinel:       1,
		NameSentinel:     1,
		DuplicateGOGenes: 1,
		Output:           3,
	}
	if joined.Stats != wantStats {
		t.Errorf("stats = %+v, want %+v", joined.Stats, wantStats)
	}
}

func TestJoinFilterInvariants(t *testing.T) {
	joined, err := Join(sampleExpression(), sampleGOTerms(), JoinOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rec := range joined.Records {
		if rec.QValue > DefaultQValueMax {
			t.Errorf("row %d: q_value %v above threshold", rec.Row, rec.QValue)
		}
		if rec.T1 == 0 || rec.T2 == 0 {
			t.Errorf("row %d: zero abundance survived: %+v", rec.Row, rec)
		}
		if NormalizeGeneID(rec.Gene) != rec.Gene {
			t.Errorf("row %d: gene %q not normalized", rec.Row, rec.Gene)
		}
	}
}

func TestJoinCustomThreshold(t *testing.T) {
	joined, err := Join(sampleExpression(), sampleGOTerms(), JoinOptions{QValueMax: 0.015})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only AT1G001 (q=0.01) passes; AT1G005/AT1G006 fail on abundance.
	if len(joined.Rows) != 1 || joined.Records[0].Gene != "AT1G001" {
		t.Errorf("expected only AT1G001, got %v", joined.Rows)
	}
}

func TestJoinMissingColumns(t *testing.T) {
	tests := []struct {
		name       string
		expression *Table
		goTerms    *Table
		column     string
	}{
		{
			name:       "ExpressionGene",
			expression: table("expr", []string{"T1", "T2", "q_value", "significant"}),
			goTerms:    sampleGOTerms(),
			column:     "gene",
		},
		{
			name:       "ExpressionSignificant",
			expression: table("expr", []string{"gene", "T1", "T2", "q_value"}),
			goTerms:    sampleGOTerms(),
			column:     "significant",
		},
		{
			name:       "GOGene",
			expression: sampleExpression(),
			goTerms:    table("go", []string{"GO"}),
			column:     "gene",
		},
		{
			name:       "GOColumn",
			expression: sampleExpression(),
			goTerms:    table("go", []string{"gene", "name"}),
			column:     "GO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Join(tt.expression, tt.goTerms, JoinOptions{})
			var colErr *MissingColumnError
			if !errors.As(err, &colErr) {
				t.Fatalf("expected MissingColumnError, got %v", err)
			}
			if colErr.Column != tt.column {
				t.Errorf("missing column = %q, want %q", colErr.Column, tt.column)
			}
		})
	}
}

func TestJoinInvalidNumber(t *testing.T) {
	expr := table("expr", []string{"gene", "T1", "T2", "q_value", "significant"},
		[]string{"AT1G001.1", "ten", "20", "0.01", "yes"},
	)
	_, err := Join(expr, sampleGOTerms(), JoinOptions{})

	var valErr *InvalidValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	if valErr.Column != "T1" || valErr.Row != 0 || valErr.Value != "ten" {
		t.Errorf("unexpected error fields: %+v", valErr)
	}
}

func TestJoinColumnCollision(t *testing.T) {
	expr := table("expr", []string{"gene", "T1", "T2", "q_value", "significant", "description"},
		[]string{"AT1G001.1", "1", "2", "0.01", "yes", "left"},
	)
	goTerms := table("go", []string{"gene", "GO", "description"},
		[]string{"AT1G001", "C:nucleus", "right"},
	)

	joined, err := Join(expr, goTerms, JoinOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"gene", "T1", "T2", "q_value", "description_x", "GO", "description_y"}
	if !reflect.DeepEqual(joined.Columns, want) {
		t.Errorf("columns = %v, want %v", joined.Columns, want)
	}
}

func TestJoinWithoutNameColumn(t *testing.T) {
	goTerms := table("go", []string{"gene", "GO"},
		[]string{"AT1G001", "C:chloroplast stroma"},
	)
	joined, err := Join(sampleExpression(), goTerms, JoinOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 5 rows survive filtering; all are kept since no sentinel can match.
	if joined.Stats.Output != 5 {
		t.Errorf("expected 5 output rows, got %d", joined.Stats.Output)
	}
}
