package model

// Table is an in-memory snapshot of one spreadsheet: a header row and string
// cells. Every row has exactly len(Columns) cells; an empty cell is a null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// AppendRow pads or truncates row to the table width.
func (t *Table) AppendRow(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// Index returns the position of column or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Require fails with a MissingColumnError on the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return &MissingColumnError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// Drop returns a copy of t without the named columns. Absent names are ignored.
func (t *Table) Drop(columns ...string) *Table {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}

	var keep []int
	out := &Table{Name: t.Name}
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			out.Columns = append(out.Columns, c)
		}
	}

	out.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			cells[j] = row[i]
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// JoinedRecord is the typed view of one joined row. Row indexes JoinedTable.Rows.
type JoinedRecord struct {
	Row    int
	Gene   string
	T1     float64
	T2     float64
	QValue float64
	GO     string
	HasGO  bool
}

// JoinedTable carries the full post-join column set for export next to the
// typed records the aggregator consumes. Records[i] describes Rows[i].
type JoinedTable struct {
	*Table
	Records []JoinedRecord
	Stats   JoinStats
}

// JoinStats counts rows removed by each filtering step.
type JoinStats struct {
	Input            int `json:"input"`
	NullQValue       int `json:"null_q_value"`
	AboveThreshold   int `json:"above_threshold"`
	NullAbundance    int `json:"null_abundance"`
	ZeroAbundance    int `json:"zero_abundance"`
	Unmatched        int `json:"unmatched"`
	GOSentinel       int `json:"go_sentinel"`
	NameSentinel     int `json:"name_sentinel"`
	DuplicateGOGenes int `json:"duplicate_go_genes"`
	Output           int `json:"output"`
}

// Abundance is one row of the GO abundance summary.
type Abundance struct {
	Phase       Phase
	Domain      Domain
	Description string
	Abundance   float64
}

// Summary holds abundances grouped by (domain, phase) in C, P, F / I, II order,
// and first-seen description order inside each group.
type Summary struct {
	Records []Abundance
}

// Lookup returns the summed abundance for one key.
func (s *Summary) Lookup(domain Domain, phase Phase, description string) (float64, bool) {
	for _, r := range s.Records {
		if r.Domain == domain && r.Phase == phase && r.Description == description {
			return r.Abundance, true
		}
	}
	return 0, false
}

// Select returns the records of one (domain, phase) group in summary order.
func (s *Summary) Select(domain Domain, phase Phase) []Abundance {
	var out []Abundance
	for _, r := range s.Records {
		if r.Domain == domain && r.Phase == phase {
			out = append(out, r)
		}
	}
	return out
}
