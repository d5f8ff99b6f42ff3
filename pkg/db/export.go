package db

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/yumyai/goabund/internal/util"
	"github.com/yumyai/goabund/pkg/model"
)

// Output file names, relative to the dataset output directory.
const (
	JoinedCSVName  = "joined_expression_df.csv"
	SummaryCSVName = "summary_go_abundances.csv"
)

var summaryHeader = []string{"phase", "domain", "description", "abundance"}

// WriteTableCSV writes t with its header to path, atomically.
func WriteTableCSV(path string, t *model.Table) error {
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

// WriteSummaryCSV writes the GO abundance summary as phase,domain,description,abundance.
func WriteSummaryCSV(path string, s *model.Summary) error {
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(summaryHeader); err != nil {
			return err
		}
		for _, r := range s.Records {
			rec := []string{
				string(r.Phase),
				string(r.Domain),
				r.Description,
				strconv.FormatFloat(r.Abundance, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}
