// Package dataset reads observation series from delimited text files.
//
// A file holds one record per line with a time column and a value column:
//
//	time,value
//	1,2.5
//	2,3.1
//
// Only the value column feeds the trendline; the time column is carried as-is for reports.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/preprocessing"
)

// Options は区切りファイルの読み込み設定
type Options struct {
	// Separator はフィールドの区切り文字
	Separator rune
	// HasHeader が true の場合、先頭行を読み飛ばす
	HasHeader bool
	// ValueColumn は数値列の0始まりのインデックス
	ValueColumn int
	// TimeColumn は時刻列の0始まりのインデックス。NoTimeColumn なら時刻列なし
	TimeColumn int
}

// NoTimeColumn marks a file without a time column. Times are then the
// 1-based record numbers.
const NoTimeColumn = -1

// DefaultOptions returns the time,value layout with a header line.
func DefaultOptions() Options {
	return Options{
		Separator:   ',',
		HasHeader:   true,
		ValueColumn: 1,
		TimeColumn:  0,
	}
}

// Series is an ordered sequence of observations.
type Series struct {
	Times  []string
	Values []float64
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Rounded returns a copy whose values are rounded to the nearest integer.
func (s *Series) Rounded() *Series {
	times := make([]string, len(s.Times))
	copy(times, s.Times)
	return &Series{
		Times:  times,
		Values: preprocessing.Round(s.Values),
	}
}

// Load opens path and reads it with Read.
func Load(path string, opts Options) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	s, err := Read(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: load %s", path)
	}
	return s, nil
}

// Read parses delimited records from r.
func Read(r io.Reader, opts Options) (*Series, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	need := opts.ValueColumn
	if opts.TimeColumn > need {
		need = opts.TimeColumn
	}

	s := &Series{}
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "dataset.Read")
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if opts.HasHeader {
				continue
			}
		}
		// 空行は csv.Reader が読み飛ばすが、空白だけの行はここで除外
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) <= need {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.Read line %d", line), need+1, len(record))
		}

		raw := strings.TrimSpace(record[opts.ValueColumn])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.NewValueError("dataset.Read",
				fmt.Sprintf("line %d: cannot parse %q as a number", line, raw))
		}
		s.Values = append(s.Values, v)

		if opts.TimeColumn != NoTimeColumn {
			s.Times = append(s.Times, strings.TrimSpace(record[opts.TimeColumn]))
		} else {
			s.Times = append(s.Times, strconv.Itoa(len(s.Values)))
		}
	}

	if len(s.Values) == 0 {
		return nil, errors.NewEmptySeriesError("dataset.Read")
	}
	return s, nil
}

func (o Options) validate() error {
	if o.Separator == 0 || o.Separator == utf8.RuneError || o.Separator == '"' ||
		o.Separator == '\r' || o.Separator == '\n' {
		return errors.NewValidationError("Separator", "must be a single printable delimiter", string(o.Separator))
	}
	if o.ValueColumn < 0 {
		return errors.NewValidationError("ValueColumn", "must be non-negative", o.ValueColumn)
	}
	if o.TimeColumn < NoTimeColumn {
		return errors.NewValidationError("TimeColumn", "must be non-negative or NoTimeColumn (-1)", o.TimeColumn)
	}
	if o.TimeColumn == o.ValueColumn {
		return errors.NewValidationError("TimeColumn", "must differ from ValueColumn", o.TimeColumn)
	}
	return nil
}
