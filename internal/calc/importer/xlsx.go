package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"Framecheck/internal/calc/cfss"

	"github.com/xuri/excelize/v2"
)

// Columns is the header of an import sheet, in order.
var Columns = []string{
	"windload_uls", "spacing", "bridging_spacing", "deflection_limit",
	"height_ft", "height_in", "bearing_length", "fastener_type",
	"steel_stud", "bottom_track", "deflection_track",
}

// Wall is one parsed sheet row. Row is the 1-based row number in the sheet.
type Wall struct {
	Row   int
	Input cfss.Input
}

type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

// ReadWalls reads the first sheet: a header row, then one wall per row.
// Blank rows are skipped; rows that do not parse are reported and skipped.
func ReadWalls(r io.Reader) ([]Wall, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("empty sheet")
	}

	var walls []Wall
	var rowErrs []RowError
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		in, err := parseRow(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err.Error()})
			continue
		}
		walls = append(walls, Wall{Row: i + 1, Input: in})
	}
	return walls, rowErrs, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (cfss.Input, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	var in cfss.Input
	floats := []*float64{&in.WindloadULS, &in.Spacing, &in.BridgingSpacing}
	for i, dst := range floats {
		v, err := toFloat(Columns[i], cell(i))
		if err != nil {
			return cfss.Input{}, err
		}
		*dst = v
	}
	limit, err := strconv.Atoi(cell(3))
	if err != nil {
		return cfss.Input{}, fmt.Errorf("%s: %q is not an integer", Columns[3], cell(3))
	}
	in.DeflectionLimit = limit

	if in.HeightFt, err = toFloat(Columns[4], cell(4)); err != nil {
		return cfss.Input{}, err
	}
	if cell(5) != "" {
		if in.HeightIn, err = toFloat(Columns[5], cell(5)); err != nil {
			return cfss.Input{}, err
		}
	}
	if in.BearingLength, err = toFloat(Columns[6], cell(6)); err != nil {
		return cfss.Input{}, err
	}
	if in.FastenerType, err = cfss.ParseFastenerType(cell(7)); err != nil {
		return cfss.Input{}, err
	}
	in.SteelStud = cell(8)
	in.BottomTrack = cell(9)
	in.DeflectionTrack = cell(10)
	return in, in.Validate()
}

func toFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v, nil
}

// ResultRow pairs a source sheet row with its evaluation.
type ResultRow struct {
	Row    int          `json:"row"`
	Input  cfss.Input   `json:"input,omitzero"`
	Result *cfss.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

var resultHeader = []any{
	"row", "steel_stud", "deflection_track", "uls_load",
	"moment", "moment_ratio", "shear", "shear_ratio",
	"combined", "combined_ratio", "deflection", "deflection_L/n",
	"web_stiffener", "web_ratio", "track", "track_ratio", "error",
}

// WriteResults writes one row per wall to a new workbook.
func WriteResults(w io.Writer, rows []ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	if err := f.SetSheetRow(sheet, "A1", &resultHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(resultHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := resultValues(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func resultValues(r ResultRow) []any {
	values := make([]any, len(resultHeader))
	values[0] = r.Row
	values[1] = r.Input.SteelStud
	values[2] = r.Input.DeflectionTrack
	if r.Result == nil {
		values[len(values)-1] = r.Error
		return values
	}
	res := r.Result
	if res.Checks == nil {
		values[len(values)-1] = res.Error
		return values
	}
	c := res.Checks
	values[3] = cellNumber(res.Loads.ULSLoad)
	values[4], values[5] = string(c.Moment.Status), cellNumber(c.Moment.Ratio)
	values[6], values[7] = string(c.Shear.Status), cellNumber(c.Shear.Ratio)
	values[8], values[9] = string(c.Combined.Status), cellNumber(c.Combined.Ratio)
	values[10], values[11] = string(c.Deflection.Status), cellNumber(c.Deflection.AchievedLimit)
	values[12], values[13] = string(c.WebCrippling.Stiffener), cellNumber(c.WebCrippling.Ratio)
	values[14], values[15] = string(c.DeflectionTrack.Status), cellNumber(c.DeflectionTrack.Ratio)
	return values
}

// cellNumber writes non-finite values as text; xlsx has no Inf or NaN.
func cellNumber(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}
