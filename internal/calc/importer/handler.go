package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"Framecheck/internal/calc/batch"
	"Framecheck/internal/calc/cfss"

	"go.uber.org/zap"
)

const maxUpload = 10 << 20

type Handler struct {
	Tables  cfss.Tables
	Workers int
	Logger  *zap.Logger
}

type response struct {
	Rows      []ResultRow `json:"rows"`
	RowErrors []RowError  `json:"row_errors,omitempty"`
	Passed    int         `json:"passed"`
	Failed    int         `json:"failed"`
}

// Import evaluates every wall of an uploaded workbook (form field "file").
// With ?format=xlsx the results come back as a workbook, otherwise as JSON.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	walls, rowErrs, err := ReadWalls(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, out, err := Run(r.Context(), h.Tables, walls, h.Workers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, re := range rowErrs {
		rows = append(rows, ResultRow{Row: re.Row, Error: re.Err})
	}
	h.Logger.Info("workbook imported",
		zap.Int("walls", len(walls)),
		zap.Int("bad_rows", len(rowErrs)),
		zap.Int("passed", out.Passed))

	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := WriteResults(&buf, rows); err != nil {
			h.Logger.Error("write workbook", zap.Error(err))
			http.Error(w, "could not build workbook", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="cfss-results.xlsx"`)
		w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{
		Rows:      rows,
		RowErrors: rowErrs,
		Passed:    out.Passed,
		Failed:    out.Failed,
	})
}

// Run evaluates parsed walls through the batch evaluator and pairs each
// result with its sheet row.
func Run(ctx context.Context, tables cfss.Tables, walls []Wall, workers int) ([]ResultRow, batch.Output, error) {
	if len(walls) == 0 {
		return nil, batch.Output{}, nil
	}
	inputs := make([]cfss.Input, len(walls))
	for i, wall := range walls {
		inputs[i] = wall.Input
	}
	out, err := batch.Evaluate(ctx, tables, inputs, workers)
	if err != nil {
		return nil, batch.Output{}, err
	}
	rows := make([]ResultRow, len(walls))
	for i, it := range out.Items {
		rows[i] = ResultRow{Row: walls[i].Row, Input: walls[i].Input, Result: it.Result, Error: it.Error}
	}
	return rows, out, nil
}
