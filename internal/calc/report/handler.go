package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"Framecheck/internal/calc/cfss"

	"go.uber.org/zap"
)

type request struct {
	Meta
	Input cfss.Input `json:"input"`
}

type Handler struct {
	Tables cfss.Tables
	Logger *zap.Logger
}

// Generate evaluates the posted wall and returns the report as a PDF.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Input.Normalize()
	if err := req.Input.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := cfss.Evaluate(h.Tables, req.Input)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cfss.ErrStudNotFound) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, req.Meta, req.Input, res); err != nil {
		h.Logger.Error("render report", zap.String("stud", req.Input.SteelStud), zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
