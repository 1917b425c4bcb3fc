package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"Framecheck/internal/calc/cfss"

	"go.uber.org/zap"
)

type Handler struct {
	Tables  cfss.Tables
	Workers int
	Logger  *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) > MaxItems {
		http.Error(w, fmt.Sprintf("too many items: %d (max %d)", len(input.Items), MaxItems), http.StatusBadRequest)
		return
	}
	res, err := Evaluate(r.Context(), h.Tables, input.Items, h.Workers)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Logger.Info("batch evaluated",
		zap.Int("walls", len(res.Items)),
		zap.Int("passed", res.Passed),
		zap.Int("failed", res.Failed))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
