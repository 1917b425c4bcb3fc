package autodesign

import (
	"encoding/json"
	"errors"
	"net/http"

	"Framecheck/internal/calc/cfss"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog cfss.Catalog
	Logger  *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	input.Normalize()
	// The stud is what we are solving for.
	wall := input.Input
	wall.SteelStud = "auto"
	if err := wall.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := SelectStud(h.Catalog, input)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		if !errors.Is(err, ErrNoAdequateStud) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Logger.Info("autodesign found no stud", zap.Int("rejected", len(res.Rejected)))
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(res)
}
