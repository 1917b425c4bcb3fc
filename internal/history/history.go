// Package history serves a user's saved wall calculations.
package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"Framecheck/internal/auth"
	"Framecheck/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handler struct {
	Store  repo.CalculationStore
	Logger *zap.Logger
}

type summary struct {
	ID        uuid.UUID `json:"id"`
	Project   string    `json:"project"`
	CreatedAt string    `json:"created_at"`
}

// List returns the caller's most recent calculations, newest first.
// ?full=1 includes the stored input and result.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	calcs, err := h.Store.ListCalculations(r.Context(), userID, limit)
	if err != nil {
		h.Logger.Error("list calculations", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("full") == "1" {
		json.NewEncoder(w).Encode(calcs)
		return
	}
	out := make([]summary, len(calcs))
	for i, c := range calcs {
		out[i] = summary{ID: c.ID, Project: c.Project, CreatedAt: c.CreatedAt.Format(time.RFC3339)}
	}
	json.NewEncoder(w).Encode(out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.Store.GetCalculation(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "calculation not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("get calculation", zap.Int("user_id", userID), zap.Stringer("id", id), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
