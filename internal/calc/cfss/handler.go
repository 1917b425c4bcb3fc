package cfss

import (
	"encoding/json"
	"errors"
	"net/http"

	"Framecheck/internal/auth"
	"Framecheck/internal/repo"

	"go.uber.org/zap"
)

// Catalog is a Tables that can also enumerate its studs.
type Catalog interface {
	Tables
	Designations() []string
}

type Handler struct {
	Catalog Catalog
	Store   repo.CalculationStore // nil disables saving
	Logger  *zap.Logger
}

type calcRequest struct {
	Input
	Project string `json:"project"`
	Save    bool   `json:"save"`
}

type calcResponse struct {
	Result
	ID string `json:"id,omitempty"`
}

type studEntry struct {
	Designation string `json:"designation"`
	StudProperties
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Input.Normalize()
	res, status, err := h.evaluate(req.Input)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	out := calcResponse{Result: res}
	if req.Save && h.Store != nil {
		if userID, ok := auth.UserID(r.Context()); ok {
			saved, err := h.save(r, userID, req.Project, req.Input, res)
			if err != nil {
				h.Logger.Error("save calculation", zap.Int("user_id", userID), zap.Error(err))
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
			out.ID = saved.ID.String()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// evaluate validates and runs one wall, mapping failures to HTTP statuses.
func (h *Handler) evaluate(in Input) (Result, int, error) {
	if err := in.Validate(); err != nil {
		return Result{}, http.StatusBadRequest, err
	}
	res, err := Evaluate(h.Catalog, in)
	if err != nil {
		if errors.Is(err, ErrStudNotFound) {
			h.Logger.Info("unknown stud", zap.String("stud", in.SteelStud))
			return Result{}, http.StatusUnprocessableEntity, err
		}
		return Result{}, http.StatusBadRequest, err
	}
	if res.Error != "" {
		h.Logger.Info("incomplete wall check", zap.String("stud", in.SteelStud), zap.String("reason", res.Error))
	} else {
		h.Logger.Debug("wall checked",
			zap.String("stud", in.SteelStud),
			zap.Bool("all_pass", res.Checks.AllPass()),
			zap.Float64("combined_ratio", res.Checks.Combined.Ratio))
	}
	return res, http.StatusOK, nil
}

func (h *Handler) save(r *http.Request, userID int, project string, in Input, res Result) (repo.Calculation, error) {
	input, err := json.Marshal(in)
	if err != nil {
		return repo.Calculation{}, err
	}
	result, err := json.Marshal(res)
	if err != nil {
		return repo.Calculation{}, err
	}
	return h.Store.SaveCalculation(r.Context(), repo.Calculation{
		UserID:  userID,
		Project: project,
		Input:   input,
		Result:  result,
	})
}

func (h *Handler) Studs(w http.ResponseWriter, r *http.Request) {
	keys := h.Catalog.Designations()
	out := make([]studEntry, 0, len(keys))
	for _, k := range keys {
		p, _ := h.Catalog.Stud(k)
		out = append(out, studEntry{Designation: k, StudProperties: p})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
