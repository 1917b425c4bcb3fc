package cfss

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"Framecheck/internal/auth"
	"Framecheck/internal/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (m memTables) Designations() []string {
	keys := make([]string, 0, len(m.studs))
	for k := range m.studs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type memCalculations struct {
	saved []repo.Calculation
}

func (m *memCalculations) SaveCalculation(_ context.Context, c repo.Calculation) (repo.Calculation, error) {
	c.ID = uuid.New()
	m.saved = append(m.saved, c)
	return c, nil
}

func (m *memCalculations) ListCalculations(context.Context, int, int) ([]repo.Calculation, error) {
	return m.saved, nil
}

func (m *memCalculations) GetCalculation(context.Context, int, uuid.UUID) (repo.Calculation, error) {
	return repo.Calculation{}, repo.ErrNotFound
}

const scenarioJSON = `{"windload_uls":20,"spacing":16,"bridging_spacing":48,"deflection_limit":240,
"height_ft":10,"height_in":0,"bearing_length":1.5,"fastener_type":"EOF","steel_stud":"600S162-54",
"bottom_track":"600T125-54","deflection_track":"600T125-54"}`

func withField(body, field string) string {
	return strings.Replace(body, "{", "{"+field+",", 1)
}

func TestHandler_Calc(t *testing.T) {
	h := &Handler{Catalog: testTables(), Logger: zap.NewNop()}

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "scenario",
			body:   scenarioJSON,
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				checks := body["checks"].(map[string]any)
				assert.Len(t, checks, 6)
				assert.Equal(t, "PASS", checks["moment"].(map[string]any)["status"])
				assert.Equal(t, "NO", checks["web_crippling"].(map[string]any)["stiffener"])
				assert.Equal(t, 458.0, checks["deflection_track"].(map[string]any)["capacity"])
				assert.NotContains(t, body, "id")
			},
		},
		{
			name:   "lower case fastener",
			body:   strings.Replace(scenarioJSON, `"EOF"`, `"eof"`, 1),
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "EOF", body["inputs"].(map[string]any)["fastener_type"])
				assert.Contains(t, body, "checks")
			},
		},
		{
			name:   "unknown stud",
			body:   strings.Replace(scenarioJSON, "600S162-54", "NOTREAL", 1),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "missing crippling data",
			body:   strings.Replace(scenarioJSON, "600S162-54", "800S162-54", 1),
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body["error"], "depth 8")
				assert.NotContains(t, body, "checks")
			},
		},
		{
			name:   "invalid input",
			body:   strings.Replace(scenarioJSON, `"spacing":16`, `"spacing":0`, 1),
			status: http.StatusBadRequest,
		},
		{
			name:   "bad json",
			body:   `{"spacing":`,
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/user/tools/cfss/calc", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Calc(w, req)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				tt.check(t, body)
			}
		})
	}
}

func TestHandler_CalcSaves(t *testing.T) {
	store := &memCalculations{}
	h := &Handler{Catalog: testTables(), Store: store, Logger: zap.NewNop()}

	body := withField(scenarioJSON, `"save":true,"project":"Warehouse A"`)
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/cfss/calc", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), 9))
	w := httptest.NewRecorder()
	h.Calc(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, 9, saved.UserID)
	assert.Equal(t, "Warehouse A", saved.Project)
	assert.Contains(t, string(saved.Input), `"steel_stud":"600S162-54"`)
	assert.Contains(t, string(saved.Result), `"checks"`)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, saved.ID.String(), resp["id"])
}

func TestHandler_CalcWithoutUserDoesNotSave(t *testing.T) {
	store := &memCalculations{}
	h := &Handler{Catalog: testTables(), Store: store, Logger: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(withField(scenarioJSON, `"save":true`)))
	w := httptest.NewRecorder()
	h.Calc(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.saved)
}

func TestHandler_Studs(t *testing.T) {
	h := &Handler{Catalog: testTables(), Logger: zap.NewNop()}
	w := httptest.NewRecorder()
	h.Studs(w, httptest.NewRequest(http.MethodGet, "/api/user/tools/cfss/studs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, "2x600S162-54", out[0]["designation"])
	assert.Equal(t, 82.42, out[0]["mrx_db"])
}
