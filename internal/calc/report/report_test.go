package report

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Framecheck/internal/calc/cfss"
	"Framecheck/internal/calc/cfss/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func wall() cfss.Input {
	return cfss.Input{
		WindloadULS:     20,
		Spacing:         16,
		BridgingSpacing: 48,
		DeflectionLimit: 240,
		HeightFt:        10,
		BearingLength:   1.5,
		FastenerType:    cfss.EOF,
		SteelStud:       "600S162-54",
		BottomTrack:     "600T125-54",
		DeflectionTrack: "600T125-54 TROUÉE",
	}
}

func TestWrite(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	res, err := cfss.Evaluate(c, wall())
	require.NoError(t, err)

	var buf bytes.Buffer
	meta := Meta{Project: "Warehouse A", Author: "J. Doe", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, Write(&buf, meta, wall(), res))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWrite_Incomplete(t *testing.T) {
	res := cfss.Result{Error: "no web crippling data for depth 8 in, thickness 54 mil"}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Meta{Notes: "draft"}, wall(), res))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1.235", num(1.23456, 3))
	assert.Equal(t, "n/a", num(math.Inf(1), 2))
	assert.Equal(t, "n/a", num(math.NaN(), 2))
}

func TestHandler_Generate(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	h := &Handler{Tables: c, Logger: zap.NewNop()}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{
			name: "ok",
			body: `{"project":"P1","input":{"windload_uls":20,"spacing":16,"bridging_spacing":48,"deflection_limit":240,
"height_ft":10,"bearing_length":1.5,"fastener_type":"EOF","steel_stud":"600S162-54",
"bottom_track":"600T125-54","deflection_track":"600T125-54"}}`,
			status: http.StatusOK,
		},
		{
			name: "unknown stud",
			body: `{"input":{"windload_uls":20,"spacing":16,"bridging_spacing":48,"deflection_limit":240,
"height_ft":10,"bearing_length":1.5,"fastener_type":"EOF","steel_stud":"NOTREAL",
"bottom_track":"600T125-54","deflection_track":"600T125-54"}}`,
			status: http.StatusUnprocessableEntity,
		},
		{name: "invalid", body: `{"input":{}}`, status: http.StatusBadRequest},
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Generate(w, httptest.NewRequest(http.MethodPost, "/api/user/tools/cfss/report/pdf", strings.NewReader(tt.body)))
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
				assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
			}
		})
	}
}
