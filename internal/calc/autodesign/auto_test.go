package autodesign

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
		DeflectionLimit: 360,
		HeightFt:        12,
		BearingLength:   1.5,
		FastenerType:    cfss.EOF,
		BottomTrack:     "600T125-54",
		DeflectionTrack: "600T125-54",
	}
}

func TestSelectStud_WholeCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	res, err := SelectStud(c, Input{Input: wall()})
	require.NoError(t, err)
	require.NotEmpty(t, res.Stud)
	require.NotNil(t, res.Result.Checks)
	assert.True(t, res.Result.Checks.AllPass())

	// Everything tried before the winner really fails.
	keys := c.Designations()
	for i, r := range res.Rejected {
		assert.Equal(t, keys[i], r.Stud)
		in := wall()
		in.SteelStud = r.Stud
		got, err := cfss.Evaluate(c, in)
		require.NoError(t, err)
		if got.Checks != nil {
			assert.False(t, got.Checks.AllPass(), r.Stud)
		}
	}
	assert.Equal(t, keys[len(res.Rejected)], res.Stud)
}

func TestSelectStud_Candidates(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	res, err := SelectStud(c, Input{Input: wall(), Candidates: []string{"NOTREAL", "2x800S162-97"}})
	require.NoError(t, err)
	assert.Equal(t, "2x800S162-97", res.Stud)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "NOTREAL", res.Rejected[0].Stud)
	assert.Contains(t, res.Rejected[0].Reason, "not found")
}

func TestSelectStud_NothingFits(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	in := wall()
	in.WindloadULS = 500
	in.HeightFt = 30
	res, err := SelectStud(c, Input{Input: in})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAdequateStud))
	assert.Len(t, res.Rejected, len(c.Designations()))
	assert.Contains(t, res.Rejected[0].Reason, "fails")
}

func TestSelectStud_BadFastenerStops(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	in := wall()
	in.FastenerType = "NOPE"
	_, err = SelectStud(c, Input{Input: in})
	var inputErr *cfss.InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestHandler_Calc(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	h := &Handler{Catalog: c, Logger: zap.NewNop()}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"found", `{"windload_uls":20,"spacing":16,"bridging_spacing":48,"deflection_limit":360,"height_ft":12,"bearing_length":1.5,"fastener_type":"EOF","deflection_track":"600T125-54"}`, http.StatusOK},
		{"none", `{"windload_uls":500,"spacing":16,"bridging_spacing":48,"deflection_limit":360,"height_ft":30,"bearing_length":1.5,"fastener_type":"EOF","deflection_track":"600T125-54"}`, http.StatusUnprocessableEntity},
		{"invalid", `{"windload_uls":20,"spacing":16,"bridging_spacing":48,"deflection_limit":360,"height_ft":12,"bearing_length":1.5,"fastener_type":"SIDE","deflection_track":"600T125-54"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Calc(w, httptest.NewRequest(http.MethodPost, "/api/user/tools/cfss/autodesign", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
