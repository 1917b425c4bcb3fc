package catalog

import (
	"strings"
	"testing"

	"Framecheck/internal/calc/cfss"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Version())

	p, ok := c.Stud("600S162-54")
	require.True(t, ok)
	assert.Greater(t, p.MrxDB, p.MrxUL)

	_, ok = c.Stud("NOTREAL")
	assert.False(t, ok)

	co, ok := c.Crippling(3.625, 33)
	require.True(t, ok)
	assert.Greater(t, co.HtRatio, 0.0)
}

func TestDefault_EveryStudHasCripplingData(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	for _, key := range c.Designations() {
		d, err := cfss.ParseStud(key)
		require.NoError(t, err)
		_, ok := c.Crippling(d.DepthIn, d.ThicknessMil)
		assert.True(t, ok, "no crippling data for %s", key)
	}
}

func TestDefault_DoubledEntries(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	single, ok := c.Stud("600S162-54")
	require.True(t, ok)
	doubled, ok := c.Stud("2x600S162-54")
	require.True(t, ok)
	assert.InDelta(t, 2*single.MrxDB, doubled.MrxDB, 0.01)
	assert.InDelta(t, 2*single.Ixd, doubled.Ixd, 0.01)
}

func TestDesignations_Order(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	keys := c.Designations()
	require.NotEmpty(t, keys)
	assert.Equal(t, "250S125-18", keys[0])

	seenDoubled := false
	prev := cfss.StudDesignation{}
	for _, k := range keys {
		d, err := cfss.ParseStud(k)
		require.NoError(t, err)
		if seenDoubled {
			assert.True(t, d.Doubled, "single stud %s after doubled ones", k)
		}
		if d.Doubled == prev.Doubled {
			assert.GreaterOrEqual(t, d.DepthIn, prev.DepthIn)
		}
		seenDoubled = seenDoubled || d.Doubled
		prev = d
	}
}

func TestEvaluateWithDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	res, err := cfss.Evaluate(c, cfss.Input{
		WindloadULS:     20,
		Spacing:         16,
		BridgingSpacing: 48,
		DeflectionLimit: 240,
		HeightFt:        10,
		BearingLength:   1.5,
		FastenerType:    cfss.EOF,
		SteelStud:       "600S162-54",
		BottomTrack:     "600T125-54",
		DeflectionTrack: "600T125-54",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Checks)
	assert.Equal(t, 15.0, res.Loads.WindloadSLS)
	assert.InDelta(t, 37.33, res.Loads.ULSLoad, 0.01)
	assert.Equal(t, 458.0, res.Checks.DeflectionTrack.Capacity)
	for _, s := range []cfss.Status{
		res.Checks.Moment.Status,
		res.Checks.Shear.Status,
		res.Checks.Combined.Status,
		res.Checks.Deflection.Status,
		res.Checks.DeflectionTrack.Status,
	} {
		assert.Contains(t, []cfss.Status{cfss.Pass, cfss.Fail}, s)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not yaml", "studs: [", "decode catalog"},
		{"no studs", "version: x\n", "no studs"},
		{"bad designation", "studs:\n  BOGUS: {lu: 1, mrx_ul: 1, mrx_db: 1, vrn: 1, ixd: 1}\n", "catalog stud"},
		{"zero property", "studs:\n  600S162-54: {lu: 1, mrx_ul: 0, mrx_db: 1, vrn: 1, ixd: 1}\n", "must be positive"},
		{"duplicate crippling", `studs:
  600S162-54: {lu: 1, mrx_ul: 1, mrx_db: 1, vrn: 1, ixd: 1}
crippling:
  - {depth: 6, thickness_mil: 54, ht_ratio: 100}
  - {depth: 6, thickness_mil: 54, ht_ratio: 100}
`, "listed twice"},
		{"duplicate after normalizing", `studs:
  600S162-54: {lu: 1, mrx_ul: 1, mrx_db: 1, vrn: 1, ixd: 1}
  600s162-54: {lu: 1, mrx_ul: 1, mrx_db: 1, vrn: 1, ixd: 1}
`, "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Custom(t *testing.T) {
	c, err := Load(strings.NewReader(`version: test
studs:
  "362S162-33": {lu: 59.4, mrx_ul: 6.78, mrx_db: 8.69, vrn: 1.645, ixd: 0.552}
crippling:
  - depth: 3.625
    thickness_mil: 33
    ht_ratio: 92.8
    eof: {p1: 100, p2: 10}
`))
	require.NoError(t, err)
	assert.Equal(t, "test", c.Version())
	co, ok := c.Crippling(3.625, 33)
	require.True(t, ok)
	assert.Equal(t, cfss.Pair{P1: 100, P2: 10}, co.EOF)
	assert.Equal(t, []string{"362S162-33"}, c.Designations())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("does-not-exist.yaml")
	assert.Error(t, err)
}
