package cfss

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

type FastenerType string

const (
	EOF FastenerType = "EOF"
	IOF FastenerType = "IOF"
	ETF FastenerType = "ETF"
	ITF FastenerType = "ITF"
)

func ParseFastenerType(s string) (FastenerType, error) {
	f := FastenerType(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown fastener type %q", s)
	}
	return f, nil
}

func (f FastenerType) Valid() bool {
	switch f {
	case EOF, IOF, ETF, ITF:
		return true
	}
	return false
}

type Input struct {
	WindloadULS     float64      `json:"windload_uls" yaml:"windload_uls"`         // psf, factored
	Spacing         float64      `json:"spacing" yaml:"spacing"`                   // in
	BridgingSpacing float64      `json:"bridging_spacing" yaml:"bridging_spacing"` // in
	DeflectionLimit int          `json:"deflection_limit" yaml:"deflection_limit"` // L/x
	HeightFt        float64      `json:"height_ft" yaml:"height_ft"`
	HeightIn        float64      `json:"height_in" yaml:"height_in"`
	BearingLength   float64      `json:"bearing_length" yaml:"bearing_length"` // in
	FastenerType    FastenerType `json:"fastener_type" yaml:"fastener_type"`
	SteelStud       string       `json:"steel_stud" yaml:"steel_stud"`
	BottomTrack     string       `json:"bottom_track" yaml:"bottom_track"`
	DeflectionTrack string       `json:"deflection_track" yaml:"deflection_track"`
}

// InputError reports a wall input that is outside its domain.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalize accepts a fastener type in any case. Unknown values are left for
// Validate to reject.
func (in *Input) Normalize() {
	if f, err := ParseFastenerType(string(in.FastenerType)); err == nil {
		in.FastenerType = f
	}
}

// Validate checks the caller-supplied constraints. Evaluate does not call it.
// A zero height is accepted and evaluates to degenerate deflection values.
func (in Input) Validate() error {
	positive := []struct {
		field string
		v     float64
	}{
		{"windload_uls", in.WindloadULS},
		{"spacing", in.Spacing},
		{"bridging_spacing", in.BridgingSpacing},
		{"bearing_length", in.BearingLength},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return &InputError{Field: p.field, Message: "must be a positive number"}
		}
	}
	if in.DeflectionLimit <= 0 {
		return &InputError{Field: "deflection_limit", Message: "must be a positive integer"}
	}
	if in.HeightFt < 0 || in.HeightIn < 0 || math.IsNaN(in.HeightFt) || math.IsNaN(in.HeightIn) {
		return &InputError{Field: "height", Message: "feet and inches must not be negative"}
	}
	if !in.FastenerType.Valid() {
		return &InputError{Field: "fastener_type", Message: fmt.Sprintf("%q is not one of EOF, IOF, ETF, ITF", in.FastenerType)}
	}
	if strings.TrimSpace(in.SteelStud) == "" {
		return &InputError{Field: "steel_stud", Message: "required"}
	}
	if strings.TrimSpace(in.DeflectionTrack) == "" {
		return &InputError{Field: "deflection_track", Message: "required"}
	}
	return nil
}

var ErrStudNotFound = errors.New("stud not found")

// StudNotFoundError is fatal: without section properties no check can run.
type StudNotFoundError struct {
	Designation string
}

func (e *StudNotFoundError) Error() string {
	return fmt.Sprintf("stud %q not found in stud table", e.Designation)
}

func (e *StudNotFoundError) Unwrap() error { return ErrStudNotFound }

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

func statusOf(ok bool) Status {
	if ok {
		return Pass
	}
	return Fail
}

type Stiffener string

const (
	StiffenerYes Stiffener = "YES"
	StiffenerNo  Stiffener = "NO"
)

// Loads are the quantities derived from the inputs before any check runs.
type Loads struct {
	WindloadSLS float64 `json:"windload_sls"` // psf
	HeightTotal float64 `json:"height_total"` // ft
	ULSLoad     float64 `json:"uls_load"`     // lb/ft
	SLSLoad     float64 `json:"sls_load"`     // lb/ft
}

type Check struct {
	Status    Status  `json:"status"`
	Required  float64 `json:"required"`
	Allowable float64 `json:"allowable"`
	Ratio     float64 `json:"ratio"`
}

type DeflectionCheck struct {
	Check
	// AchievedLimit is n in L/n for the computed deflection.
	AchievedLimit float64 `json:"achieved_limit"`
}

type WebCripplingCheck struct {
	Stiffener     Stiffener `json:"stiffener"`
	Reaction      float64   `json:"reaction"`       // lb
	Capacity      float64   `json:"capacity"`       // lb
	BearingLength float64   `json:"bearing_length"` // in, after clamping
	WebHeight     float64   `json:"web_height"`     // in
	Ratio         float64   `json:"ratio"`
}

type TrackCheck struct {
	Status   Status  `json:"status"`
	Load     float64 `json:"load"`     // lb, service level
	Capacity float64 `json:"capacity"` // lb
	Ratio    float64 `json:"ratio"`
}

type Checks struct {
	Moment          Check             `json:"moment"`
	Shear           Check             `json:"shear"`
	Combined        Check             `json:"combined"`
	Deflection      DeflectionCheck   `json:"deflection"`
	WebCrippling    WebCripplingCheck `json:"web_crippling"`
	DeflectionTrack TrackCheck        `json:"deflection_track"`
}

// AllPass reports whether the wall needs nothing more: every check passes
// and no web stiffener is required.
func (c *Checks) AllPass() bool {
	return c.Moment.Status == Pass &&
		c.Shear.Status == Pass &&
		c.Combined.Status == Pass &&
		c.Deflection.Status == Pass &&
		c.WebCrippling.Stiffener == StiffenerNo &&
		c.DeflectionTrack.Status == Pass
}

// Result is the outcome of one evaluation. When Error is set the web crippling
// data was missing and only Error is populated.
type Result struct {
	Inputs         Input             `json:"inputs,omitzero"`
	Loads          *Loads            `json:"loads,omitempty"`
	Stud           *StudDesignation  `json:"stud,omitempty"`
	Track          *TrackDesignation `json:"track,omitempty"`
	MomentCapacity float64           `json:"moment_capacity,omitempty"`
	Checks         *Checks           `json:"checks,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// num keeps infinite and NaN ratios from breaking the JSON encoder.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (c Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status    Status   `json:"status"`
		Required  *float64 `json:"required"`
		Allowable *float64 `json:"allowable"`
		Ratio     *float64 `json:"ratio"`
	}{c.Status, num(c.Required), num(c.Allowable), num(c.Ratio)})
}

func (c DeflectionCheck) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status        Status   `json:"status"`
		Required      *float64 `json:"required"`
		Allowable     *float64 `json:"allowable"`
		Ratio         *float64 `json:"ratio"`
		AchievedLimit *float64 `json:"achieved_limit"`
	}{c.Status, num(c.Required), num(c.Allowable), num(c.Ratio), num(c.AchievedLimit)})
}

func (c WebCripplingCheck) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Stiffener     Stiffener `json:"stiffener"`
		Reaction      *float64  `json:"reaction"`
		Capacity      *float64  `json:"capacity"`
		BearingLength *float64  `json:"bearing_length"`
		WebHeight     *float64  `json:"web_height"`
		Ratio         *float64  `json:"ratio"`
	}{c.Stiffener, num(c.Reaction), num(c.Capacity), num(c.BearingLength), num(c.WebHeight), num(c.Ratio)})
}

func (c TrackCheck) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status   Status   `json:"status"`
		Load     *float64 `json:"load"`
		Capacity *float64 `json:"capacity"`
		Ratio    *float64 `json:"ratio"`
	}{c.Status, num(c.Load), num(c.Capacity), num(c.Ratio)})
}
