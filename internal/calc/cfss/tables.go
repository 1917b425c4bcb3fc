package cfss

// StudProperties are the section properties of one stud table entry.
// Moments are in kip·in, shear in kip, inertia in in⁴, lengths in inches.
type StudProperties struct {
	Lu    float64 `json:"lu" yaml:"lu"`
	MrxUL float64 `json:"mrx_ul" yaml:"mrx_ul"`
	MrxDB float64 `json:"mrx_db" yaml:"mrx_db"`
	Vrn   float64 `json:"vrn" yaml:"vrn"`
	Ixd   float64 `json:"ixd" yaml:"ixd"`
}

// Pair is one web crippling coefficient pair, in lb.
type Pair struct {
	P1 float64 `json:"p1" yaml:"p1"`
	P2 float64 `json:"p2" yaml:"p2"`
}

type CripplingCoefficients struct {
	HtRatio float64 `json:"ht_ratio" yaml:"ht_ratio"`
	EOF     Pair    `json:"eof" yaml:"eof"`
	IOF     Pair    `json:"iof" yaml:"iof"`
	ETF     Pair    `json:"etf" yaml:"etf"`
	ITF     Pair    `json:"itf" yaml:"itf"`
}

// For returns the pair for a fastening condition. The second value is false
// for an unknown condition.
func (c CripplingCoefficients) For(f FastenerType) (Pair, bool) {
	switch f {
	case EOF:
		return c.EOF, true
	case IOF:
		return c.IOF, true
	case ETF:
		return c.ETF, true
	case ITF:
		return c.ITF, true
	}
	return Pair{}, false
}

type CripplingKey struct {
	DepthIn      float64
	ThicknessMil int
}

// Tables is the read-only materials database the evaluator runs against.
type Tables interface {
	Stud(key string) (StudProperties, bool)
	Crippling(depthIn float64, thicknessMil int) (CripplingCoefficients, bool)
}

var thicknessIn = map[int]float64{
	18: 0.0188,
	33: 0.0346,
	43: 0.0451,
	54: 0.0566,
	68: 0.0713,
	97: 0.1017,
}

// Track capacities in lb. 18 and 97 mil tracks have no published value.
var trackCapacity = map[int]float64{
	33: 175,
	43: 257,
	54: 458,
	68: 608,
}

// ThicknessIn maps a thickness in mils to the design thickness in inches.
// Unknown thicknesses return 0.
func ThicknessIn(mil int) float64 {
	return thicknessIn[mil]
}

// TrackCapacity returns the deflection track capacity in lb, 0 when unknown.
func TrackCapacity(mil int) float64 {
	return trackCapacity[mil]
}
