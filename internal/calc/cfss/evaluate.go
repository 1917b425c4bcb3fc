// Package cfss checks a cold-formed steel stud wall against wind load:
// moment, shear, combined, deflection, web crippling and deflection track.
// Imperial units throughout (psf, in, ft, lb, kip).
package cfss

import (
	"fmt"
	"math"
)

const (
	slsFactor     = 0.75 // service wind from factored wind
	ulsLoadFactor = 1.4
	steelModulus  = 29_000_000.0 // psi

	bearingToWebMax       = 2.0 // N/h
	bearingToThicknessMax = 210.0
)

// Evaluate runs the six wall checks against tables. An unknown stud is the
// only fatal lookup failure; missing web crippling data yields a Result with
// Error set and no Checks. Zero capacities produce FAIL or infinite ratios,
// not errors.
func Evaluate(tables Tables, in Input) (Result, error) {
	if !in.FastenerType.Valid() {
		return Result{}, &InputError{Field: "fastener_type", Message: fmt.Sprintf("%q is not one of EOF, IOF, ETF, ITF", in.FastenerType)}
	}

	windloadSLS := in.WindloadULS * slsFactor
	heightTotal := in.HeightFt + in.HeightIn/12
	ulsLoad := ulsLoadFactor * in.WindloadULS * in.Spacing / 12
	slsLoad := windloadSLS * in.Spacing / 12

	key, _ := StudKey(in.SteelStud)
	stud, ok := tables.Stud(key)
	if !ok {
		return Result{}, &StudNotFoundError{Designation: in.SteelStud}
	}

	momentCapacity := stud.MrxDB
	if stud.Lu <= in.BridgingSpacing {
		momentCapacity = stud.MrxUL
	}

	momentRequired := (ulsLoad * heightTotal * heightTotal / 8) * (12.0 / 1000)
	moment := Check{
		Status:    statusOf(momentRequired < momentCapacity),
		Required:  momentRequired,
		Allowable: momentCapacity,
		Ratio:     momentRequired / momentCapacity,
	}

	// End reaction ulsLoad*h/2 in lb, then /1000 to kip.
	shearRequired := heightTotal * ulsLoad / 2000
	shear := Check{
		Status:    statusOf(shearRequired < stud.Vrn),
		Required:  shearRequired,
		Allowable: stud.Vrn,
		Ratio:     shearRequired / stud.Vrn,
	}

	combinedRatio := math.Sqrt(moment.Ratio*moment.Ratio + shear.Ratio*shear.Ratio)
	combined := Check{
		Status:    statusOf(combinedRatio <= 1),
		Required:  combinedRatio,
		Allowable: 1,
		Ratio:     combinedRatio,
	}

	deflectionRequired := 5 * (slsLoad / 12) * math.Pow(heightTotal*12, 4) / (384 * steelModulus * stud.Ixd)
	deflectionAllowable := 12 * heightTotal / float64(in.DeflectionLimit)
	deflection := DeflectionCheck{
		Check: Check{
			Status:    statusOf(deflectionRequired < deflectionAllowable),
			Required:  deflectionRequired,
			Allowable: deflectionAllowable,
			Ratio:     deflectionRequired / deflectionAllowable,
		},
		AchievedLimit: math.Round((in.HeightFt*12 + in.HeightIn) / deflectionRequired),
	}

	loads := &Loads{
		WindloadSLS: windloadSLS,
		HeightTotal: heightTotal,
		ULSLoad:     ulsLoad,
		SLSLoad:     slsLoad,
	}

	designation, err := ParseStud(in.SteelStud)
	if err != nil {
		return Result{Error: fmt.Sprintf("no web crippling data: %v", err)}, nil
	}
	coeff, ok := tables.Crippling(designation.DepthIn, designation.ThicknessMil)
	if !ok {
		msg := fmt.Sprintf("no web crippling data for depth %g in, thickness %d mil",
			designation.DepthIn, designation.ThicknessMil)
		return Result{Error: msg}, nil
	}
	crippling := webCrippling(coeff, designation.ThicknessMil, in, shearRequired)

	track := ParseTrack(in.DeflectionTrack)
	trackCapacity := TrackCapacity(track.ThicknessMil)
	trackLoad := crippling.Reaction / ulsLoadFactor
	trackCheck := TrackCheck{
		Status:   statusOf(trackLoad <= trackCapacity),
		Load:     trackLoad,
		Capacity: trackCapacity,
		Ratio:    trackLoad / trackCapacity,
	}

	return Result{
		Inputs:         in,
		Loads:          loads,
		Stud:           &designation,
		Track:          &track,
		MomentCapacity: momentCapacity,
		Checks: &Checks{
			Moment:          moment,
			Shear:           shear,
			Combined:        combined,
			Deflection:      deflection,
			WebCrippling:    crippling,
			DeflectionTrack: trackCheck,
		},
	}, nil
}

func webCrippling(coeff CripplingCoefficients, mil int, in Input, shearRequired float64) WebCripplingCheck {
	t := ThicknessIn(mil)
	h := coeff.HtRatio * t

	bearing := in.BearingLength
	if !(in.BearingLength/h < bearingToWebMax && in.BearingLength/t < bearingToThicknessMax) {
		bearing = math.Min(bearingToWebMax*h, bearingToThicknessMax*t)
	}

	pair, _ := coeff.For(in.FastenerType)
	capacity := pair.P1 + pair.P2*math.Sqrt(bearing/t)
	reaction := shearRequired * 1000

	stiffener := StiffenerNo
	if reaction >= capacity {
		stiffener = StiffenerYes
	}
	return WebCripplingCheck{
		Stiffener:     stiffener,
		Reaction:      reaction,
		Capacity:      capacity,
		BearingLength: bearing,
		WebHeight:     h,
		Ratio:         reaction / capacity,
	}
}
