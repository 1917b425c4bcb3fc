package autodesign

import (
	"errors"
	"fmt"
	"strings"

	"Framecheck/internal/calc/cfss"
)

var ErrNoAdequateStud = errors.New("no stud satisfies every check")

type Input struct {
	cfss.Input
	// Candidates restricts the search; empty means the whole catalog.
	Candidates []string `json:"candidates"`
}

type Rejection struct {
	Stud   string `json:"stud"`
	Reason string `json:"reason"`
}

type Result struct {
	Stud     string      `json:"stud"`
	Result   cfss.Result `json:"result"`
	Rejected []Rejection `json:"rejected"`
}

// SelectStud returns the first candidate, lightest first, for which every
// check passes and no web stiffener is needed.
func SelectStud(catalog cfss.Catalog, in Input) (Result, error) {
	candidates := in.Candidates
	if len(candidates) == 0 {
		candidates = catalog.Designations()
	}

	out := Result{Rejected: []Rejection{}}
	for _, stud := range candidates {
		wall := in.Input
		wall.SteelStud = stud
		res, err := cfss.Evaluate(catalog, wall)
		if err != nil {
			var inputErr *cfss.InputError
			if errors.As(err, &inputErr) {
				return Result{}, err
			}
			out.Rejected = append(out.Rejected, Rejection{Stud: stud, Reason: err.Error()})
			continue
		}
		if res.Error != "" {
			out.Rejected = append(out.Rejected, Rejection{Stud: stud, Reason: res.Error})
			continue
		}
		if !res.Checks.AllPass() {
			out.Rejected = append(out.Rejected, Rejection{Stud: stud, Reason: failing(res.Checks)})
			continue
		}
		out.Stud = stud
		out.Result = res
		return out, nil
	}
	return out, fmt.Errorf("%w (%d tried)", ErrNoAdequateStud, len(candidates))
}

func failing(c *cfss.Checks) string {
	var names []string
	if c.Moment.Status == cfss.Fail {
		names = append(names, "moment")
	}
	if c.Shear.Status == cfss.Fail {
		names = append(names, "shear")
	}
	if c.Combined.Status == cfss.Fail {
		names = append(names, "combined")
	}
	if c.Deflection.Status == cfss.Fail {
		names = append(names, "deflection")
	}
	if c.WebCrippling.Stiffener == cfss.StiffenerYes {
		names = append(names, "web crippling")
	}
	if c.DeflectionTrack.Status == cfss.Fail {
		names = append(names, "deflection track")
	}
	return "fails " + strings.Join(names, ", ")
}
