// Package report renders a wall evaluation as a one-page PDF.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"Framecheck/internal/calc/cfss"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Notes   string    `json:"notes"`
	Date    time.Time `json:"date"`
}

var columnWidths = []float64{50, 25, 35, 35, 35}

// Write renders the evaluation of in as a PDF into w. A zero meta.Date prints
// today's date.
func Write(w io.Writer, meta Meta, in cfss.Input, res cfss.Result) error {
	if meta.Title == "" {
		meta.Title = "CFS Wall Stud Check"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(format string, args ...any) {
		pdf.Cell(0, 6, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(6)
	}
	line("Project: %s", meta.Project)
	line("Author: %s", meta.Author)
	line("Date: %s", meta.Date.Format("2006-01-02"))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	line("Wall")
	pdf.SetFont("Helvetica", "", 11)
	line("Stud: %s   Bottom track: %s   Deflection track: %s", in.SteelStud, in.BottomTrack, in.DeflectionTrack)
	line("Height: %g ft %g in   Spacing: %g in   Bridging: %g in", in.HeightFt, in.HeightIn, in.Spacing, in.BridgingSpacing)
	line("Wind load (ULS): %g psf   Deflection limit: L/%d", in.WindloadULS, in.DeflectionLimit)
	line("Bearing length: %g in   Fastening: %s", in.BearingLength, in.FastenerType)
	if res.Loads != nil {
		line("Line load: %s lb/ft (ULS), %s lb/ft (SLS)", num(res.Loads.ULSLoad, 2), num(res.Loads.SLSLoad, 2))
	}
	pdf.Ln(4)

	if res.Checks == nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr("Evaluation incomplete: "+res.Error), "", "L", false)
	} else {
		checksTable(pdf, res.Checks)
	}

	if meta.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(meta.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func checksTable(pdf *gofpdf.Fpdf, c *cfss.Checks) {
	row := func(bold bool, cells ...string) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		for i, s := range cells {
			pdf.CellFormat(columnWidths[i], 7, s, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	row(true, "Check", "Status", "Required", "Allowable", "Ratio")
	row(false, "Moment (kip-in)", string(c.Moment.Status), num(c.Moment.Required, 2), num(c.Moment.Allowable, 2), num(c.Moment.Ratio, 3))
	row(false, "Shear (kip)", string(c.Shear.Status), num(c.Shear.Required, 3), num(c.Shear.Allowable, 3), num(c.Shear.Ratio, 3))
	row(false, "Combined", string(c.Combined.Status), num(c.Combined.Required, 3), num(c.Combined.Allowable, 3), num(c.Combined.Ratio, 3))
	row(false, "Deflection (in)", string(c.Deflection.Status), num(c.Deflection.Required, 3), num(c.Deflection.Allowable, 3), num(c.Deflection.Ratio, 3))
	row(false, "Track (lb)", string(c.DeflectionTrack.Status), num(c.DeflectionTrack.Load, 1), num(c.DeflectionTrack.Capacity, 1), num(c.DeflectionTrack.Ratio, 3))

	wc := c.WebCrippling
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Achieved deflection: L/%s", num(c.Deflection.AchievedLimit, 0)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Web crippling: reaction %s lb, capacity %s lb, stiffener required: %s",
		num(wc.Reaction, 1), num(wc.Capacity, 1), wc.Stiffener))
	pdf.Ln(6)
}

func num(v float64, prec int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, v)
}
