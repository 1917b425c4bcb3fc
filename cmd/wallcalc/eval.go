package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"Framecheck/internal/calc/cfss"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func evalCmd(g *globals) *cobra.Command {
	var inputPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Check one wall described in a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readWall(inputPath)
			if err != nil {
				return err
			}
			res, err := evaluate(g, in)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), in, res)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "wall YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.MarkFlagRequired("input")
	return cmd
}

func readWall(path string) (cfss.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return cfss.Input{}, err
	}
	defer f.Close()
	return decodeWall(f)
}

func decodeWall(r io.Reader) (cfss.Input, error) {
	var in cfss.Input
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		return cfss.Input{}, fmt.Errorf("decode wall: %w", err)
	}
	ft, err := cfss.ParseFastenerType(string(in.FastenerType))
	if err != nil {
		return cfss.Input{}, err
	}
	in.FastenerType = ft
	return in, in.Validate()
}

func evaluate(g *globals, in cfss.Input) (cfss.Result, error) {
	logger, err := g.logger()
	if err != nil {
		return cfss.Result{}, err
	}
	defer logger.Sync()

	c, err := g.catalog()
	if err != nil {
		return cfss.Result{}, err
	}
	logger.Debug("catalog loaded", zap.String("version", c.Version()))

	res, err := cfss.Evaluate(c, in)
	if err != nil {
		return cfss.Result{}, err
	}
	if res.Error != "" {
		logger.Warn("evaluation incomplete", zap.String("reason", res.Error))
	}
	return res, nil
}

func printResult(w io.Writer, in cfss.Input, res cfss.Result) error {
	fmt.Fprintf(w, "Stud %s, track %s, height %g ft %g in\n", in.SteelStud, in.DeflectionTrack, in.HeightFt, in.HeightIn)
	if res.Checks == nil {
		fmt.Fprintf(w, "incomplete: %s\n", res.Error)
		return nil
	}
	c := res.Checks

	t := newTable("CHECK", "STATUS", "REQUIRED", "ALLOWABLE", "RATIO")
	row := func(name, status string, required, allowable, ratio float64) {
		t.Row(name, status, fmtNum(required), fmtNum(allowable), fmtNum(ratio))
	}
	row("moment", string(c.Moment.Status), c.Moment.Required, c.Moment.Allowable, c.Moment.Ratio)
	row("shear", string(c.Shear.Status), c.Shear.Required, c.Shear.Allowable, c.Shear.Ratio)
	row("combined", string(c.Combined.Status), c.Combined.Required, c.Combined.Allowable, c.Combined.Ratio)
	row("deflection", string(c.Deflection.Status), c.Deflection.Required, c.Deflection.Allowable, c.Deflection.Ratio)
	row("web crippling", "stiffener "+string(c.WebCrippling.Stiffener), c.WebCrippling.Reaction, c.WebCrippling.Capacity, c.WebCrippling.Ratio)
	row("deflection track", string(c.DeflectionTrack.Status), c.DeflectionTrack.Load, c.DeflectionTrack.Capacity, c.DeflectionTrack.Ratio)
	fmt.Fprintln(w, t.String())

	verdict := "FAIL"
	if c.AllPass() {
		verdict = "PASS"
	}
	fmt.Fprintf(w, "achieved L/%s, overall %s\n", fmtNum(math.Floor(c.Deflection.AchievedLimit)), verdict)
	return nil
}

func fmtNum(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
