package main

import (
	"os"

	"Framecheck/internal/calc/report"

	"github.com/spf13/cobra"
)

func reportCmd(g *globals) *cobra.Command {
	var inputPath, out string
	var meta report.Meta
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Check one wall and write a PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readWall(inputPath)
			if err != nil {
				return err
			}
			res, err := evaluate(g, in)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.Write(f, meta, in, res); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "wall YAML file")
	cmd.Flags().StringVarP(&out, "out", "o", "report.pdf", "output PDF")
	cmd.Flags().StringVar(&meta.Project, "project", "", "project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "author")
	cmd.Flags().StringVar(&meta.Title, "title", "", "report title")
	cmd.MarkFlagRequired("input")
	return cmd
}
