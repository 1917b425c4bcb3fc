package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"Framecheck/internal/calc/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <walls.xlsx>",
		Short: "Check every wall in a workbook and write the results workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			c, err := g.catalog()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			walls, rowErrs, err := importer.ReadWalls(f)
			if err != nil {
				return err
			}
			for _, re := range rowErrs {
				logger.Warn("skipped row", zap.Int("row", re.Row), zap.String("error", re.Err))
			}

			rows, res, err := importer.Run(context.Background(), c, walls, runtime.NumCPU())
			if err != nil {
				return err
			}
			for _, re := range rowErrs {
				rows = append(rows, importer.ResultRow{Row: re.Row, Error: re.Err})
			}

			dst, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := importer.WriteResults(dst, rows); err != nil {
				dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d walls: %d pass, %d fail, %d skipped rows -> %s\n",
				len(walls), res.Passed, res.Failed, len(rowErrs), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "results.xlsx", "results workbook")
	return cmd
}
