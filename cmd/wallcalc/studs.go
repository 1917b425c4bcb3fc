package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func studsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "studs",
		Short: "List the studs in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.catalog()
			if err != nil {
				return err
			}
			t := newTable("STUD", "LU", "MRX_UL", "MRX_DB", "VRN", "IXD")
			for _, k := range c.Designations() {
				p, _ := c.Stud(k)
				t.Row(k, fmtG(p.Lu), fmtG(p.MrxUL), fmtG(p.MrxDB), fmtG(p.Vrn), fmtG(p.Ixd))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}

func fmtG(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
