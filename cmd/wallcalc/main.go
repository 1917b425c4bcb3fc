package main

import (
	"fmt"
	"os"

	"Framecheck/internal/calc/cfss/catalog"
	"Framecheck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

type globals struct {
	catalogPath string
	verbose     bool
}

func (g *globals) catalog() (*catalog.Catalog, error) {
	if g.catalogPath == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(g.catalogPath)
}

func (g *globals) logger() (*zap.Logger, error) {
	if g.verbose {
		return logging.New("debug")
	}
	return logging.New("warn")
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "wallcalc",
		Short:         "Cold-formed steel wall stud checks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.catalogPath, "catalog", "", "stud catalog YAML (default: built-in)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(evalCmd(g))
	rootCmd.AddCommand(studsCmd(g))
	rootCmd.AddCommand(importCmd(g))
	rootCmd.AddCommand(reportCmd(g))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
