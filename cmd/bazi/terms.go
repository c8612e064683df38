package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bazi-agent/server/internal/bazi"
)

func termsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms YEAR",
		Short: "List the 24 solar terms of a year in China Standard Time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			terms, err := bazi.SolarTerms(year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range terms {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", t.Name, t.Time.Format("2006-01-02 15:04:05")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
