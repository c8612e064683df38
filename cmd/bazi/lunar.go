package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bazi-agent/server/internal/bazi"
)

func lunarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lunar YYYY-MM-DD",
		Short: "Convert a Gregorian date to the Chinese lunisolar calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseCivil(args[0], "")
			if err != nil {
				return err
			}
			l, err := bazi.ToLunisolar(in.Year, in.Month, in.Day)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", l.String(), l.YearPillar())
			return err
		},
	}
}
