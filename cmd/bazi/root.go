package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bazi-agent/server/internal/bazi"
	"github.com/bazi-agent/server/internal/core"
	logx "github.com/bazi-agent/server/pkg/logger"
)

type rootOptions struct {
	yearBoundary string
	sect         string
	debug        bool
}

func (o *rootOptions) calculator() (*bazi.Calculator, error) {
	boundary, err := bazi.ParseYearBoundary(o.yearBoundary)
	if err != nil {
		return nil, err
	}
	sect, err := bazi.ParseSect(o.sect)
	if err != nil {
		return nil, err
	}
	return bazi.NewCalculator(bazi.WithYearBoundary(boundary), bazi.WithSect(sect)), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "bazi",
		Short:        "Four Pillars of Destiny calculator (China Standard Time, 1900-2100)",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			logx.Init(logx.LoggerOpts{
				Environment: core.Development,
				Level:       level,
				Output:      cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.yearBoundary, "year-boundary", "lunar_new_year", "year pillar switch: lunar_new_year (lny) or lichun")
	cmd.PersistentFlags().StringVar(&opts.sect, "sect", "2", "late zi hour: 2 (same day) or 1 (next day)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		chartCmd(opts),
		lunarCmd(),
		termsCmd(),
		batchCmd(opts),
	)
	return cmd
}

// parseCivil reads "YYYY-MM-DD" and an optional "HH:MM". Range and calendar
// checks are left to bazi.CivilDateTime.Validate.
func parseCivil(date, clock string) (bazi.CivilDateTime, error) {
	var c bazi.CivilDateTime

	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) != 3 {
		return c, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	ymd := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
		ymd[i] = n
	}
	c.Year, c.Month, c.Day = ymd[0], ymd[1], ymd[2]

	if clock = strings.TrimSpace(clock); clock != "" {
		hm := strings.Split(clock, ":")
		if len(hm) != 2 {
			return c, fmt.Errorf("invalid time %q: want HH:MM", clock)
		}
		h, err := strconv.Atoi(hm[0])
		if err != nil {
			return c, fmt.Errorf("invalid time %q: want HH:MM", clock)
		}
		m, err := strconv.Atoi(hm[1])
		if err != nil {
			return c, fmt.Errorf("invalid time %q: want HH:MM", clock)
		}
		c.Hour, c.Minute = h, m
	}

	return c, c.Validate()
}
