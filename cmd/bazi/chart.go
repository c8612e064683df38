package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bazi-agent/server/internal/bazi"
)

type chartJSON struct {
	Input            string `json:"input"`
	Bazi             string `json:"bazi"`
	Year             string `json:"year"`
	Month            string `json:"month"`
	Day              string `json:"day"`
	Hour             string `json:"hour"`
	DayMaster        string `json:"day_master"`
	DayMasterElement string `json:"day_master_element"`
	LunarDate        string `json:"lunar_date"`
}

func newChartJSON(in bazi.CivilDateTime, c bazi.Chart) chartJSON {
	return chartJSON{
		Input:            in.String(),
		Bazi:             c.String(),
		Year:             c.Year.String(),
		Month:            c.Month.String(),
		Day:              c.Day.String(),
		Hour:             c.Hour.String(),
		DayMaster:        c.DayMaster().String(),
		DayMasterElement: c.DayMaster().Element().String(),
		LunarDate:        c.Lunar.String(),
	}
}

func chartCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "chart YYYY-MM-DD [HH:MM]",
		Short: "Print the four pillars of a birth moment",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.calculator()
			if err != nil {
				return err
			}
			clock := ""
			if len(args) == 2 {
				clock = args[1]
			}
			in, err := parseCivil(args[0], clock)
			if err != nil {
				return err
			}
			chart, err := calc.Compute(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(newChartJSON(in, chart))
			}
			_, err = fmt.Fprintln(out, chart.String())
			return err
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print pillars, day master and lunar date as JSON")
	return c
}
