package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bazi-agent/server/internal/bazi"
	logx "github.com/bazi-agent/server/pkg/logger"
)

func batchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Compute one chart per line of \"YYYY-MM-DD HH:MM\" (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.calculator()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			inputs, err := readBatch(in)
			if err != nil {
				return err
			}
			charts, err := computeBatch(cmd, calc, inputs)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for i, c := range charts {
				fmt.Fprintf(w, "%s\t%s\n", inputs[i], c)
			}
			return w.Flush()
		},
	}
}

// readBatch parses every non-blank line, stopping at the first invalid one.
func readBatch(r io.Reader) ([]bazi.CivilDateTime, error) {
	var inputs []bazi.CivilDateTime
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		clock := ""
		if len(fields) > 1 {
			clock = fields[1]
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: too many fields in %q", n, line)
		}
		c, err := parseCivil(fields[0], clock)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if c.Year < bazi.MinYear || c.Year > bazi.MaxYear {
			return nil, fmt.Errorf("line %d: %w", n, &bazi.UnsupportedRangeError{Year: c.Year, Month: c.Month, Day: c.Day})
		}
		inputs = append(inputs, c)
	}
	return inputs, sc.Err()
}

// computeBatch fans the inputs out over the CPUs and keeps input order.
func computeBatch(cmd *cobra.Command, calc *bazi.Calculator, inputs []bazi.CivilDateTime) ([]bazi.Chart, error) {
	charts := make([]bazi.Chart, len(inputs))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := calc.Compute(in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			charts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logx.Debug().Int("count", len(charts)).Msg("batch computed")
	return charts, nil
}
