package tools

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/bazi"
	errx "github.com/bazi-agent/server/internal/core/error"
	logx "github.com/bazi-agent/server/pkg/logger"
)

type BaziCalculatorInput struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func createBaziCalculatorTool(calc *bazi.Calculator) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolBaziCalculator,
			Desc: "Converts a Gregorian birth date and time (China Standard Time, 24h clock) to Bazi (八字, eight characters / four pillars). " +
				"Returns the four pillars as \"year month day hour\" stem-branch pairs, the Day Master and its element, and the lunar date. " +
				"If the date does not exist the result carries error, field and reason; ask the user to correct that field.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"year":   {Type: schema.Integer, Desc: "Gregorian year, 1900-2100", Required: true},
				"month":  {Type: schema.Integer, Desc: "Month 1-12", Required: true},
				"day":    {Type: schema.Integer, Desc: "Day of month 1-31", Required: true},
				"hour":   {Type: schema.Integer, Desc: "Hour 0-23", Required: true},
				"minute": {Type: schema.Integer, Desc: "Minute 0-59, use 0 if unknown", Required: true},
			}),
		},
		func(ctx context.Context, in *BaziCalculatorInput) (*model.BaziResult, error) {
			return computeBazi(calc, in), nil
		},
	)
}

// computeBazi never fails: calendar errors are handed back to the model as
// data so it can re-prompt the user.
func computeBazi(calc *bazi.Calculator, in *BaziCalculatorInput) *model.BaziResult {
	t := bazi.CivilDateTime{Year: in.Year, Month: in.Month, Day: in.Day, Hour: in.Hour, Minute: in.Minute}
	out := &model.BaziResult{Input: t.String()}

	chart, err := calc.Compute(t)
	if err != nil {
		wrapped := errx.WrapBazi(err)
		logx.Warn().Err(err).Str("input", out.Input).Int("status", errx.StatusOf(wrapped)).Msg("bazi computation rejected")

		var ae *errx.AppError
		if errors.As(wrapped, &ae) {
			out.Error = ae.Message
		}
		var ide *bazi.InvalidDateError
		var ure *bazi.UnsupportedRangeError
		switch {
		case errors.As(err, &ide):
			out.Field = ide.Field
			out.Reason = ide.Reason
		case errors.As(err, &ure):
			out.Field = "year"
			out.Reason = err.Error()
		default:
			out.Reason = err.Error()
		}
		return out
	}

	dm := chart.DayMaster()
	out.Bazi = chart.String()
	out.DayMaster = dm.String()
	out.DayMasterElement = dm.Element().String()
	out.LunarDate = chart.Lunar.String()
	logx.Debug().Str("input", out.Input).Str("bazi", out.Bazi).Msg("bazi computed")
	return out
}
