package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M tokens (text tokens).
var defaultPricing = map[string]Pricing{
	// Gemini standard text pricing; 2.5 Pro at the <=200k prompt tier.
	"gemini-2.5-pro":        {InputPerM: 1.25, OutputPerM: 10.00},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// CostEnabled returns whether to compute/log cost.
func CostEnabled() bool {
	return true
}

// ResolvePricing returns the pricing for a model, accepting the
// "models/" prefix and version suffixes such as "-001". Unknown models
// are priced at zero.
func ResolvePricing(model string) Pricing {
	name := strings.TrimPrefix(strings.ToLower(model), "models/")
	if p, ok := defaultPricing[name]; ok {
		return p
	}
	best := ""
	for k := range defaultPricing {
		if strings.HasPrefix(name, k+"-") && len(k) > len(best) {
			best = k
		}
	}
	return defaultPricing[best]
}

// UsageCost builds the usage_cost entry attached to model messages.
func UsageCost(modelName string, usage *schema.TokenUsage, in, out, total float64) map[string]any {
	return map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
		"input_cost":        in,
		"output_cost":       out,
		"total_cost":        total,
	}
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
