package budget

import (
	"strings"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

// https://ai.google.dev/gemini-api/docs/pricing
var pricing = map[string]PricingTable{
	"gemini-1.5-flash": {InputPricePerMillion: 0.075, OutputPricePerMillion: 0.30},
	"gemini-1.5-pro":   {InputPricePerMillion: 1.25, OutputPricePerMillion: 5.00},
	"gemini-2.0-flash": {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
	"gemini-2.5-flash": {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
	"gemini-2.5-pro":   {InputPricePerMillion: 1.25, OutputPricePerMillion: 10.00},
}

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// EstimateCost calculates the estimated cost in USD for a finished call.
// Unknown models cost 0 rather than failing: the cost line is informational.
func (c *Calculator) EstimateCost(model string, inputTokens, outputTokens int) float64 {
	model = strings.ToLower(model)

	table, exists := pricing[model]
	if !exists {
		for name, prices := range pricing {
			if strings.Contains(model, name) {
				table = prices
				break
			}
		}
		if table.InputPricePerMillion == 0 {
			return 0
		}
	}

	inputCost := (float64(inputTokens) / 1_000_000) * table.InputPricePerMillion
	outputCost := (float64(outputTokens) / 1_000_000) * table.OutputPricePerMillion

	return inputCost + outputCost
}
