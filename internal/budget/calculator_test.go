package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_EstimateCost(t *testing.T) {
	calc := NewCalculator()

	// gemini-2.0-flash: $0.10 in / $0.40 out per million tokens
	cost := calc.EstimateCost("gemini-2.0-flash", 1_000_000, 1_000_000)
	assert.InDelta(t, 0.50, cost, 0.0001)

	cost = calc.EstimateCost("gemini-2.0-flash", 10_000, 2_000)
	assert.InDelta(t, 0.0018, cost, 0.0001)
}

func TestCalculator_UnknownModel(t *testing.T) {
	calc := NewCalculator()

	assert.Zero(t, calc.EstimateCost("some-other-model", 1000, 1000))
}

func TestCalculator_PartialModelMatch(t *testing.T) {
	calc := NewCalculator()

	cost := calc.EstimateCost("models/gemini-1.5-pro-latest", 1_000_000, 0)
	assert.InDelta(t, 1.25, cost, 0.0001)
}
