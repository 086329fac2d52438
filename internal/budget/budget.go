package budget

import (
	"log/slog"
	"math"
	"strings"

	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
)

// tokensPerWord is the pre-flight estimation ratio. It approximates the
// provider tokenizer for English/code prose; the authoritative count is always
// the usage reported by the provider after the call completes.
const tokensPerWord = 1.3

// EstimateTokens approximates the token count of outgoing text as
// round(word_count * 1.3). It is used only for the admission check.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Round(float64(words) * tokensPerWord))
}

// Tracker tracks cumulative token consumption against a configured ceiling.
// consumed only ever grows within a run and is never persisted across runs.
type Tracker struct {
	limit    int
	consumed int
	log      *slog.Logger
}

func NewTracker(limit int, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{limit: limit, log: log}
}

// CanProcess reports whether a call with the given estimated token count fits
// in the remaining budget. It is a pure check and never mutates state.
func (t *Tracker) CanProcess(estimated int) bool {
	return t.consumed+estimated <= t.limit
}

// Check returns a BudgetExceededError when a call with the given estimate does
// not fit in the remaining budget, nil otherwise. Like CanProcess it never
// mutates state.
func (t *Tracker) Check(estimated int) error {
	if t.CanProcess(estimated) {
		return nil
	}
	return domainErrors.NewBudgetExceededError(t.limit, t.consumed, estimated)
}

// RecordUsage adds the provider-reported prompt and completion tokens to the
// consumed total and returns the updated total. It is the only mutator and
// must be called at most once per completed model call, never for calls
// rejected by CanProcess.
func (t *Tracker) RecordUsage(promptTokens, completionTokens int) int {
	t.consumed += promptTokens + completionTokens

	t.log.Debug("token usage recorded",
		"prompt_tokens", promptTokens,
		"completion_tokens", completionTokens,
		"consumed", t.consumed,
		"limit", t.limit)

	return t.consumed
}

// Consumed returns the tokens consumed so far in this run.
func (t *Tracker) Consumed() int {
	return t.consumed
}

// Limit returns the configured ceiling.
func (t *Tracker) Limit() int {
	return t.limit
}

// Remaining returns the tokens still available, never negative.
func (t *Tracker) Remaining() int {
	if t.consumed >= t.limit {
		return 0
	}
	return t.limit - t.consumed
}
