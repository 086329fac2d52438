package ui

import (
	"fmt"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/fatih/color"
)

func PrintTokenUsage(usage *models.TokenUsage, t *i18n.Translations) {
	if usage == nil {
		return
	}
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	_, _ = cyan.Print("📊 ")
	fmt.Printf("%s: ", t.GetMessage("ui_token_usage", 0, nil))
	fmt.Printf("%s %d | ", t.GetMessage("ui_input", 0, nil), usage.InputTokens)
	fmt.Printf("%s %d | ", t.GetMessage("ui_output", 0, nil), usage.OutputTokens)
	fmt.Printf("%s %d\n", t.GetMessage("ui_total", 0, nil), usage.TotalTokens)
	if usage.CostUSD > 0 {
		_, _ = yellow.Print("💰 ")
		fmt.Printf("%s: ", t.GetMessage("ui_cost", 0, nil))
		_, _ = yellow.Printf("$%.4f USD\n", usage.CostUSD)
	}
	if usage.DurationMs > 0 {
		fmt.Printf("⏱️  %s: %dms\n", t.GetMessage("ui_duration", 0, nil), usage.DurationMs)
	}
}
