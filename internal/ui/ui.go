package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	// Emojis with colors
	ReviewEmoji  = "🧉"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
)

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(msg string) {
	fmt.Printf("%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(msg string) {
	fmt.Printf("%s %s\n", InfoEmoji, Info.Sprint(msg))
}

// PrintSectionBanner imprime un separador con el título de la sección.
func PrintSectionBanner(title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("\n%s\n", separator)
	fmt.Printf("%s %s\n", ReviewEmoji, Accent.Sprint(title))
	fmt.Printf("%s\n\n", separator)
}

// AskConfirmation pide una confirmación y/n por stdin.
func AskConfirmation(question string) bool {
	fmt.Printf("\n%s (y/n): ", Info.Sprint(question))
	var response string
	_, _ = fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == "s" || response == "si"
}

// WithSpinner corre fn mostrando un spinner mientras tanto.
func WithSpinner(message string, fn func() error) error {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+ReviewEmoji+" "+message),
	)
	s.Start()
	defer s.Stop()
	return fn()
}

// PrintBlock imprime el texto de la review tal cual, separado del resto de la salida.
func PrintBlock(text string) {
	fmt.Println()
	fmt.Println(text)
	fmt.Println()
}
