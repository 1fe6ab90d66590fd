package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	BuildEmoji   = Accent.Sprint("🔨")
)

var activeSpinner *SmartSpinner

// SmartSpinner is a spinner on stderr, so it never mixes with command output
type SmartSpinner struct {
	spinner *spinner.Spinner
}

func NewSmartSpinner(initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithWriter(os.Stderr),
		spinner.WithSuffix(" "+initialMessage),
	)
	return &SmartSpinner{spinner: s}
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
}

// StopActiveSpinner stops the currently active spinner in the terminal session.
func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(os.Stderr, msg)
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", BuildEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err to stderr in a friendly way.
// If translations is nil, it will use English defaults.
func HandleAppError(err error, translations ...*i18n.Translations) {
	StopActiveSpinner()
	FprintAppError(os.Stderr, err, translations...)
}

// FprintAppError is HandleAppError writing to w.
func FprintAppError(w io.Writer, err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	suggestionColor := color.New(color.FgCyan)

	_, _ = fmt.Fprintln(w)
	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

	if appErr.Err != nil {
		details := "Details"
		if t != nil {
			details = t.GetMessage("ui_error.details", 0, nil)
		}
		_, _ = Dim.Fprintf(w, "   %s: %v\n", details, appErr.Err)
	}

	if stderr, ok := appErr.Context["stderr"].(string); ok && stderr != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", strings.TrimSpace(stderr))
	}

	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintln(w)
		tryPrefix := "💡 Try: "
		if t != nil {
			tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
		}
		_, _ = suggestionColor.Fprint(w, tryPrefix)
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
	_, _ = fmt.Fprintln(w)
}

func WithSpinner(message string, fn func() error) error {
	s := NewSmartSpinner(message)
	s.Start()

	if err := fn(); err != nil {
		s.Stop()
		return err
	}

	s.Success(message)
	return nil
}
