package console

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/riskboard/pkg/logger"
)

// SetupLogging initialises the global logger on stderr so that stdout only
// carries page output.
func SetupLogging(level, format string) error {
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(format)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the riskboard console.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Riskboard Console
=================

Loads a dashboard page, fills the prediction form, activates controls and
prints every result region as plain text.

Usage:
  riskboard [options]

Options:
  -url string
        Backend base URL (default from RISKBOARD_BASE_URL or http://localhost:5000)
  -page string
        Page to load: /, /form or /statistics (default "/")
  -set name=value
        Set a form field before clicking; repeatable
  -click id
        Activate the element with this id; repeatable, applied in order
  -interactive
        Prompt for every form field
  -follow
        Load the next page when a control navigates
  -help
        Show this help message

Examples:
  # Show today's health fact
  riskboard

  # Predict from the form page
  riskboard -page /form -set age=67 -set hypertension=Yes -click predict-btn

  # Walk from the dashboard to the statistics page
  riskboard -follow -click statisticsBtn -set attribute=work_type -click stats-btn
`)
}
