package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/riskboard/pkg/logger"
)

// Config holds configuration for one console session.
type Config struct {
	BaseURL        string        // Backend root
	Timeout        time.Duration // Per-request timeout, zero for none
	Page           string        // Location to load first
	Clicks         []string      // Element ids to activate, in order
	Sets           []Assignment  // Field values applied before clicking
	Interactive    bool          // Prompt for every form field
	Follow         bool          // Load the next page after a navigation
	StatsAttribute string        // Attribute charted when the page offers no choice

	Out      io.Writer     // Where regions are printed
	Prompter Prompter      // Used when Interactive is set
	Logger   logger.Logger // Diagnostics
}

// Assignment sets the form field Name to Value.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignment parses "name=value". The value may be empty or contain
// further '=' characters.
func ParseAssignment(s string) (Assignment, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Assignment{}, fmt.Errorf("%w: %q, want name=value", ErrAssignment, s)
	}
	return Assignment{Name: name, Value: value}, nil
}
