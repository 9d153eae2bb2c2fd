package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/okian/riskboard/internal/adapters/page"
)

// Prompter asks the user for the value of one form field. The returned
// string is applied with page.Document.SetValue.
type Prompter interface {
	Ask(ctx context.Context, f page.Field) (string, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

// NewSurveyPrompter creates a terminal prompter.
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

// Ask prompts for f with a widget matching its kind.
func (p *SurveyPrompter) Ask(ctx context.Context, f page.Field) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var opts []survey.AskOpt
	if f.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var out string
	var err error
	switch f.Kind {
	case page.KindSelect, page.KindRadio:
		prompt := &survey.Select{Message: f.Label, Options: f.Options}
		if slices.Contains(f.Options, f.Value) {
			prompt.Default = f.Value
		}
		err = survey.AskOne(prompt, &out)
	case page.KindCheckbox:
		var on bool
		err = survey.AskOne(&survey.Confirm{Message: f.Label, Default: f.Value != ""}, &on)
		out = "off"
		if on {
			out = "on"
		}
	case page.KindTextarea:
		err = survey.AskOne(&survey.Multiline{Message: f.Label, Default: f.Value}, &out, opts...)
	case page.KindNumber:
		opts = append(opts, survey.WithValidator(numeric))
		err = survey.AskOne(&survey.Input{Message: f.Label, Default: f.Value}, &out, opts...)
	default:
		err = survey.AskOne(&survey.Input{Message: f.Label, Default: f.Value}, &out, opts...)
	}
	if err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func numeric(ans any) error {
	s, _ := ans.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// FillInteractively prompts for every field of every form on doc.
func FillInteractively(ctx context.Context, doc *page.Document, p Prompter) error {
	for _, formID := range doc.FormIDs() {
		fields, err := doc.Fields(formID)
		if err != nil {
			return err
		}
		for _, f := range fields {
			v, err := p.Ask(ctx, f)
			if err != nil {
				return err
			}
			if err := doc.SetValue(formID, f.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
