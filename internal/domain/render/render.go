// Package render turns backend responses into display states for the
// dashboard's alert regions. Every function is pure; the orchestrator owns
// when a display is applied.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/okian/riskboard/internal/domain/model"
)

// Fixed texts shown in the regions.
const (
	FactLoadingHTML     = "<p>Fetching an interesting fact...</p>"
	FactUnavailableHTML = "<p>Unable to fetch fact. Make sure Ollama is running.</p>"
	FactHeading         = `<h5 class="fw-semibold">Health Fact</h5>`

	PredictLoadingText = "⏳ Predicting..."
	PredictFailedText  = "Prediction failed. Check console for details."

	AdviceLoadingText = "Asking AI for advice..."
	AdviceFailedText  = "Could not reach AI."
	NoAdviceText      = "No advice received."

	StatsLoadingText = "Loading statistics..."
	StatsFailedText  = "Unable to load statistics."

	HighRisk = "High Risk"
	LowRisk  = "Low Risk"
)

// FactLoading is shown while /get_fact is outstanding.
func FactLoading() model.Display { return model.Content(FactLoadingHTML) }

// Fact renders a fetched fact, or the apology when the body carries no
// fact string.
func Fact(resp model.FactResponse) model.Display {
	text, ok := resp.Text()
	if !ok {
		return FactUnavailable()
	}
	return model.Content(FactHeading + `<p class="mt-2">` + text + `</p>`)
}

// FactUnavailable is shown when the fact request fails in any way.
func FactUnavailable() model.Display { return model.Content(FactUnavailableHTML) }

// PredictLoading is shown synchronously when predict is triggered.
func PredictLoading() model.Display { return model.Content(PredictLoadingText) }

// Prediction renders a decoded /predict body. A truthy error wins over every
// other field and is shown verbatim.
func Prediction(resp model.PredictionResponse) model.Display {
	if resp.Failed() {
		return model.Styled(model.StyleDanger, model.ToString(resp.Error))
	}
	return model.Styled(model.StyleInfo,
		fmt.Sprintf("<strong>%s</strong><br>Probability: %s%%", RiskLabel(resp), Percent(resp.ProbabilityValue())))
}

// PredictionFailed is shown when the request itself fails.
func PredictionFailed() model.Display { return model.Styled(model.StyleDanger, PredictFailedText) }

// RiskLabel maps the prediction to its human label.
func RiskLabel(resp model.PredictionResponse) string {
	if resp.HighRisk() {
		return HighRisk
	}
	return LowRisk
}

// Percent formats a probability as a percentage with exactly two decimals.
func Percent(p float64) string {
	return ToFixed(p*100, 2)
}

// AdviceLoading is shown synchronously when advice is requested.
func AdviceLoading() model.Display { return model.Content(AdviceLoadingText) }

// Advice renders a decoded /ask_ai body. The region is always secondary,
// whether or not advice was returned.
func Advice(resp model.AdviceResponse) model.Display {
	if !model.Truthy(resp.AIResponse) {
		return model.Styled(model.StyleSecondary, NoAdviceText)
	}
	return model.Styled(model.StyleSecondary, model.ToString(resp.AIResponse))
}

// AdviceFailed is shown when the advice request fails.
func AdviceFailed() model.Display { return model.Styled(model.StyleDanger, AdviceFailedText) }

// StatsLoading is shown while /stats_data is outstanding.
func StatsLoading() model.Display { return model.Content(StatsLoadingText) }

// Stats renders the stroke / no-stroke counts per label as a table.
func Stats(attribute string, resp model.StatsResponse) model.Display {
	if resp.Failed() {
		return model.Styled(model.StyleDanger, model.ToString(resp.Error))
	}

	var b strings.Builder
	b.WriteString("<caption>")
	b.WriteString(html.EscapeString(attribute))
	b.WriteString(" vs stroke</caption>")
	b.WriteString("<thead><tr><th>")
	b.WriteString(html.EscapeString(attribute))
	b.WriteString("</th><th>Stroke</th><th>No stroke</th></tr></thead><tbody>")
	for i, label := range resp.Labels {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(label), at(resp.Stroke, i), at(resp.NoStroke, i))
	}
	b.WriteString("</tbody>")
	return model.Styled(model.StyleTable, b.String())
}

// StatsFailed is shown when the statistics request fails.
func StatsFailed() model.Display { return model.Styled(model.StyleDanger, StatsFailedText) }

func at(xs []int, i int) int {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
