package render_test

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/riskboard/internal/domain/model"
	"github.com/okian/riskboard/internal/domain/render"
	. "github.com/smartystreets/goconvey/convey"
)

func prediction(body string) model.PredictionResponse {
	var r model.PredictionResponse
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		panic(err)
	}
	return r
}

func class(d model.Display) string {
	if d.Class == nil {
		return "<unchanged>"
	}
	return *d.Class
}

func TestToFixed(t *testing.T) {
	Convey("Given numbers formatted with two decimals", t, func() {
		cases := []struct {
			in   float64
			want string
		}{
			{87.65, "87.65"},
			{90, "90.00"},
			{0, "0.00"},
			{100, "100.00"},
			{0.125, "0.13"},
			{1.005, "1.00"},
			{2.675, "2.67"},
			{12.345678, "12.35"},
			{0.001, "0.00"},
			{-0.001, "-0.00"},
			{-1.5, "-1.50"},
			{math.NaN(), "NaN"},
			{math.Inf(1), "Infinity"},
		}
		for _, c := range cases {
			So(render.ToFixed(c.in, 2), ShouldEqual, c.want)
		}

		Convey("Then other precisions work", func() {
			So(render.ToFixed(2.5, 0), ShouldEqual, "3")
			So(render.ToFixed(0.5, 0), ShouldEqual, "1")
			So(render.ToFixed(1.23456, 4), ShouldEqual, "1.2346")
			So(render.ToFixed(0.05, 1), ShouldEqual, "0.1")
		})
	})
}

func TestPercentProperty(t *testing.T) {
	Convey("Given probabilities across [0,1]", t, func() {
		for i := 0; i <= 10000; i++ {
			p := float64(i) / 10000
			got := render.Percent(p)

			// Exactly two fractional digits.
			dot := len(got) - 3
			So(got[dot], ShouldEqual, byte('.'))

			// Within half a hundredth of p*100.
			v, err := strconv.ParseFloat(got, 64)
			So(err, ShouldBeNil)
			So(math.Abs(v-p*100), ShouldBeLessThanOrEqualTo, 0.005+1e-9)
		}

		So(render.Percent(0.8765), ShouldEqual, "87.65")
		So(render.Percent(0.9), ShouldEqual, "90.00")
		So(render.Percent(1), ShouldEqual, "100.00")
	})
}

func TestPredictionDisplay(t *testing.T) {
	Convey("Given prediction bodies", t, func() {
		Convey("When the backend predicts high risk", func() {
			d := render.Prediction(prediction(`{"prediction": 1, "probability": 0.9}`))

			Convey("Then an info alert shows the bold label and percentage", func() {
				So(class(d), ShouldEqual, model.StyleInfo)
				So(d.HTML, ShouldEqual, "<strong>High Risk</strong><br>Probability: 90.00%")
			})
		})

		Convey("When prediction is anything but 1", func() {
			for _, body := range []string{`{"prediction": 0, "probability": 0.1}`, `{"prediction": null}`, `{}`, `{"prediction": "1"}`} {
				d := render.Prediction(prediction(body))
				So(d.HTML, ShouldStartWith, "<strong>Low Risk</strong>")
				So(class(d), ShouldEqual, model.StyleInfo)
			}
		})

		Convey("When the probability is missing", func() {
			d := render.Prediction(prediction(`{"prediction": 0}`))

			Convey("Then the percentage reads NaN", func() {
				So(d.HTML, ShouldEqual, "<strong>Low Risk</strong><br>Probability: NaN%")
			})
		})

		Convey("When the body carries a truthy error next to a prediction", func() {
			d := render.Prediction(prediction(`{"error": "<b>Prediction failed</b>", "prediction": 1, "probability": 0.9}`))

			Convey("Then the error is shown verbatim in a danger alert", func() {
				So(class(d), ShouldEqual, model.StyleDanger)
				So(d.HTML, ShouldEqual, "<b>Prediction failed</b>")
			})
		})

		Convey("When the error field is falsy", func() {
			d := render.Prediction(prediction(`{"error": "", "prediction": 1, "probability": 0.5}`))
			So(class(d), ShouldEqual, model.StyleInfo)
			So(d.HTML, ShouldContainSubstring, "50.00%")
		})

		Convey("Then the loading and failure displays are fixed", func() {
			So(class(render.PredictLoading()), ShouldEqual, "<unchanged>")
			So(render.PredictLoading().HTML, ShouldEqual, "⏳ Predicting...")
			So(class(render.PredictionFailed()), ShouldEqual, model.StyleDanger)
			So(render.PredictionFailed().HTML, ShouldEqual, "Prediction failed. Check console for details.")
		})
	})
}

func TestAdviceDisplay(t *testing.T) {
	Convey("Given advice bodies", t, func() {
		Convey("When ai_response is present", func() {
			d := render.Advice(model.AdviceResponse{AIResponse: "Walk daily."})
			So(class(d), ShouldEqual, model.StyleSecondary)
			So(d.HTML, ShouldEqual, "Walk daily.")
		})

		Convey("When ai_response is absent or empty", func() {
			for _, resp := range []model.AdviceResponse{{}, {AIResponse: ""}, {AIResponse: nil}} {
				d := render.Advice(resp)
				So(class(d), ShouldEqual, model.StyleSecondary)
				So(d.HTML, ShouldEqual, "No advice received.")
			}
		})

		Convey("Then the failure state stays distinct from the empty state", func() {
			So(class(render.AdviceFailed()), ShouldEqual, model.StyleDanger)
			So(render.AdviceFailed().HTML, ShouldEqual, "Could not reach AI.")
			So(class(render.AdviceFailed()), ShouldNotEqual, class(render.Advice(model.AdviceResponse{})))
		})
	})
}

func TestFactDisplay(t *testing.T) {
	Convey("Given fact bodies", t, func() {
		Convey("When the fact is a string", func() {
			d := render.Fact(model.FactResponse{Fact: "Strokes are treatable."})
			So(d.HTML, ShouldEqual, `<h5 class="fw-semibold">Health Fact</h5><p class="mt-2">Strokes are treatable.</p>`)
			So(class(d), ShouldEqual, "<unchanged>")
		})

		Convey("When the fact is missing", func() {
			So(render.Fact(model.FactResponse{}).HTML, ShouldEqual, render.FactUnavailableHTML)
		})

		Convey("Then the placeholder and apology are fixed", func() {
			So(render.FactLoading().HTML, ShouldEqual, "<p>Fetching an interesting fact...</p>")
			So(render.FactUnavailable().HTML, ShouldContainSubstring, "Ollama")
		})
	})
}

func TestStatsDisplay(t *testing.T) {
	Convey("Given a stats body", t, func() {
		resp := model.StatsResponse{
			Labels:   []string{"Female", "Male"},
			Stroke:   []int{140, 108},
			NoStroke: []int{2767},
		}

		d := render.Stats("gender", resp)

		Convey("Then a table row is rendered per label with missing counts as zero", func() {
			So(class(d), ShouldEqual, model.StyleTable)
			want := "<caption>gender vs stroke</caption>" +
				"<thead><tr><th>gender</th><th>Stroke</th><th>No stroke</th></tr></thead><tbody>" +
				"<tr><td>Female</td><td>140</td><td>2767</td></tr>" +
				"<tr><td>Male</td><td>108</td><td>0</td></tr>" +
				"</tbody>"
			if diff := cmp.Diff(want, d.HTML); diff != "" {
				So(fmt.Sprintf("stats html mismatch (-want +got):\n%s", diff), ShouldBeEmpty)
			}
		})

		Convey("When the backend rejects the attribute", func() {
			d := render.Stats("nope", model.StatsResponse{Error: "Invalid attribute"})
			So(class(d), ShouldEqual, model.StyleDanger)
			So(d.HTML, ShouldEqual, "Invalid attribute")
		})

		Convey("Then labels are escaped", func() {
			d := render.Stats("x", model.StatsResponse{Labels: []string{"<i>"}})
			So(d.HTML, ShouldContainSubstring, "<td>&lt;i&gt;</td>")
		})
	})
}
