package app_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/okian/riskboard/internal/adapters/http/api"
	"github.com/okian/riskboard/internal/adapters/http/backend"
	"github.com/okian/riskboard/internal/adapters/http/site"
	"github.com/okian/riskboard/internal/adapters/page"
	"github.com/okian/riskboard/internal/app"
	"github.com/okian/riskboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func startPage(client *backend.Client, location string) (*app.Orchestrator, *page.Document) {
	doc, err := site.Load(location)
	So(err, ShouldBeNil)
	o := app.New(doc, client)
	So(o.Start(context.Background()), ShouldBeNil)
	So(settle(o), ShouldBeNil)
	return o, doc
}

func TestIntegration(t *testing.T) {
	Convey("Given the embedded pages talking to the stub backend over HTTP", t, func() {
		fx, err := api.DefaultFixtures()
		So(err, ShouldBeNil)
		srv := httptest.NewServer(api.NewServer(fx).Routes(context.Background()))
		defer srv.Close()

		client, err := backend.New(srv.URL)
		So(err, ShouldBeNil)

		Convey("When the dashboard loads", func() {
			o, doc := startPage(client, site.Dashboard)
			defer o.Stop()

			Convey("Then the fact tile shows a fact from the backend", func() {
				So(text(doc, app.IDFactTile), ShouldContainSubstring, "Health Fact")
				So(text(doc, app.IDFactTile), ShouldContainSubstring, fx.Facts[0])
			})

			Convey("Then the prediction button leads to the form page", func() {
				So(doc.Click(app.IDPredictionBtn), ShouldBeNil)
				So(settle(o), ShouldBeNil)
				So(doc.Location(), ShouldEqual, site.Form)
			})
		})

		Convey("When the form is submitted and advice requested together", func() {
			o, doc := startPage(client, site.Form)
			defer o.Stop()

			So(doc.SetValue(app.IDPredictForm, "age", "80"), ShouldBeNil)
			So(doc.SetValue(app.IDPredictForm, "avg_glucose_level", "230"), ShouldBeNil)
			So(doc.SetValue(app.IDPredictForm, "hypertension", "Yes"), ShouldBeNil)
			So(doc.SetValue(app.IDPredictForm, "bmi", "31.5"), ShouldBeNil)

			So(doc.Click(app.IDPredictBtn), ShouldBeNil)
			So(doc.Click(app.IDAskBtn), ShouldBeNil)
			So(settle(o), ShouldBeNil)

			Convey("Then both regions settle independently", func() {
				So(text(doc, app.IDResultText), ShouldStartWith, "High Risk")
				So(text(doc, app.IDResultText), ShouldEndWith, "83.40%")
				c, _ := doc.Class(app.IDResultText)
				So(c, ShouldEqual, model.StyleInfo)

				So(text(doc, app.IDAdviceText), ShouldEqual, fx.Advice)
				c, _ = doc.Class(app.IDAdviceText)
				So(c, ShouldEqual, model.StyleSecondary)
				So(o.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When the form is submitted with a blank age", func() {
			o, doc := startPage(client, site.Form)
			defer o.Stop()

			So(doc.Click(app.IDPredictBtn), ShouldBeNil)
			So(settle(o), ShouldBeNil)

			Convey("Then the backend's error is shown as danger", func() {
				So(text(doc, app.IDResultText), ShouldEqual, "Prediction failed")
				c, _ := doc.Class(app.IDResultText)
				So(c, ShouldEqual, model.StyleDanger)
			})
		})

		Convey("When the statistics page charts a chosen attribute", func() {
			o, doc := startPage(client, site.Statistics)
			defer o.Stop()
			So(text(doc, app.IDStatsChart), ShouldStartWith, "gender vs stroke")

			So(doc.SetValue("stats-form", "attribute", "smoking_status"), ShouldBeNil)
			So(doc.Click(app.IDStatsBtn), ShouldBeNil)
			So(settle(o), ShouldBeNil)

			Convey("Then the table is replaced", func() {
				So(text(doc, app.IDStatsChart), ShouldStartWith, "smoking_status vs stroke")
				So(text(doc, app.IDStatsChart), ShouldContainSubstring, "formerly smoked")
			})
		})

		Convey("When many pages run against one backend at once", func() {
			const n = 8
			var wg sync.WaitGroup
			results := make([]string, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					doc, err := site.Load(site.Dashboard)
					if err != nil {
						return
					}
					o := app.New(doc, client)
					defer o.Stop()
					if err := o.Start(context.Background()); err != nil {
						return
					}
					if err := settle(o); err != nil {
						return
					}
					results[i], _ = doc.Text(app.IDFactTile)
				}(i)
			}
			wg.Wait()

			Convey("Then every page shows one of the configured facts", func() {
				for _, r := range results {
					So(r, ShouldStartWith, "Health Fact")
					found := false
					for _, f := range fx.Facts {
						found = found || strings.HasSuffix(r, f)
					}
					So(found, ShouldBeTrue)
				}
			})
		})
	})
}
