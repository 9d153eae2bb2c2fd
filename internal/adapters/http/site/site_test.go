package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPages(t *testing.T) {
	Convey("Given the embedded pages", t, func() {
		Convey("When the dashboard is loaded", func() {
			doc, err := Load(Dashboard)
			So(err, ShouldBeNil)

			Convey("Then it carries the navigation and fact ids", func() {
				So(doc.Location(), ShouldEqual, "/")
				So(doc.Exists("predictionBtn"), ShouldBeTrue)
				So(doc.Exists("statisticsBtn"), ShouldBeTrue)
				So(doc.Exists("factTile"), ShouldBeTrue)
				So(doc.Exists("predict-form"), ShouldBeFalse)
			})
		})

		Convey("When the form page is loaded", func() {
			doc, err := Load(Form)
			So(err, ShouldBeNil)

			Convey("Then it carries the form, controls and regions", func() {
				for _, id := range []string{"predict-form", "predict-btn", "ask-btn", "result-text", "advice-text"} {
					So(doc.Exists(id), ShouldBeTrue)
				}
				So(doc.Exists("factTile"), ShouldBeFalse)

				inputs, err := doc.FormData("predict-form")
				So(err, ShouldBeNil)
				So(inputs, ShouldContainKey, "age")
				So(inputs["gender"], ShouldEqual, "Male")
				So(inputs["smoking_status"], ShouldEqual, "formerly smoked")
			})
		})

		Convey("When the statistics page is loaded", func() {
			doc, err := Load(Statistics)
			So(err, ShouldBeNil)

			Convey("Then the attribute picker defaults to gender", func() {
				So(doc.Exists("statsChart"), ShouldBeTrue)
				So(doc.Exists("stats-btn"), ShouldBeTrue)
				v, err := doc.Value("stats-attribute")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "gender")
			})
		})

		Convey("When an unknown location is requested", func() {
			_, err := Load("/admin")
			So(errors.Is(err, ErrUnknownPage), ShouldBeTrue)
		})

		Convey("Then every location is listed", func() {
			So(Locations(), ShouldResemble, []string{"/", "/form", "/statistics"})
		})
	})
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a router with the site registered", t, func() {
		r := chi.NewRouter()
		Register(context.Background(), r)

		for _, loc := range Locations() {
			req := httptest.NewRequest(http.MethodGet, loc, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
		}

		Convey("And unknown paths are not found", func() {
			req := httptest.NewRequest(http.MethodGet, "/some-asset", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestFS(t *testing.T) {
	Convey("Given the embedded file system", t, func() {
		f, err := FS().Open("form.html")
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)
	})
}
