package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/riskboard/internal/adapters/http/api"
	"github.com/okian/riskboard/internal/config"
	"github.com/okian/riskboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the stub backend entrypoint", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("RISKBOARD_ADDR", ":8080")
			_ = os.Setenv("RISKBOARD_LOG_FORMAT", "json")
			defer func() {
				_ = os.Unsetenv("RISKBOARD_ADDR")
				_ = os.Unsetenv("RISKBOARD_LOG_FORMAT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the address is blank", func() {
			_ = os.Setenv("RISKBOARD_ADDR", " ")
			defer func() { _ = os.Unsetenv("RISKBOARD_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the HTTP server is built", func() {
			fx, err := api.DefaultFixtures()
			convey.So(err, convey.ShouldBeNil)
			srv := newHTTPServer(context.Background(), ":0", api.NewServer(fx))

			convey.Convey("Then it carries bounded timeouts", func() {
				convey.So(srv.Addr, convey.ShouldEqual, ":0")
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})

			convey.Convey("Then its handler serves pages and endpoints", func() {
				ts := httptest.NewServer(srv.Handler)
				defer ts.Close()

				resp, err := http.Get(ts.URL + "/get_fact")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var body map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(body["fact"], convey.ShouldEqual, fx.Facts[0])

				page, err := http.Get(ts.URL + "/form")
				convey.So(err, convey.ShouldBeNil)
				defer page.Body.Close()
				b, _ := io.ReadAll(page.Body)
				convey.So(string(b), convey.ShouldContainSubstring, `id="predict-form"`)
			})
		})
	})
}

func TestProcessMetrics(t *testing.T) {
	convey.Convey("Given the process metrics updater", t, func() {
		convey.Convey("When it runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startProcessMetricsUpdater(ctx)
				close(done)
			}()

			convey.Convey("Then it returns", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("updater did not stop")
				}
			})
		})

		convey.Convey("When a sample is taken", func() {
			updateProcessMetrics()

			convey.Convey("Then the goroutine gauge is populated", func() {
				n, err := testutil.GatherAndCount(metrics.GetRegistry(), "riskboard_process_goroutine_count")
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)
			})
		})
	})
}
