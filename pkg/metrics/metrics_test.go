package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "riskboard")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "riskboard")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.constLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When backend requests are recorded", func() {
			manager.RecordBackendRequest("/predict", "ok", 12)
			manager.RecordBackendRequest("/predict", "ok", 30)
			manager.RecordBackendRequest("/predict", "transport_error", 5)

			Convey("Then counters are split by outcome", func() {
				So(testutil.ToFloat64(manager.backendRequests.WithLabelValues("/predict", "ok")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.backendRequests.WithLabelValues("/predict", "transport_error")), ShouldEqual, 1)
			})
		})

		Convey("When region renders and navigations are recorded", func() {
			manager.RecordRegionRender("result-text", "info")
			manager.RecordNavigation("/form")
			manager.RecordNavigation("/form")

			Convey("Then they are counted", func() {
				So(testutil.ToFloat64(manager.regionRenders.WithLabelValues("result-text", "info")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.navigations.WithLabelValues("/form")), ShouldEqual, 2)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("Then recording never panics", func() {
			So(func() {
				RecordBackendRequest("/get_fact", "ok", 1)
				RecordRegionRender("factTile", "plain")
				RecordNavigation("/statistics")
				RecordLoopTask()
				UpdateLoopPending(3)
				IncInflight()
				DecInflight()
				RecordHTTPRequest("predict", "POST", "200")
				RecordHTTPRequestDuration("predict", "POST", "200", 1.5)
				RecordErrorByEndpoint("predict", "POST", "client_error")
				UpdateMemoryUsage(1 << 20)
				UpdateGoroutineCount(12)
				RecordGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers the riskboard families", func() {
			RecordNavigation("/form")
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["riskboard_dashboard_navigations_total"], ShouldBeTrue)
			So(names["riskboard_process_goroutine_count"], ShouldBeTrue)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recording", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					manager.RecordBackendRequest("/ask_ai", "ok", float64(j))
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(manager.backendRequests.WithLabelValues("/ask_ai", "ok")), ShouldEqual, 1000)
	})
}
