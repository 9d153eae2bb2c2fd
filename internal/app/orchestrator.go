// Package app wires a page to the prediction backend: it registers the
// dashboard's click listeners, runs every callback on one event loop, and
// turns backend responses into region updates.
package app

import (
	"context"
	"sync"

	"github.com/okian/riskboard/internal/adapters/mq/loop"
	"github.com/okian/riskboard/internal/adapters/page"
	"github.com/okian/riskboard/internal/domain/model"
	"github.com/okian/riskboard/internal/domain/render"
	"github.com/okian/riskboard/pkg/logger"
	"github.com/okian/riskboard/pkg/metrics"
)

// Element ids the orchestrator looks up.
const (
	IDPredictionBtn  = "predictionBtn"
	IDStatisticsBtn  = "statisticsBtn"
	IDFactTile       = "factTile"
	IDPredictForm    = "predict-form"
	IDPredictBtn     = "predict-btn"
	IDAskBtn         = "ask-btn"
	IDResultText     = "result-text"
	IDAdviceText     = "advice-text"
	IDStatsChart     = "statsChart"
	IDStatsAttribute = "stats-attribute"
	IDStatsBtn       = "stats-btn"
)

// Navigation targets.
const (
	LocationForm       = "/form"
	LocationStatistics = "/statistics"
)

const (
	defaultStatsAttribute = "gender"
	defaultLoopCapacity   = 1024
)

// Backend is the subset of the backend client the orchestrator needs.
type Backend interface {
	GetFact(ctx context.Context) (model.FactResponse, error)
	Predict(ctx context.Context, inputs model.FormInputs) (model.PredictionResponse, error)
	AskAI(ctx context.Context, inputs model.FormInputs) (model.AdviceResponse, error)
	StatsData(ctx context.Context, attribute string) (model.StatsResponse, error)
}

// Orchestrator drives one page.
type Orchestrator struct {
	doc     *page.Document
	backend Backend
	loop    *loop.Loop

	log            logger.Logger
	navigator      page.Navigator
	statsAttribute string
	loopCapacity   int

	mu      sync.Mutex
	ctx     context.Context
	started bool
	stopped bool

	work pending
}

// New creates an orchestrator for doc talking to backend.
func New(doc *page.Document, backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		doc:            doc,
		backend:        backend,
		log:            logger.Nop(),
		statsAttribute: defaultStatsAttribute,
		loopCapacity:   defaultLoopCapacity,
		ctx:            context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.loop = loop.New(loop.WithCapacity(o.loopCapacity), loop.WithLogger(o.log))
	return o
}

// Start runs the page's load handler on the event loop: listeners are
// attached to the controls that exist and the fact and statistics regions
// begin loading. Requests issued by the page use ctx.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}
	if o.stopped {
		return loop.ErrStopped
	}

	o.ctx = ctx
	o.loop.Start(ctx)
	o.doc.SetScheduler(o.schedule)
	o.doc.OnNavigate(o.onNavigate)
	o.started = true

	o.log.Debug(ctx, "page loaded", logger.String("location", o.doc.Location()))
	o.schedule(o.init)
	return nil
}

// Wait blocks until every scheduled callback and outstanding request has
// finished, or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	return o.work.wait(ctx)
}

// Pending returns the number of callbacks and requests not yet finished.
func (o *Orchestrator) Pending() int {
	return o.work.count()
}

// Stop drains the event loop and shuts it down. Requests still in flight
// complete without touching the page.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()
	o.loop.Stop()
}

func (o *Orchestrator) init() {
	o.listen(IDPredictionBtn, func() { o.navigate(LocationForm) })
	o.listen(IDStatisticsBtn, func() { o.navigate(LocationStatistics) })
	if o.doc.Exists(IDFactTile) {
		o.loadFact()
	}

	o.listen(IDPredictBtn, o.predict)
	o.listen(IDAskBtn, o.askAdvice)

	o.listen(IDStatsBtn, func() { o.loadStats(o.chosenAttribute()) })
	if o.doc.Exists(IDStatsChart) {
		o.loadStats(o.chosenAttribute())
	}
}

func (o *Orchestrator) listen(id string, fn func()) {
	if o.doc.AddListener(id, fn) {
		o.log.Debug(o.ctx, "listener attached", logger.String("id", id))
	}
}

// schedule posts fn onto the event loop and counts it until it has run.
func (o *Orchestrator) schedule(fn func()) {
	o.work.add()
	err := o.loop.Post(func() {
		defer o.work.done()
		fn()
	})
	if err != nil {
		o.work.done()
		o.log.Warn(o.ctx, "callback dropped", logger.Error(err))
	}
}

// request runs call off the loop and schedules the completion it returns.
func (o *Orchestrator) request(call func(ctx context.Context) func()) {
	o.work.add()
	go func() {
		defer o.work.done()
		complete := call(o.ctx)
		o.schedule(func() {
			if o.doc.Closed() {
				return
			}
			complete()
		})
	}()
}

func (o *Orchestrator) navigate(target string) {
	metrics.RecordNavigation(target)
	o.doc.Navigate(target)
}

func (o *Orchestrator) onNavigate(location string) {
	o.log.Info(o.ctx, "navigating", logger.String("location", location))
	if o.navigator != nil {
		o.navigator(location)
	}
}

func (o *Orchestrator) loadFact() {
	o.show(IDFactTile, render.FactLoading())
	o.request(func(ctx context.Context) func() {
		resp, err := o.backend.GetFact(ctx)
		return func() {
			if err != nil {
				o.log.Error(ctx, "fact request failed", logger.Error(err))
				o.show(IDFactTile, render.FactUnavailable())
				return
			}
			o.show(IDFactTile, render.Fact(resp))
		}
	})
}

func (o *Orchestrator) predict() {
	if !o.doc.Exists(IDResultText) {
		o.log.Warn(o.ctx, "prediction skipped, no result region", logger.String("id", IDResultText))
		return
	}
	inputs := o.snapshot()
	o.show(IDResultText, render.PredictLoading())
	o.request(func(ctx context.Context) func() {
		resp, err := o.backend.Predict(ctx, inputs)
		return func() {
			if err != nil {
				o.log.Error(ctx, "prediction request failed", logger.Error(err))
				o.show(IDResultText, render.PredictionFailed())
				return
			}
			o.show(IDResultText, render.Prediction(resp))
		}
	})
}

func (o *Orchestrator) askAdvice() {
	if !o.doc.Exists(IDAdviceText) {
		o.log.Warn(o.ctx, "advice skipped, no advice region", logger.String("id", IDAdviceText))
		return
	}
	inputs := o.snapshot()
	o.show(IDAdviceText, render.AdviceLoading())
	o.request(func(ctx context.Context) func() {
		resp, err := o.backend.AskAI(ctx, inputs)
		return func() {
			if err != nil {
				o.log.Error(ctx, "advice request failed", logger.Error(err))
				o.show(IDAdviceText, render.AdviceFailed())
				return
			}
			o.show(IDAdviceText, render.Advice(resp))
		}
	})
}

func (o *Orchestrator) loadStats(attribute string) {
	if !o.doc.Exists(IDStatsChart) {
		return
	}
	o.show(IDStatsChart, render.StatsLoading())
	o.request(func(ctx context.Context) func() {
		resp, err := o.backend.StatsData(ctx, attribute)
		return func() {
			if err != nil {
				o.log.Error(ctx, "statistics request failed",
					logger.String("attribute", attribute), logger.Error(err))
				o.show(IDStatsChart, render.StatsFailed())
				return
			}
			o.show(IDStatsChart, render.Stats(attribute, resp))
		}
	})
}

func (o *Orchestrator) chosenAttribute() string {
	if v, err := o.doc.Value(IDStatsAttribute); err == nil && v != "" {
		return v
	}
	return o.statsAttribute
}

// snapshot reads the prediction form. A page without the form submits an
// empty mapping.
func (o *Orchestrator) snapshot() model.FormInputs {
	inputs, err := o.doc.FormData(IDPredictForm)
	if err != nil {
		o.log.Debug(o.ctx, "form snapshot unavailable", logger.Error(err))
		return model.FormInputs{}
	}
	return inputs
}

func (o *Orchestrator) show(region string, d model.Display) {
	if d.Class != nil {
		if err := o.doc.SetClass(region, *d.Class); err != nil {
			o.log.Warn(o.ctx, "region update failed", logger.String("region", region), logger.Error(err))
			return
		}
	}
	if err := o.doc.SetHTML(region, d.HTML); err != nil {
		o.log.Warn(o.ctx, "region update failed", logger.String("region", region), logger.Error(err))
		return
	}
	metrics.RecordRegionRender(region, d.StyleName())
}
