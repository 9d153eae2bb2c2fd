// Package console drives the dashboard pages from a terminal: it loads an
// embedded page against a live backend, fills forms, activates controls and
// prints the resulting regions.
package console

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okian/riskboard/internal/adapters/http/backend"
	"github.com/okian/riskboard/internal/adapters/http/site"
	"github.com/okian/riskboard/internal/adapters/page"
	"github.com/okian/riskboard/internal/app"
	"github.com/okian/riskboard/pkg/logger"
)

// session is one loaded page and the orchestrator driving it.
type session struct {
	doc  *page.Document
	orch *app.Orchestrator
}

func (s *session) settle(ctx context.Context) error {
	return s.orch.Wait(ctx)
}

func (s *session) stop() {
	s.orch.Stop()
}

// Run executes one console session.
func Run(ctx context.Context, cfg *Config) error {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	location := cfg.Page
	if location == "" {
		location = site.Dashboard
	}

	log.Info(ctx, "starting riskboard console",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("page", location),
		logger.Int("clicks", len(cfg.Clicks)),
		logger.Int("sets", len(cfg.Sets)),
		logger.Bool("interactive", cfg.Interactive),
		logger.Bool("follow", cfg.Follow))

	client, err := backend.New(cfg.BaseURL,
		backend.WithTimeout(cfg.Timeout),
		backend.WithLogger(log.Named("backend")),
	)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	applied := make(map[string]bool, len(cfg.Sets))
	sess, err := open(ctx, cfg, client, log, location, applied)
	if err != nil {
		return err
	}
	defer func() { sess.stop() }()

	for _, id := range cfg.Clicks {
		if sess.doc.Closed() {
			if !cfg.Follow {
				log.Warn(ctx, "page navigated away; remaining clicks ignored",
					logger.String("location", sess.doc.Location()))
				break
			}
			next, err := reopen(ctx, cfg, client, log, sess, applied)
			if err != nil {
				return err
			}
			sess = next
		}
		if err := sess.doc.Click(id); err != nil {
			return fmt.Errorf("click %s: %w", id, err)
		}
		if err := sess.settle(ctx); err != nil {
			return fmt.Errorf("waiting for %s: %w", id, err)
		}
	}
	if sess.doc.Closed() && cfg.Follow {
		next, err := reopen(ctx, cfg, client, log, sess, applied)
		if err != nil {
			return err
		}
		sess = next
	}

	for _, a := range cfg.Sets {
		if !applied[a.Name] {
			return fmt.Errorf("%w: %s", ErrUnapplied, a.Name)
		}
	}
	return Print(out, sess.doc)
}

// open loads location, starts its orchestrator, waits for the load-time
// requests and applies any field values the page can take.
func open(ctx context.Context, cfg *Config, client app.Backend, log logger.Logger, location string, applied map[string]bool) (*session, error) {
	doc, err := site.Load(location)
	if err != nil {
		return nil, err
	}
	orch := app.New(doc, client,
		app.WithLogger(log.Named("console")),
		app.WithStatsAttribute(cfg.StatsAttribute),
	)
	if err := orch.Start(ctx); err != nil {
		return nil, fmt.Errorf("start page %s: %w", location, err)
	}
	sess := &session{doc: doc, orch: orch}
	if err := sess.settle(ctx); err != nil {
		sess.stop()
		return nil, fmt.Errorf("load page %s: %w", location, err)
	}

	if err := applySets(doc, cfg.Sets, applied); err != nil {
		sess.stop()
		return nil, err
	}
	if cfg.Interactive && cfg.Prompter != nil {
		if err := FillInteractively(ctx, doc, cfg.Prompter); err != nil {
			sess.stop()
			return nil, err
		}
	}
	return sess, nil
}

func reopen(ctx context.Context, cfg *Config, client app.Backend, log logger.Logger, prev *session, applied map[string]bool) (*session, error) {
	next := prev.doc.Location()
	prev.stop()
	log.Info(ctx, "following navigation", logger.String("location", next))
	return open(ctx, cfg, client, log, next, applied)
}

// applySets writes each assignment into the first form on doc that has the
// field. Fields the page lacks are left for later pages.
func applySets(doc *page.Document, sets []Assignment, applied map[string]bool) error {
	forms := doc.FormIDs()
	for _, a := range sets {
		for _, formID := range forms {
			err := doc.SetValue(formID, a.Name, a.Value)
			if errors.Is(err, page.ErrNoField) {
				continue
			}
			if err != nil {
				return fmt.Errorf("set %s: %w", a.Name, err)
			}
			applied[a.Name] = true
			break
		}
	}
	return nil
}
