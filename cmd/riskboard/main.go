// Command riskboard drives the stroke risk dashboard from a terminal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/riskboard/internal/config"
	"github.com/okian/riskboard/internal/console"
	"github.com/okian/riskboard/pkg/logger"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		clicks      multiFlag
		sets        multiFlag
		baseURL     = flag.String("url", "", "Backend base URL (overrides RISKBOARD_BASE_URL)")
		location    = flag.String("page", "/", "Page to load: /, /form or /statistics")
		interactive = flag.Bool("interactive", false, "Prompt for every form field")
		follow      = flag.Bool("follow", false, "Load the next page when a control navigates")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Var(&clicks, "click", "Element id to activate; repeatable")
	flag.Var(&sets, "set", "Form field assignment name=value; repeatable")
	flag.Parse()

	if *help {
		console.ShowHelp(os.Stdout)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
			return 2
		}
	}

	if err := console.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	assignments := make([]console.Assignment, 0, len(sets))
	for _, s := range sets {
		a, err := console.ParseAssignment(s)
		if err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
			return 2
		}
		assignments = append(assignments, a)
	}

	runCfg := &console.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.RequestTimeout(),
		Page:           *location,
		Clicks:         clicks,
		Sets:           assignments,
		Interactive:    *interactive,
		Follow:         *follow,
		StatsAttribute: cfg.DefaultStatsAttribute,
		Out:            os.Stdout,
		Logger:         logger.Named("riskboard"),
	}
	if *interactive {
		runCfg.Prompter = console.NewSurveyPrompter()
	}

	if err := console.Run(ctx, runCfg); err != nil {
		os.Stderr.WriteString("riskboard: " + err.Error() + "\n")
		return 1
	}
	return 0
}
