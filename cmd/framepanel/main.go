// Command framepanel serves an interactive panel exercising an embedded
// webview host. With no real host attached it runs against the in-memory
// simulator, optionally with capability groups masked off to exercise the
// degraded paths.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	framepanel "github.com/goliatone/go-framepanel"
	"github.com/goliatone/go-framepanel/internal/server"
	"github.com/goliatone/go-framepanel/pkg/definition"
	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/goliatone/go-framepanel/pkg/frame/sim"
	"github.com/goliatone/go-framepanel/pkg/logging"
	"github.com/goliatone/go-framepanel/pkg/panel"
	"github.com/goliatone/go-framepanel/pkg/updater"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "framepanel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	startURL := flag.String("start-url", "https://example.com/", "initial url loaded in the simulated frame")
	mask := flag.String("mask-capabilities", "", "comma separated capability names to withhold from the host")
	definitionsDir := flag.String("definitions", "", "directory of extra panel definition files (json/yaml)")
	flag.Parse()

	cfg, err := server.Load()
	if err != nil {
		return err
	}

	tail := logging.NewTail(logging.DefaultTailSize)
	log, err := logging.New(cfg.Log, tail)
	if err != nil {
		return err
	}
	defer log.Sync()

	simOpts := []sim.Option{sim.WithStartURL(*startURL)}
	if masked := parseCapabilities(*mask); len(masked) > 0 {
		simOpts = append(simOpts, sim.WithoutCapabilities(masked...))
	}
	host := sim.New(simOpts...)

	panelOpts := []panel.Option{
		panel.WithLogger(log),
		panel.WithTail(tail),
	}

	check := updater.New(nil, updater.WithLogger(log.Logger))
	panelOpts = append(panelOpts, panel.WithUpdater(check))

	if *definitionsDir != "" {
		store, err := definition.LoadFS(os.DirFS(*definitionsDir))
		if err != nil {
			return err
		}
		panelOpts = append(panelOpts, panel.WithDefinitions(store))
	}

	controller, err := panel.New(host, panelOpts...)
	if err != nil {
		return err
	}
	defer controller.Close()

	registry, err := framepanel.DefaultRegistry()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(cfg.Renderer)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, host, controller, renderer,
		server.WithLogger(log),
		server.WithTail(tail),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	check.Start(ctx)
	defer check.Stop()

	log.Info("panel ready",
		zap.String("addr", cfg.Addr()),
		zap.String("start_url", *startURL),
	)
	return srv.Run(ctx)
}

func parseCapabilities(raw string) []frame.Capability {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	known := make(map[string]frame.Capability)
	for _, cap := range frame.AllCapabilities() {
		known[string(cap)] = cap
	}

	var out []frame.Capability
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		cap, ok := known[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "framepanel: unknown capability %q ignored\n", name)
			continue
		}
		out = append(out, cap)
	}
	return out
}
