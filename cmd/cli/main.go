package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/oibkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/oibkeeper/internal/client/cli"
	"github.com/dmitrijs2005/oibkeeper/internal/client/clipboard"
	"github.com/dmitrijs2005/oibkeeper/internal/client/config"
	"github.com/dmitrijs2005/oibkeeper/internal/client/history"
	"github.com/dmitrijs2005/oibkeeper/internal/client/services"
	"github.com/dmitrijs2005/oibkeeper/internal/client/storage"
	"github.com/dmitrijs2005/oibkeeper/internal/flagx"
	"github.com/dmitrijs2005/oibkeeper/internal/logging"
	"github.com/dmitrijs2005/oibkeeper/internal/metrics"
	"github.com/dmitrijs2005/oibkeeper/internal/oib"
	"github.com/hashicorp/go-multierror"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// After the first signal restore default handling so a second one kills
	// the process even if shutdown hangs.
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, clipboard.System{})
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run wires the application for one invocation. Without command words it
// starts the REPL, otherwise it executes the single command and returns.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, clip clipboard.Writer) (err error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	base, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	log, _ := cli.SessionLogger(base)

	backend, err := storage.Open(ctx, cfg.StorageDSN)
	if err != nil {
		return err
	}
	log.Debug(ctx, "storage opened", "kind", backend.Kind, "dsn", cfg.StorageDSN)

	m := metrics.New()
	defer func() {
		if cerr := shutdown(backend, m, cfg.MetricsFile); cerr != nil {
			log.Error(ctx, "shutdown failed", "err", cerr)
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	store := history.NewStore(backend.Repo, cfg.HistoryKey, log, m)
	svc := services.NewOIBService(oib.NewGenerator(nil), store, clip, log, m)
	app := cli.NewApp(svc, stdin, stdout, log)

	words := flagx.Positional(args, config.ValueFlags())
	if len(words) > 0 {
		return app.Exec(ctx, words)
	}

	buildinfo.PrintBuildData(stdout)
	log.Info(ctx, "session started")
	app.Run(ctx)
	return nil
}

// shutdown flushes metrics and closes storage, reporting every failure.
func shutdown(backend *storage.Backend, m *metrics.Metrics, metricsFile string) error {
	var errs *multierror.Error
	if err := m.WriteTextfile(metricsFile); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("write metrics: %w", err))
	}
	if err := backend.Close(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errs.ErrorOrNil()
}
