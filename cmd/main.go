package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/app"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

func main() {
	collect := flag.Bool("collect", false, "collect new posts and refresh metrics")
	report := flag.Bool("report", false, "generate and deliver reports")
	flag.Parse()

	log := logger.New(logger.Opts{})

	if !*collect && !*report {
		flag.Usage()
		log.Error("Pick at least one mode: -collect or -report")
		os.Exit(1)
	}

	application := fx.New(
		fx.Logger(log),
		fx.Supply(app.Modes{Collect: *collect, Report: *report}),
		app.Module,
	)

	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for a signal or a Shutdowner call from the run hook.
	sig := <-application.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := application.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}

	os.Exit(sig.ExitCode)
}
