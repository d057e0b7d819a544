// Package main is the operator console for the admin panel. It reads commands from stdin and
// runs them against the festival API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vistara-fest/backend/config"
	"github.com/vistara-fest/backend/internal/admin"
	"github.com/vistara-fest/backend/internal/apiclient"
)

func main() {
	apiURL := flag.String("api", "", "festival API base URL (defaults to ADMIN_API_URL)")
	verbose := flag.Bool("verbose", false, "log API failures at debug level to stderr")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	base := cfg.Client.APIURL
	if *apiURL != "" {
		base = *apiURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := bufio.NewScanner(os.Stdin)
	ui := &terminalUI{in: in, out: os.Stdout}
	panel := admin.New(apiclient.New(base, nil), ui, logger)
	sh := &shell{panel: panel, ui: ui, out: os.Stdout}

	fmt.Fprintf(os.Stdout, "festival admin console, API %s. Type help for commands.\n", base)
	for {
		fmt.Fprint(os.Stdout, sh.prompt())
		if !in.Scan() {
			return
		}
		if quit := sh.run(ctx, in.Text()); quit {
			return
		}
	}
}

func newLogger(verbose bool) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, _ := config.Build()
	return logger
}
