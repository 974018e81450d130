// Command vpd runs the VPD control daemon: it accepts MPD-family TCP
// control sessions, drives playback of a playlist of sopcast/file URIs
// through external sopcast/cvlc subprocesses, and optionally serves an
// admin HTTP surface (/healthz, /metrics).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/famish99/vpd/internal/config"
	"github.com/famish99/vpd/internal/daemon"
	"github.com/famish99/vpd/internal/vpdlog"
)

var (
	configPath  = flag.String("config", "", "Path to configuration file")
	showHelp    = flag.Bool("help", false, "Print usage and exit")
	port        = flag.Int("port", 0, "Override the listen port from the config file")
	bindAddress = flag.String("bind-to-address", "", "Override the bind address from the config file")
)

func main() {
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vpd: loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *bindAddress != "" {
		cfg.BindToAddress = *bindAddress
	}

	logOutput := io.Writer(os.Stderr)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vpd: opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOutput = f
	}
	vpdlog.Configure(vpdlog.Config{Level: cfg.LogLevel, Output: logOutput})
	logger := vpdlog.Base()

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("vpd: failed to initialize")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	logger.Info().Int("port", cfg.Port).Str("bind_to_address", cfg.BindToAddress).Msg("vpd: starting")
	if err := d.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("vpd: exited with error")
		os.Exit(1)
	}
}
