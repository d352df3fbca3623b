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

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/getwvkeys/getwvkeys"
	"github.com/getwvkeys/getwvkeys/internal/config"
	"github.com/getwvkeys/getwvkeys/internal/console"
	"github.com/getwvkeys/getwvkeys/internal/logger"
	"github.com/getwvkeys/getwvkeys/internal/prompt"
)

// Injected with ldflags at build:
//
//	-ldflags "-X main.apiURL=https://example.com -X main.apiKey=..."
var (
	apiURL string
	apiKey string
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if opts.version {
		_, _ = fmt.Fprintln(stdout, getwvkeys.VersionString())
		return 0
	}

	_, _ = fmt.Fprint(stdout, banner())
	out := console.New(stdout, stderr, !color.NoColor && stdout == os.Stdout)

	cfg, err := config.Load(".env")
	if err != nil {
		out.Errorf("%v", err)
		return 1
	}

	if len(args) == 0 {
		fs.SetOutput(stdout)
		fs.Usage()
		_, _ = fmt.Fprintln(stdout)
		opts.buildInfo = ""
		opts.verbose = false
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(level, zapcore.AddSync(stderr))
	defer func() { _ = log.Sync() }()

	opts.apiKey = firstNonEmpty(opts.apiKey, cfg.APIKey, apiKey)
	err = prompt.Complete(prompt.NewLine(stdin, stdout),
		prompt.Field{Label: "Enter License URL: ", Value: &opts.url},
		prompt.Field{Label: "Enter PSSH: ", Value: &opts.pssh},
		prompt.Field{Label: "Enter GetWVKeys API Key: ", Value: &opts.apiKey},
	)
	if err != nil {
		out.Errorf("%v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := getwvkeys.NewClient(firstNonEmpty(opts.apiURL, cfg.APIURL, apiURL),
		getwvkeys.WithTimeout(cfg.APITimeout),
		getwvkeys.WithLogger(log.Named("api")))
	license := getwvkeys.NewLicenseServer(
		getwvkeys.WithTimeout(cfg.LicenseTimeout),
		getwvkeys.WithLogger(log.Named("license")))
	wf := getwvkeys.NewWorkflow(client, license, out, getwvkeys.WithLogger(log.Named("workflow")))

	log.Debug("starting", zap.String("api", client.Endpoint()), zap.Bool("force", opts.force))

	if _, err := wf.Run(ctx, opts.params()); err != nil {
		out.Errorf("%v", err)
		return 1
	}

	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func banner() string {
	return fmt.Sprintf(`
   ____      _ __        ____     ___  __
  / ___| ___| |\ \      / /\ \   / / |/ /___ _   _ ___
 | |  _ / _ \ __\ \ /\ / /  \ \ / /| ' // _ \ | | / __|
 | |_| |  __/ |_ \ V  V /    \ V / | . \  __/ |_| \__ \
  \____|\___|\__| \_/\_/      \_/  |_|\_\___|\__, |___/
                                             |___/
                    Script Version: %s
                    API Version: %s

`, getwvkeys.ScriptVersion, getwvkeys.APIVersion)
}
