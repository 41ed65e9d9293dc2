// imgset adds responsive srcset attributes to the images of HTML pages.
//
// Usage:
//
//	imgset [flags] < page.html > out.html
//	imgset [flags] page.html other.html
//
// With no file arguments the document is read from stdin and written to
// stdout; otherwise every file is rewritten in place.
//
// Exit codes:
//   - 0: success
//   - 1: a document could not be rewritten
//   - 2: usage or configuration error
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/heathj/imgset/config"
	"github.com/heathj/imgset/rewrite"
	"github.com/sirupsen/logrus"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, nil)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, environ map[string]string) int {
	fs := flag.NewFlagSet("imgset", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML configuration file (default $IMGSET_CONFIG)")
	fragment := fs.Bool("fragment", false, "treat input as a body fragment instead of a full document")
	omitEmpty := fs.Bool("omit-empty", false, "never write an empty srcset")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	concurrency := fs.Int("concurrency", 0, "files to rewrite at once")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, Version)
		return 0
	}

	cfg, err := config.Resolve(*configPath, environ)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 2
	}

	// flags given on the command line win over file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fragment":
			cfg.Fragment = *fragment
		case "omit-empty":
			cfg.OmitEmptySrcset = *omitEmpty
		case "log-level":
			cfg.LogLevel = *logLevel
		case "concurrency":
			cfg.Concurrency = *concurrency
		}
	})
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.Level())

	rw := rewrite.New(cfg.SrcsetOptions(),
		rewrite.WithResolver(rewrite.Chain{rewrite.Manifest(cfg.Images), rewrite.Attributes{}}),
		rewrite.WithLogger(logger),
		rewrite.WithFragment(cfg.Fragment),
		rewrite.WithConcurrency(cfg.Concurrency),
	)

	var stats rewrite.Stats
	if fs.NArg() == 0 {
		stats, err = rw.Stream(stdin, stdout)
	} else {
		stats, err = rw.Files(ctx, fs.Args())
	}

	entry := logger.WithFields(logrus.Fields{
		"files":   stats.Files,
		"visited": stats.Visited,
		"updated": stats.Updated,
		"skipped": stats.Skipped,
		"failed":  stats.Failed,
	})
	if err != nil {
		entry.WithError(err).Error("rewrite failed")
		return 1
	}
	entry.Debug("done")
	return 0
}
