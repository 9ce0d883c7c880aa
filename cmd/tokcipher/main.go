// Package main provides the tokcipher CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lwch/logging"

	"github.com/born-ml/tokcipher/internal/cipher"
	"github.com/born-ml/tokcipher/internal/config"
	"github.com/born-ml/tokcipher/internal/engine"
	"github.com/born-ml/tokcipher/internal/server"
)

const version = "v0.1.0"

const usage = `tokcipher rotates BPE token ids by a seed-derived key.

Usage:
  tokcipher encrypt [-seed S] [-encoding E] [-offline] [-tokens] [text...]
  tokcipher decrypt [-seed S] [-encoding E] [-offline] [-tokens] [text...]
  tokcipher seed
  tokcipher serve [-addr A] [-encoding E] [-offline]
  tokcipher version

Text is read from the arguments, or from stdin without its trailing newline.
Without -seed a fresh 12-digit seed is generated and printed to stderr.
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "tokcipher: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "encrypt":
		return runTransform(ctx, cipher.Encrypt, args[1:], stdin, stdout, stderr)
	case "decrypt":
		return runTransform(ctx, cipher.Decrypt, args[1:], stdin, stdout, stderr)
	case "seed":
		fmt.Fprintln(stdout, cipher.RandomSeed())
		return nil
	case "serve":
		return runServe(ctx, args[1:], stderr)
	case "version":
		fmt.Fprintf(stdout, "tokcipher %s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runTransform(ctx context.Context, mode cipher.Mode, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet(mode.String(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.String("seed", "", "seed: integer literal or passphrase")
	encoding := fs.String("encoding", cfg.Encoding, "tiktoken encoding, model name or HuggingFace model directory")
	offline := fs.Bool("offline", cfg.Offline, "use vocabularies embedded in the binary")
	showTokens := fs.Bool("tokens", false, "print input and output token ids")
	timeout := fs.Duration("timeout", cfg.InitTimeout, "tokenizer load timeout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	seedSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if !seedSet {
		*seed = cipher.RandomSeed()
		fmt.Fprintf(stderr, "seed: %s\n", *seed)
	}

	text, err := readText(fs.Args(), stdin)
	if err != nil {
		return err
	}

	eng := engine.New(engine.AutoLoader(*encoding, *offline),
		engine.WithParallel(cfg.Parallel()),
		engine.WithInitTimeout(*timeout),
	)
	eng.Start(ctx)
	if err := eng.Wait(ctx); err != nil {
		return err
	}

	res, err := eng.Transform(text, *seed, mode)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.Output)
	if *showTokens {
		fmt.Fprintf(stdout, "input tokens (%d): %s\n", res.InputCount(), cipher.FormatTokens(res.InputTokens))
		fmt.Fprintf(stdout, "output tokens: %s\n", cipher.FormatTokens(res.OutputTokens))
	}
	return nil
}

func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "tiktoken encoding, model name or HuggingFace model directory")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "use vocabularies embedded in the binary")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	eng := engine.New(engine.AutoLoader(cfg.Encoding, cfg.Offline),
		engine.WithParallel(cfg.Parallel()),
		engine.WithInitTimeout(cfg.InitTimeout),
	)
	eng.Start(ctx)

	srv := server.New(eng, server.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	logging.Info("tokcipher %s loading %s (offline=%t)", version, cfg.Encoding, cfg.Offline)

	start := time.Now()
	err := server.ListenAndServe(ctx, cfg.Addr, srv.Handler())
	logging.Info("stopped after %s", time.Since(start).Round(time.Second))
	return err
}
