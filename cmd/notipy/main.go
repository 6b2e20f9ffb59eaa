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

	"slack-notipy/internal/config"
	"slack-notipy/internal/logging"
	"slack-notipy/internal/relay"
	"slack-notipy/internal/slack"

	"github.com/rs/zerolog/log"
)

const (
	exitOK       = 0
	exitDelivery = 1
	exitUsage    = 2

	cliName = "notipy:cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "serve" {
		return runServe(ctx, args[1:], stderr)
	}
	return runSend(ctx, args, stdout, stderr)
}

func runSend(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("notipy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: notipy [flags] <message>\n       notipy serve [flags]")
		fs.PrintDefaults()
	}
	name := fs.String("name", cliName, "sender name")
	title := fs.String("title", "", "title (default: title of the message type)")
	msgType := fs.String("type", string(slack.LevelInfo), "message type: success, info, warning, error")
	color := fs.String("color", "", "color override, e.g. #36a64f (default: color of the message type)")
	footer := fs.String("footer", "", "footer (default: notipy:cli on <host>)")
	priority := fs.Bool("priority", false, "add the Priority field of the message type")
	envFile := fs.String("env-file", "", "settings file (default: $NOTIPY_ENV_FILE or .env)")
	verbose := fs.Bool("v", false, "print the delivery id on success")

	text, err := parseWithMessage(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*envFile, true)
	if err != nil {
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		return exitUsage
	}
	n, err := slack.New(cfg.Notify)
	if err != nil {
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		return exitUsage
	}
	if strings.TrimSpace(*footer) == "" {
		*footer = fmt.Sprintf("%s on %s", cliName, n.Origin().Host)
	}

	id, err := n.Notify(ctx, slack.Message{
		Text:            text,
		Level:           slack.ParseLevel(*msgType),
		Name:            *name,
		Title:           *title,
		Color:           *color,
		Footer:          *footer,
		IncludePriority: *priority,
	})
	if err != nil {
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		if errors.Is(err, slack.ErrConfig) {
			return exitUsage
		}
		log.Error().Err(err).Str("delivery_id", id).Msg("send failed")
		return exitDelivery
	}
	if *verbose {
		fmt.Fprintln(stdout, id)
	}
	return exitOK
}

// parseWithMessage accepts flags before and after the single positional
// message argument.
func parseWithMessage(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() == 0 {
		return "", errors.New("message is required")
	}
	text := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("message is empty")
	}
	return text, nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("notipy serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "", "listen address (default: $RELAY_ADDR or 127.0.0.1:8787)")
	envFile := fs.String("env-file", "", "settings file (default: $NOTIPY_ENV_FILE or .env)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(*envFile, false)
	if err != nil {
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		return exitUsage
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.Relay.Addr = *addr
	}
	n, err := slack.New(cfg.Notify)
	if err != nil {
		fmt.Fprintf(stderr, "notipy: %v\n", err)
		return exitUsage
	}
	if err := relay.Serve(ctx, cfg.Relay.Addr, relay.NewRouter(n, cfg.Relay)); err != nil {
		log.Error().Err(err).Msg("relay failed")
		return exitDelivery
	}
	return exitOK
}

// loadConfig reads the app config and sets up logging. With quiet set the
// level drops to warn unless LOG_LEVEL asks otherwise in the environment or
// the settings file, so a successful one-shot send prints nothing.
func loadConfig(envFile string, quiet bool) (config.AppConfig, error) {
	environ, err := config.Environ(envFile)
	if err != nil {
		return config.AppConfig{}, err
	}
	cfg, err := config.ParseApp(environ)
	if err != nil {
		return config.AppConfig{}, err
	}
	if _, set := environ["LOG_LEVEL"]; quiet && !set {
		cfg.Log.Level = "warn"
	}
	logging.Init(cfg.Log)
	return cfg, nil
}
