package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/eightbit"
	"github.com/opd-ai/eightbit/config"
	"github.com/opd-ai/eightbit/effects"
	"github.com/opd-ai/eightbit/listener"
)

// effectList collects repeated -effect flags.
type effectList []effects.Effect

func (l *effectList) String() string {
	parts := make([]string, len(*l))
	for i, e := range *l {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

func (l *effectList) Set(s string) error {
	e, err := effects.ParseEffect(s)
	if err != nil {
		return err
	}
	*l = append(*l, e)
	return nil
}

// idList collects comma separated listener ids.
type idList []listener.ID

func (l *idList) String() string {
	parts := make([]string, len(*l))
	for i, id := range *l {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid listener id %q: %w", part, err)
		}
		*l = append(*l, listener.ID(id))
	}
	return nil
}

// CLIConfig is the parsed command line.
type CLIConfig struct {
	relay     *config.Config
	port      uint
	effects   effectList
	join      idList
	listKinds bool
}

// parseCLIFlags parses args into a CLI configuration.
func parseCLIFlags(args []string, output io.Writer) (*CLIConfig, error) {
	cfg := config.Default()
	cli := &CLIConfig{relay: cfg}

	fs := flag.NewFlagSet("eightbit", flag.ContinueOnError)
	fs.SetOutput(output)

	// Network configuration
	fs.StringVar(&cfg.Address, "address", config.DefaultAddress, "UDP listen address")
	fs.UintVar(&cli.port, "port", config.DefaultPort, "UDP listen port")
	fs.BoolVar(&cfg.BroadcastPackets, "broadcast", false, "Send processed packets to every other peer")
	fs.StringVar(&cfg.Framing, "framing", config.DefaultFraming, "Packet framing (raw, rtp)")
	fs.StringVar(&cfg.Codec, "codec", config.DefaultCodec, "Listener codec (pcm, opus)")

	// Effect configuration
	fs.Float64Var(&cfg.CrushFactor, "crush", config.DefaultCrushFactor, "Bit-depth quantization step")
	fs.Float64Var(&cfg.GainFactor, "gain", config.DefaultGainFactor, "Bit-depth gain")
	fs.IntVar(&cfg.DesampleRate, "desample", config.DefaultDesampleRate, "Decimation rate")
	fs.IntVar(&cfg.FrameCapacity, "frame-capacity", config.DefaultFrameCapacity, "Frame buffer size in samples")
	fs.Var(&cli.effects, "effect", "Effect stage as kind:p0,p1 (repeatable, replaces the default chain)")
	fs.Var(&cli.join, "join", "Comma separated listener ids to afflict at startup")
	fs.BoolVar(&cli.listKinds, "list-effects", false, "List effect kinds and exit")

	// Logging configuration
	fs.StringVar(&cfg.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cli.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be at most 65535", cli.port)
	}
	cfg.Port = uint16(cli.port)
	cfg.Chain = cli.effects
	return cli, nil
}

// setupLogging applies the configured level and format to logrus.
func setupLogging(cfg *config.Config, output io.Writer) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetOutput(output)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return nil
}

// printKinds writes every registered effect kind.
func printKinds(w io.Writer) {
	for _, k := range effects.DefaultRegistry().Kinds() {
		fmt.Fprintln(w, k.String())
	}
}

// run starts the relay and blocks until ctx is done.
func run(ctx context.Context, cli *CLIConfig) error {
	r, err := eightbit.New(cli.relay)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, id := range cli.join {
		if _, err := r.Join(id); err != nil {
			return fmt.Errorf("join %d: %w", id, err)
		}
	}

	if err := r.Start(ctx); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":  "run",
		"addr":      r.Addr().String(),
		"listeners": r.Store().IDs(),
		"chain":     fmt.Sprint(cli.relay.DefaultChain()),
	}).Info("Relay running")

	<-ctx.Done()

	stats := r.Stats()
	logrus.WithFields(logrus.Fields{
		"function":  "run",
		"received":  stats.Received,
		"processed": stats.Processed,
		"forwarded": stats.Forwarded,
		"dropped":   stats.Dropped,
	}).Info("Relay shutting down")
	return nil
}

func main() {
	cli, err := parseCLIFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cli.listKinds {
		printKinds(os.Stdout)
		return
	}

	if err := setupLogging(cli.relay, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cli); err != nil {
		logrus.WithError(err).Error("Relay failed")
		os.Exit(1)
	}
}
