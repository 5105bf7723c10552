package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pos_terminal/internal/api"
	"pos_terminal/internal/config"
	"pos_terminal/internal/pos"
	"pos_terminal/internal/printer"

	"go.uber.org/zap"
)

type Runner struct {
	options  Options
	logger   *zap.Logger
	register *pos.Register
}

func NewRunner(cfg config.Config, logger *zap.Logger, register *pos.Register) *Runner {
	logger = logger.Named("cli")
	opts := Options{
		APIBaseURL: cfg.APIBaseURL,
		PrinterURL: cfg.PrinterURL,
		Timeout:    cfg.Timeout,
		LogFile:    cfg.LogFile,
		Debug:      cfg.Debug,
	}

	return &Runner{
		options:  opts,
		logger:   logger,
		register: register,
	}
}

func (r *Runner) Execute() error {
	return runCLI(&r.options, r.logger)
}

func runCLI(opts *Options, logger *zap.Logger) error {
	var timeoutSeconds int

	fs := flag.NewFlagSet("pos-terminal", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [command [query]]\n", fs.Name())
		fmt.Fprintln(os.Stderr, "Commands: products [query], summary, history. No command starts the register.")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.APIBaseURL, "api-url", opts.APIBaseURL, "POS API base URL (API_BASE_URL)")
	fs.StringVar(&opts.PrinterURL, "printer-url", opts.PrinterURL, "Receipt printer URL, blank disables printing (PRINTER_URL)")
	fs.BoolVar(&opts.Receipt, "receipt", false, "Print a receipt before each checkout")
	fs.BoolVar(&opts.JSON, "json", false, "Output JSON format")
	fs.BoolVar(&opts.Debug, "debug", opts.Debug, "Enable debug logging")
	fs.StringVar(&opts.LogFile, "log-file", opts.LogFile, "Log file path")
	fs.IntVar(&timeoutSeconds, "timeout", int(opts.Timeout.Seconds()), "Request timeout in seconds")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
			return nil
		}
		return err
	}

	if timeoutSeconds > 0 {
		opts.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	args := fs.Args()
	if len(args) > 0 {
		opts.Command = strings.ToLower(strings.TrimSpace(args[0]))
		opts.Query = strings.TrimSpace(strings.Join(args[1:], " "))
	}

	register := newRegisterFromOptions(opts, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	s := newSession(register, opts, logger)
	if opts.Command == "" {
		return s.runREPL(ctx)
	}
	return s.runOneShot(ctx)
}

func newRegisterFromOptions(opts *Options, logger *zap.Logger) *pos.Register {
	cfg := config.Config{
		APIBaseURL: opts.APIBaseURL,
		PrinterURL: opts.PrinterURL,
		Timeout:    opts.Timeout,
	}
	apiClient := api.NewClient(cfg, logger)
	printerClient := printer.NewClient(cfg, logger)
	return pos.NewRegister(apiClient, printerClient, logger)
}
