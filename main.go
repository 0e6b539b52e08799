package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	rscqr "rsc.io/qr"

	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/handlers"
	"github.com/cristianadrielbraun/qrstudio/internal/history"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/session"
	"github.com/cristianadrielbraun/qrstudio/internal/storage"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
)

var version = "v0.1.0"

func main() {
	var configPath, envFile string

	root := &cobra.Command{
		Use:          "qrstudio",
		Short:        "QR code generator with logo overlay and history",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file")

	// --- serve command -------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, envFile)
		},
	})

	// --- generate command ----------------------------------------------------
	var gen generateFlags
	generateCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), configPath, envFile, args[0], gen)
		},
	}
	f := generateCmd.Flags()
	f.StringVarP(&gen.output, "output", "o", "qrcode.png", "Output PNG file")
	f.StringVar(&gen.logo, "logo", "", "Logo image to place in the centre")
	f.IntVar(&gen.size, "size", 0, "Image size in pixels (default from config)")
	f.StringVar(&gen.dot, "dot", "", "Dot color as #rrggbb")
	f.StringVar(&gen.bg, "bg", "", "Background color as #rrggbb")
	f.StringVar(&gen.level, "level", "", "Error correction level: L, M, Q or H")
	f.StringVar(&gen.engine, "engine", "", "Encoder engine: "+strings.Join(render.Engines(), ", "))
	f.BoolVar(&gen.terminal, "terminal", false, "Also print the code to the terminal")
	f.StringVar(&gen.scope, "scope", "cli", "History scope")
	root.AddCommand(generateCmd)

	// --- history command -----------------------------------------------------
	var historyScope string
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), configPath, envFile, historyScope)
		},
	}
	historyCmd.Flags().StringVar(&historyScope, "scope", "cli", "History scope")
	root.AddCommand(historyCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrstudio %s\n", version)
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// app is the wiring shared by every command.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	kv     storage.KV
	enc    render.Encoder
	studio *studio.Studio
}

func setup(ctx context.Context, configPath, envFile, engine string, log *slog.Logger) (*app, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if log == nil {
		log = newLogger(cfg.LogLevel)
	}
	if engine == "" {
		engine = cfg.Engine
	}
	enc, err := render.New(engine)
	if err != nil {
		return nil, err
	}
	defaults, err := cfg.RenderDefaults()
	if err != nil {
		return nil, err
	}
	kv, err := storage.New(ctx, cfg.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	st := studio.New(enc, history.New(kv, log), defaults, log)
	return &app{cfg: cfg, log: log, kv: kv, enc: enc, studio: st}, nil
}

// runServe is the web entrypoint.
func runServe(configPath, envFile string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := setup(ctx, configPath, envFile, "", nil)
	if err != nil {
		return err
	}
	defer a.kv.Close()
	slog.SetDefault(a.log)

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	sessions := session.NewManager(a.cfg.SessionTTL.Duration, a.log)
	handlers.New(a.studio, sessions, a.enc, a.log).Register(r)

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	a.log.Info("qrstudio listening", "addr", srv.Addr, "version", version,
		"engine", a.enc.Name(), "storage", a.cfg.Storage.Type)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	return serveUntilSignal(srv, quit, a.log)
}

// serveUntilSignal runs srv until quit fires, then shuts it down gracefully.
// A listener failure is returned rather than exiting so deferred cleanup in
// the caller still runs.
func serveUntilSignal(srv *http.Server, quit <-chan os.Signal, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("HTTP server error", "error", err)
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}

type generateFlags struct {
	output, logo   string
	size           int
	dot, bg, level string
	engine, scope  string
	terminal       bool
}

func runGenerate(ctx context.Context, configPath, envFile, text string, fl generateFlags) error {
	// Keep stdout for the terminal rendering.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a, err := setup(ctx, configPath, envFile, fl.engine, log)
	if err != nil {
		return err
	}
	defer a.kv.Close()

	sess := session.New(fl.scope)
	if fl.logo != "" {
		lf, err := os.Open(fl.logo)
		if err != nil {
			return fmt.Errorf("open logo: %w", err)
		}
		_, err = a.studio.SetLogo(sess, lf)
		lf.Close()
		if err != nil {
			return fmt.Errorf("logo %s: %w", fl.logo, err)
		}
	}

	req, err := studio.NewRequest(text, fl.size, fl.dot, fl.bg, fl.level, a.studio.Defaults())
	if err != nil {
		return err
	}
	res, err := a.studio.Generate(ctx, sess, req)
	if err != nil {
		return err
	}

	if err := os.WriteFile(fl.output, res.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fl.output, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%dpx, level %s, engine %s)\n", fl.output, res.Options.Size, res.Options.Level, a.enc.Name())
	if res.PrivacyWarning {
		fmt.Fprintf(os.Stderr, "warning: text may contain private data (%s)\n", strings.Join(res.SensitiveTerms, ", "))
	}
	if res.Logo && !res.Scannable {
		fmt.Fprintln(os.Stderr, "warning: the logo may make this code unreadable; try --level H")
	}
	if res.HistoryErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", res.HistoryErr)
	}

	if fl.terminal {
		qrterminal.GenerateHalfBlock(res.Text, terminalLevel(res.Options.Level), os.Stdout)
	}
	return nil
}

func terminalLevel(l render.Level) rscqr.Level {
	switch l {
	case render.LevelL:
		return qrterminal.L
	case render.LevelQ:
		return rscqr.Q
	case render.LevelH:
		return qrterminal.H
	default:
		return qrterminal.M
	}
}

func runHistory(ctx context.Context, configPath, envFile, scope string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a, err := setup(ctx, configPath, envFile, "", log)
	if err != nil {
		return err
	}
	defer a.kv.Close()

	entries := a.studio.History(ctx, session.New(scope))
	if len(entries) == 0 {
		fmt.Println("no history")
		return nil
	}
	for i, e := range entries {
		fmt.Printf("%d  %-40q  %dpx  %s  %s on %s\n", i, e.Text, e.Options.Size, e.Options.Level, e.Options.DotColor, e.Options.BackgroundColor)
	}
	return nil
}
