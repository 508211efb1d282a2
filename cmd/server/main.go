package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casevault/casevault/infra/initializer"
	"github.com/casevault/casevault/infra/migrations"
	"github.com/casevault/casevault/pkg/app"
	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/webapi"
	log "github.com/charmbracelet/log"
)

type options struct {
	envFile string
	migrate bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.envFile, "env", ".env", "environment file, searched upward from the working directory")
	fs.BoolVar(&opts.migrate, "migrate", false, "apply database migrations before serving")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// @title CaseVault API
// @version 1.0.0
// @description Login verification and case document lookup
// @host localhost:5000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter the identity token in the format: `Bearer {token}`"
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger := initializer.SetupLogger(os.Stdout, cfg.Log)

	if opts.migrate {
		logger.Info("Applying database migrations")
		if err := migrations.Run(cfg.DB.Url, migrations.Up); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	deps, err := initializer.InitializeDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a, err := app.New(deps, cfg)
	if err != nil {
		_ = app.CloseAll(deps.Closers)
		return err
	}
	defer a.Close() //nolint:errcheck

	fiberApp := webapi.SetupApp(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
		"auth_strategy", cfg.Auth.Strategy,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
