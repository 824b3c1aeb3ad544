package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pageObject/internal/browser"
	"pageObject/internal/component"
	"pageObject/internal/config"
	"pageObject/internal/logger"
	"pageObject/internal/migrations"
	"pageObject/internal/recording"
)

var rootCmd = &cobra.Command{
	Use:           "pageobject",
	Short:         "Page object browser automation: shell, recording viewer and migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs.
type app struct {
	cfg    *config.Cfg
	log    *logger.Zap
	runDir *logger.RunDir
	db     *recording.Database
	store  recording.Store
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	now := time.Now()
	runDir, err := logger.NewRunDir(cfg.Logger.Root, now)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level, logger.WithFile(runDir.LogFile))
	if err != nil {
		return nil, err
	}
	cfg.Log(log.Logger)

	removed, err := logger.Prune(cfg.Logger.Root, cfg.Logger.Keep(), now, runDir.Path)
	if err != nil {
		log.Warn("prune log dirs", zap.Error(err))
	}
	for _, dir := range removed {
		log.Debug("removed old log dir", zap.String("dir", dir))
	}
	return &app{cfg: cfg, log: log, runDir: runDir}, nil
}

// openStore connects to the recording database when recording is enabled, otherwise keeps runs in memory.
func (a *app) openStore() error {
	if !a.cfg.Recording.Enabled {
		a.store = recording.NewMemoryStore()
		return nil
	}
	if err := migrations.Run(a.cfg, a.log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	db, err := recording.New(a.cfg, a.log)
	if err != nil {
		return err
	}
	a.db = db
	a.store = recording.NewRepository(db.DB)
	return nil
}

func (a *app) browserConfig() browser.Config {
	return browser.Config{
		Engine:       a.cfg.Browser.Driver,
		Browser:      a.cfg.Browser.Name,
		Headless:     a.cfg.Browser.Headless,
		UserDataDir:  a.cfg.Browser.UserDataDir,
		BrowsersPath: a.cfg.Browser.BrowsersPath,
		Display:      a.cfg.Browser.Display,
		SeleniumURL:  a.cfg.Browser.SeleniumURL,
		DownloadDir:  a.runDir.Downloads,
	}
}

// newSession starts a recorded session named name.
func (a *app) newSession(ctx context.Context, name string) (*component.Session, *recording.Recorder, error) {
	driver, err := browser.New(a.browserConfig())
	if err != nil {
		return nil, nil, err
	}
	rec, err := recording.Start(ctx, a.store, a.log.Logger, name, a.cfg.Browser.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("start run: %w", err)
	}
	session := component.NewSession(driver,
		component.WithLogger(a.log.Logger),
		component.WithTimeout(a.cfg.Wait.Timeout()),
		component.WithRecorder(rec),
		component.WithScreenshotDir(a.runDir.Screenshots),
		component.WithDownloadDir(a.runDir.Downloads),
	)
	return session, rec, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.log)
	}
	_ = a.log.Close()
}
