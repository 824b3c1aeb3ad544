package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
)

type Cfg struct {
	Browser    Browser
	Wait       Wait
	Logger     Logger
	Database   Database
	Migrations Migrations
	App        App
	Recording  Recording

	entries []Entry
}

type Browser struct {
	Name         string
	Driver       string
	Headless     bool
	SeleniumURL  string
	Display      string
	UserDataDir  string
	BrowsersPath string
}

type Wait struct {
	TimeoutMs int
}

func (w Wait) Timeout() time.Duration {
	return time.Duration(w.TimeoutMs) * time.Millisecond
}

type Logger struct {
	Env         string
	Level       string
	Root        string
	KeepMinutes int
}

func (l Logger) Keep() time.Duration {
	return time.Duration(l.KeepMinutes) * time.Minute
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL is the form golang-migrate expects.
func (d Database) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

type Migrations struct {
	Path string
}

type App struct {
	Host string
	Port string
}

type Recording struct {
	Enabled bool
}

// Entry records where a configuration value came from.
type Entry struct {
	Key    string
	Value  string
	Source string
}

// file mirrors the YAML layout. Nil fields were not set.
type file struct {
	Browser struct {
		Name         *string `yaml:"name"`
		Driver       *string `yaml:"driver"`
		Headless     *bool   `yaml:"headless"`
		SeleniumURL  *string `yaml:"selenium_url"`
		UserDataDir  *string `yaml:"user_data_dir"`
		BrowsersPath *string `yaml:"browsers_path"`
	} `yaml:"browser"`
	Wait struct {
		TimeoutMs *int `yaml:"timeout_ms"`
	} `yaml:"wait"`
	Log struct {
		Env         *string `yaml:"env"`
		Level       *string `yaml:"level"`
		Root        *string `yaml:"root"`
		KeepMinutes *int    `yaml:"keep_minutes"`
	} `yaml:"log"`
	Database struct {
		Host     *string `yaml:"host"`
		Port     *string `yaml:"port"`
		Name     *string `yaml:"name"`
		User     *string `yaml:"user"`
		Password *string `yaml:"password"`
	} `yaml:"database"`
	Migrations struct {
		Path *string `yaml:"path"`
	} `yaml:"migrations"`
	Server struct {
		Host *string `yaml:"host"`
		Port *string `yaml:"port"`
	} `yaml:"server"`
	Recording struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"recording"`
}

// Load reads .env, then the YAML file named by PAGEOBJECT_CONFIG (pageobject.yaml by default),
// then environment variables. Later sources win.
func Load() (*Cfg, error) {
	_ = godotenv.Load()

	path := env("PAGEOBJECT_CONFIG", "pageobject.yaml")
	f, err := readFile(path)
	if err != nil {
		return nil, err
	}

	l := &loader{}
	cfg := &Cfg{
		Browser: Browser{
			Name:         strings.ToLower(l.str("browser.name", "BROWSER", f.Browser.Name, "chrome")),
			Driver:       strings.ToLower(l.str("browser.driver", "BROWSER_DRIVER", f.Browser.Driver, "playwright")),
			Headless:     l.flag("browser.headless", "BROWSER_HEADLESS", f.Browser.Headless, false),
			SeleniumURL:  l.str("browser.selenium_url", "SELENIUM_URL", f.Browser.SeleniumURL, "http://localhost:4444/wd/hub"),
			Display:      env("DISPLAY", ":0"),
			UserDataDir:  l.str("browser.user_data_dir", "PW_USER_DATA_DIR", f.Browser.UserDataDir, ""),
			BrowsersPath: l.str("browser.browsers_path", "PLAYWRIGHT_BROWSERS_PATH", f.Browser.BrowsersPath, ""),
		},
		Wait: Wait{
			TimeoutMs: max(0, l.number("wait.timeout_ms", "WAIT_TIMEOUT_MS", f.Wait.TimeoutMs, 5000)),
		},
		Logger: Logger{
			Env:         l.str("log.env", "ENV", f.Log.Env, "dev"),
			Level:       l.str("log.level", "LOG_LEVEL", f.Log.Level, "info"),
			Root:        l.str("log.root", "LOG_ROOT", f.Log.Root, "./log"),
			KeepMinutes: max(0, l.number("log.keep_minutes", "LOG_KEEP_MINUTES", f.Log.KeepMinutes, 0)),
		},
		Database: Database{
			Host:     l.str("database.host", "DB_HOST", f.Database.Host, "localhost"),
			Port:     l.str("database.port", "DB_PORT", f.Database.Port, "5432"),
			Name:     l.str("database.name", "DB_NAME", f.Database.Name, "pageobject"),
			User:     l.str("database.user", "DB_USER", f.Database.User, "postgres"),
			Password: l.secret("database.password", "DB_PASS", f.Database.Password),
		},
		Migrations: Migrations{
			Path: l.str("migrations.path", "MIGRATIONS_PATH", f.Migrations.Path, "file://migrations"),
		},
		App: App{
			Host: l.str("server.host", "APP_HOST", f.Server.Host, "127.0.0.1"),
			Port: l.str("server.port", "APP_PORT", f.Server.Port, "8080"),
		},
		Recording: Recording{
			Enabled: l.flag("recording.enabled", "RECORDING_ENABLED", f.Recording.Enabled, false),
		},
	}
	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	cfg.entries = l.entries
	return cfg, nil
}

func readFile(path string) (*file, error) {
	f := &file{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

// Entries returns every loaded key with its source.
func (c *Cfg) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Cfg) Log(log *zap.Logger) {
	for _, e := range c.entries {
		log.Info("config",
			zap.String("key", e.Key),
			zap.String("value", e.Value),
			zap.String("source", e.Source),
			zap.Bool("default", e.Source == SourceDefault),
		)
	}
}

type loader struct {
	entries []Entry
	errs    []error
}

func (l *loader) add(key, value, source string) {
	l.entries = append(l.entries, Entry{Key: key, Value: value, Source: source})
}

func (l *loader) str(key, envKey string, fromFile *string, def string) string {
	if v := os.Getenv(envKey); v != "" {
		l.add(key, v, SourceEnv)
		return v
	}
	if fromFile != nil {
		l.add(key, *fromFile, SourceFile)
		return *fromFile
	}
	l.add(key, def, SourceDefault)
	return def
}

func (l *loader) secret(key, envKey string, fromFile *string) string {
	v := l.str(key, envKey, fromFile, "")
	if v != "" {
		l.entries[len(l.entries)-1].Value = "***"
	}
	return v
}

func (l *loader) number(key, envKey string, fromFile *int, def int) int {
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			l.errs = append(l.errs, fmt.Errorf("%s: %w", envKey, err))
			return def
		}
		l.add(key, v, SourceEnv)
		return n
	}
	if fromFile != nil {
		l.add(key, strconv.Itoa(*fromFile), SourceFile)
		return *fromFile
	}
	l.add(key, strconv.Itoa(def), SourceDefault)
	return def
}

func (l *loader) flag(key, envKey string, fromFile *bool, def bool) bool {
	if v := os.Getenv(envKey); v != "" {
		b := envBool(envKey)
		l.add(key, strconv.FormatBool(b), SourceEnv)
		return b
	}
	if fromFile != nil {
		l.add(key, strconv.FormatBool(*fromFile), SourceFile)
		return *fromFile
	}
	l.add(key, strconv.FormatBool(def), SourceDefault)
	return def
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}
