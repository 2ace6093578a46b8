// Package landing parses landing service flags and launches the service.
package landing

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/tutoring-landing/internal/platform/cmd"
	"github.com/louisbranch/tutoring-landing/internal/services/landing"
)

// Config holds landing command configuration.
type Config struct {
	HTTPAddr    string `env:"LESSON_LANDING_HTTP_ADDR" envDefault:":8080"`
	OpsAddr     string `env:"LESSON_LANDING_OPS_ADDR"`
	CalendarURL string `env:"LESSON_LANDING_CALENDAR_URL" envDefault:"https://calendar.app.google/3eKBCqfq3UKN8syL9"`
	DefaultLang string `env:"LESSON_LANDING_DEFAULT_LANG" envDefault:"ar"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.OpsAddr, "ops-addr", cfg.OpsAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.CalendarURL, "calendar-url", cfg.CalendarURL, "External booking calendar URL")
	fs.StringVar(&cfg.DefaultLang, "default-lang", cfg.DefaultLang, "Locale used when a request names none")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the landing page server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLanding, func(ctx context.Context) error {
		server, err := landing.NewServer(landing.Config{
			HTTPAddr:    cfg.HTTPAddr,
			OpsAddr:     cfg.OpsAddr,
			CalendarURL: cfg.CalendarURL,
			DefaultLang: cfg.DefaultLang,
		})
		if err != nil {
			return fmt.Errorf("init landing server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve landing: %w", err)
		}
		return nil
	})
}
