package config

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/steuerklar/steuerklar/internal/filing"
)

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	catalog := filing.DefaultCatalog()

	// --- Taxpayer ---
	if cfg.Taxpayer.Name == "" {
		errs = append(errs, ValidationError{Field: "taxpayer.name", Message: "required field is empty"})
	}
	if cfg.Taxpayer.Email != "" {
		if _, err := mail.ParseAddress(cfg.Taxpayer.Email); err != nil {
			errs = append(errs, ValidationError{
				Field:   "taxpayer.email",
				Message: fmt.Sprintf("not a valid address: %q", cfg.Taxpayer.Email),
			})
		}
	}

	// --- Years ---
	if len(cfg.Years) == 0 {
		errs = append(errs, ValidationError{Field: "years", Message: "at least one filing year is required"})
	}
	for i, y := range cfg.Years {
		if y <= 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("years[%d]", i),
				Message: fmt.Sprintf("must be > 0, got %d", y),
			})
		}
	}

	// --- Workspace ---
	if cfg.Workspace.Documents == "" {
		errs = append(errs, ValidationError{Field: "workspace.documents", Message: "required field is empty"})
	}

	// --- Session defaults ---
	for g, items := range cfg.Defaults.Selections {
		group, ok := catalog.Group(g)
		if !ok {
			errs = append(errs, ValidationError{
				Field:   "defaults.selections." + g,
				Message: "unknown group",
			})
			continue
		}
		for _, it := range items {
			if _, ok := group.Option(it); !ok {
				errs = append(errs, ValidationError{
					Field:   "defaults.selections." + g,
					Message: fmt.Sprintf("unknown option %q", it),
				})
			}
		}
	}

	// --- Facts ---
	if cfg.Facts.CommuteDistanceKm < 0 {
		errs = append(errs, ValidationError{
			Field:   "facts.commuteDistanceKm",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Facts.CommuteDistanceKm),
		})
	}
	if c := cfg.Facts.Relocation.Costs; c != "" {
		if _, err := decimal.NewFromString(c); err != nil {
			errs = append(errs, ValidationError{
				Field:   "facts.relocation.costs",
				Message: fmt.Sprintf("not a decimal: %q", c),
			})
		}
	}
	for id, raw := range cfg.Facts.Amounts {
		if _, err := decimal.NewFromString(raw); err != nil {
			errs = append(errs, ValidationError{
				Field:   "facts.amounts." + id,
				Message: fmt.Sprintf("not a decimal: %q", raw),
			})
		}
	}

	// --- Appointments ---
	if url := cfg.Appointments.DatabaseURL; url != "" &&
		!strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		errs = append(errs, ValidationError{
			Field:   "appointments.databaseURL",
			Message: "must be a postgres:// URL",
		})
	}
	if cfg.Appointments.TimeoutSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "appointments.timeoutSec",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.Appointments.TimeoutSec),
		})
	}

	// --- Messages ---
	switch cfg.Messages.Sink {
	case "file":
		if cfg.Messages.Path == "" {
			errs = append(errs, ValidationError{Field: "messages.path", Message: "required for the file sink"})
		}
	case "redis":
		if cfg.Messages.RedisURL == "" {
			errs = append(errs, ValidationError{Field: "messages.redisURL", Message: "required for the redis sink"})
		}
		if cfg.Messages.Stream == "" {
			errs = append(errs, ValidationError{Field: "messages.stream", Message: "required for the redis sink"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "messages.sink",
			Message: fmt.Sprintf("must be \"file\" or \"redis\", got %q", cfg.Messages.Sink),
		})
	}

	// --- Log ---
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Log.Level),
		})
	}

	return errs
}
