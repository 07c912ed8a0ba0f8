package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/steuerklar/steuerklar/internal/appointments"
	"github.com/steuerklar/steuerklar/internal/auth"
	"github.com/steuerklar/steuerklar/internal/config"
	"github.com/steuerklar/steuerklar/internal/documents"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/messages"
)

// currentIdentity resolves the configured taxpayer. A missing taxpayer is
// not fatal; the wizard then uses its neutral placeholder.
func currentIdentity(ctx context.Context) (auth.Identity, error) {
	id, err := auth.FromConfig(cfg).Current(ctx)
	if errors.Is(err, auth.ErrNoIdentity) {
		logger.Warn("no taxpayer configured, set taxpayer.name in config.yaml")
		return auth.Identity{}, nil
	}
	return id, err
}

// newWizard builds a wizard from the configuration. A year > 0 starts the
// session right away.
func newWizard(id auth.Identity, year int) (*filing.Wizard, error) {
	opts, err := cfg.WizardOptions(id.DisplayName())
	if err != nil {
		return nil, fmt.Errorf("building wizard: %w", err)
	}
	w := filing.NewWizard(opts)
	if year > 0 {
		w.SelectYear(year)
	}
	return w, nil
}

// defaultYear returns the first configured year.
func defaultYear() int {
	if len(cfg.Years) == 0 {
		return time.Now().Year() - 1
	}
	return cfg.Years[0]
}

func openStore(l *log.Logger) (*documents.Store, error) {
	store, err := documents.NewStore(config.Resolve(cfg.Workspace.Documents), l)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	return store, nil
}

// openAppointments returns the appointment service. Without a reachable
// database the service serves example data. The returned func releases the
// connection pool.
func openAppointments(ctx context.Context, l *log.Logger) (*appointments.Service, func()) {
	timeout := time.Duration(cfg.Appointments.TimeoutSec) * time.Second
	if cfg.Appointments.DatabaseURL == "" {
		return appointments.NewService(nil, timeout, l), func() {}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pool, err := appointments.Connect(ctx, cfg.Appointments.DatabaseURL)
	if err != nil {
		l.Warn("appointments database unavailable", "err", err)
		return appointments.NewService(nil, timeout, l), func() {}
	}
	src := appointments.NewPostgresSource(pool)
	return appointments.NewService(src, timeout, l), src.Close
}

func openSink() (messages.Sink, error) {
	sink, err := messages.NewSink(cfg.Messages)
	if err != nil {
		return nil, fmt.Errorf("opening message sink: %w", err)
	}
	return sink, nil
}
