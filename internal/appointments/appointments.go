// Package appointments loads the taxpayer's advisor appointments.
package appointments

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// ExampleNotice marks an overview built from example data.
const ExampleNotice = "Termine konnten nicht geladen werden. Es werden Beispieldaten angezeigt."

// Appointment is one meeting with a tax advisor.
type Appointment struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Advisor  string    `json:"advisor" yaml:"advisor"`
	StartsAt time.Time `json:"starts_at" yaml:"starts_at"`
	Location string    `json:"location" yaml:"location"`
	Notes    string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Overview splits appointments around the current time.
type Overview struct {
	Next    *Appointment  `json:"next" yaml:"next"`
	Past    []Appointment `json:"past" yaml:"past"`
	Example bool          `json:"example" yaml:"example"`
	Notice  string        `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Source lists the appointments of a taxpayer.
type Source interface {
	Appointments(ctx context.Context, taxpayerID string) ([]Appointment, error)
}

// Service builds overviews from a Source.
type Service struct {
	source  Source
	timeout time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// NewService returns a service over src. A nil src always yields example
// data.
func NewService(src Source, timeout time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{source: src, timeout: timeout, logger: logger, now: time.Now}
}

// Get returns the overview for taxpayerID. Failures of the source are not
// surfaced as errors: the overview falls back to example data and says so.
func (s *Service) Get(ctx context.Context, taxpayerID string) Overview {
	now := s.now()
	if s.source == nil {
		return example(now)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.source.Appointments(ctx, taxpayerID)
	if err != nil {
		s.logger.Warn("loading appointments failed, showing example data", "err", err)
		return example(now)
	}
	return split(list, now)
}

// split picks the earliest appointment at or after now as Next and returns
// the earlier ones newest first.
func split(list []Appointment, now time.Time) Overview {
	sorted := append([]Appointment(nil), list...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartsAt.Before(sorted[j].StartsAt) })

	var ov Overview
	for i := range sorted {
		a := sorted[i]
		if a.StartsAt.Before(now) {
			ov.Past = append(ov.Past, a)
			continue
		}
		if ov.Next == nil {
			ov.Next = &a
		}
	}
	for i, j := 0, len(ov.Past)-1; i < j; i, j = i+1, j-1 {
		ov.Past[i], ov.Past[j] = ov.Past[j], ov.Past[i]
	}
	return ov
}

func example(now time.Time) Overview {
	ov := split(ExampleAppointments(now), now)
	ov.Example = true
	ov.Notice = ExampleNotice
	return ov
}

// ExampleAppointments returns illustrative appointments relative to now.
func ExampleAppointments(now time.Time) []Appointment {
	day := now.Truncate(24 * time.Hour)
	return []Appointment{
		{
			ID:       "example-1",
			Title:    "Erstgespräch Steuererklärung",
			Advisor:  "Frau Berger",
			StartsAt: day.AddDate(0, -2, 0).Add(10 * time.Hour),
			Location: "Kanzlei, Raum 2",
		},
		{
			ID:       "example-2",
			Title:    "Belege besprechen",
			Advisor:  "Frau Berger",
			StartsAt: day.AddDate(0, 0, -14).Add(14 * time.Hour),
			Location: "Video-Call",
		},
		{
			ID:       "example-3",
			Title:    "Abschlussgespräch",
			Advisor:  "Herr Yilmaz",
			StartsAt: day.AddDate(0, 0, 9).Add(9*time.Hour + 30*time.Minute),
			Location: "Kanzlei, Raum 1",
			Notes:    "Bitte Lohnsteuerbescheinigung mitbringen.",
		},
	}
}

// Format renders an appointment on one line.
func Format(a Appointment) string {
	return fmt.Sprintf("%s  %s (%s, %s)", a.StartsAt.Format("02.01.2006 15:04"), a.Title, a.Advisor, a.Location)
}
