package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	list []Appointment
	err  error
	got  string
}

func (f *fakeSource) Appointments(ctx context.Context, taxpayerID string) ([]Appointment, error) {
	f.got = taxpayerID
	return f.list, f.err
}

var now = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func newService(src Source) *Service {
	s := NewService(src, time.Second, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestGetSplitsAroundNow(t *testing.T) {
	src := &fakeSource{list: []Appointment{
		{ID: "late", StartsAt: now.Add(72 * time.Hour)},
		{ID: "old", StartsAt: now.Add(-72 * time.Hour)},
		{ID: "soon", StartsAt: now.Add(time.Hour)},
		{ID: "older", StartsAt: now.Add(-720 * time.Hour)},
	}}

	ov := newService(src).Get(context.Background(), "tp-1")

	if src.got != "tp-1" {
		t.Errorf("taxpayer = %q", src.got)
	}
	if ov.Example || ov.Notice != "" {
		t.Errorf("real data marked as example: %+v", ov)
	}
	if ov.Next == nil || ov.Next.ID != "soon" {
		t.Fatalf("next = %+v", ov.Next)
	}
	if len(ov.Past) != 2 || ov.Past[0].ID != "old" || ov.Past[1].ID != "older" {
		t.Fatalf("past = %+v", ov.Past)
	}
}

func TestGetFallsBackToExamples(t *testing.T) {
	for name, svc := range map[string]*Service{
		"error":     newService(&fakeSource{err: errors.New("connection refused")}),
		"no source": newService(nil),
	} {
		ov := svc.Get(context.Background(), "tp-1")
		if !ov.Example || ov.Notice != ExampleNotice {
			t.Errorf("%s: overview not marked as example: %+v", name, ov)
		}
		if ov.Next == nil || len(ov.Past) == 0 {
			t.Errorf("%s: example overview incomplete: %+v", name, ov)
		}
	}
}

func TestGetEmpty(t *testing.T) {
	ov := newService(&fakeSource{}).Get(context.Background(), "tp-1")
	if ov.Next != nil || len(ov.Past) != 0 || ov.Example {
		t.Fatalf("overview = %+v", ov)
	}
}
