package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/transfa/monzo-bridge/internal/config"
)

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ExporterConfig{ExportJobSchedule: "not a schedule"}
	s := NewScheduler(&Jobs{}, logger, cfg)

	if err := s.Start(); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ExporterConfig{ExportJobSchedule: "*/15 * * * *"}
	s := NewScheduler(&Jobs{}, logger, cfg)

	if err := s.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	<-s.Stop().Done()
}
