package svckit

import (
	"errors"
	"testing"
	"time"
)

func TestService_AdministrativeScenario(t *testing.T) {
	mc := NewMemoryController()
	s := New("sample", WithController(mc))

	exists, err := s.Exists()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("sample should not exist yet")
	}

	cfg := Config{
		Description: "Sample agent",
		Binary:      "/usr/local/bin/sample",
		Arguments:   []string{"run"},
		WorkingDir:  "/var/lib/sample",
	}
	if err := s.Create(cfg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if exists, _ = s.Exists(); !exists {
		t.Fatal("sample should exist after create")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !mc.Running("sample") {
		t.Error("sample should be running")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if mc.Running("sample") {
		t.Error("sample should be stopped")
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if exists, _ = s.Exists(); exists {
		t.Error("sample should be gone after delete")
	}
}

func TestService_CreateTwiceSurfacesAlreadyInstalled(t *testing.T) {
	s := New("dup", WithController(NewMemoryController()))
	if err := s.Create(Config{Binary: "/bin/dup"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(Config{Binary: "/bin/dup"}); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
}

func TestService_OptionsApplied(t *testing.T) {
	s := New("opts",
		WithController(NewMemoryController()),
		WithStopTimeout(5*time.Second),
		WithStopHint(2*time.Second),
		WithEventBuffer(64),
		WithPauseControl(),
		WithSessionNotifications(),
	)

	if s.Name() != "opts" {
		t.Errorf("name: got %q", s.Name())
	}
	if s.stopWait != 5*time.Second {
		t.Errorf("stop timeout: got %v", s.stopWait)
	}
	if s.stopHint != 2*time.Second {
		t.Errorf("stop hint: got %v", s.stopHint)
	}
	if s.eventBuffer != 64 {
		t.Errorf("event buffer: got %d", s.eventBuffer)
	}
	if !s.acceptPause || !s.acceptSessions {
		t.Error("pause and session options should be set")
	}
}
