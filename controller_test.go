package svckit

import (
	"errors"
	"testing"
)

func TestMemoryController_RoundTrip(t *testing.T) {
	mc := NewMemoryController()

	exists, err := mc.Exists("alpha")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("fresh controller should know no services")
	}

	if err := mc.Create("alpha", Config{Binary: "/bin/alpha"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	exists, _ = mc.Exists("alpha")
	if !exists {
		t.Fatal("service should exist after create")
	}

	if err := mc.Start("alpha"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !mc.Running("alpha") {
		t.Error("service should be running after start")
	}

	if err := mc.Stop("alpha"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if mc.Running("alpha") {
		t.Error("service should not be running after stop")
	}

	if err := mc.Delete("alpha"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	exists, _ = mc.Exists("alpha")
	if exists {
		t.Error("service should be gone after delete")
	}
}

func TestMemoryController_DoubleCreateRejected(t *testing.T) {
	mc := NewMemoryController()
	if err := mc.Create("alpha", Config{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := mc.Create("alpha", Config{})
	if !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("double create should also match ErrRejected, got %v", err)
	}
}

func TestMemoryController_OperationsOnMissingService(t *testing.T) {
	mc := NewMemoryController()

	if err := mc.Start("ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("start: expected ErrNotInstalled, got %v", err)
	}
	if err := mc.Stop("ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("stop: expected ErrNotInstalled, got %v", err)
	}
	if err := mc.Delete("ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("delete: expected ErrNotInstalled, got %v", err)
	}
}
