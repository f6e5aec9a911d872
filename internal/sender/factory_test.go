package sender

import (
	"path/filepath"
	"testing"

	"svckit/internal/config"
)

func TestNewSender_File(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SenderType = "file"
	cfg.File.FilePath = filepath.Join(t.TempDir(), "metrics.jsonl")

	s, err := NewSender(cfg)
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*FileSender); !ok {
		t.Errorf("expected *FileSender, got %T", s)
	}
}

func TestNewSender_DefaultsToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SenderType = ""
	cfg.File.FilePath = filepath.Join(t.TempDir(), "metrics.jsonl")

	s, err := NewSender(cfg)
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*FileSender); !ok {
		t.Errorf("expected *FileSender, got %T", s)
	}
}

func TestNewSender_UnknownTypeRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SenderType = "carrier-pigeon"

	if _, err := NewSender(cfg); err == nil {
		t.Fatal("expected an error for an unknown sender type")
	}
}
