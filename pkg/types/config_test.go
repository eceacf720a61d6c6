package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid badger config",
			config:  Config{Backend: "badger", DataDir: "/tmp/data", PageSize: 25},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "negative page size",
			config:  Config{Backend: "sqlite", PageSize: -1},
			wantErr: ErrPageSizeInvalid,
		},
		{
			name:    "negative ink entry limit",
			config:  Config{Backend: "sqlite", Ink: InkConfig{MaxEntries: -5}},
			wantErr: ErrInkLimitInvalid,
		},
		{
			name:    "negative ink byte budget",
			config:  Config{Backend: "sqlite", Ink: InkConfig{MaxBytes: -1}},
			wantErr: ErrInkLimitInvalid,
		},
		{
			name:    "negative ink box",
			config:  Config{Backend: "sqlite", Ink: InkConfig{Width: -1}},
			wantErr: ErrInkBoxInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigEffectivePageSize(t *testing.T) {
	if got := (Config{}).EffectivePageSize(); got != DefaultPageSize {
		t.Errorf("zero page size: got %d, want %d", got, DefaultPageSize)
	}
	if got := (Config{PageSize: 7}).EffectivePageSize(); got != 7 {
		t.Errorf("explicit page size: got %d, want 7", got)
	}
}
