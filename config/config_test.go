package config

import (
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ATTEND_AUTH_JWT_SECRET", "test-secret-key-for-unit-tests")
	t.Setenv("ATTEND_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Errorf("expected default access ttl 1h, got %s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Report.PaperSize != "A4" {
		t.Errorf("expected default paper A4, got %s", cfg.Report.PaperSize)
	}
	if cfg.Mail.Enabled() {
		t.Error("mail should be disabled without smtp host")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("ATTEND_AUTH_JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "ok",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			},
		},
		{
			name: "short secret",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{JWTSecret: "short"},
			},
			wantErr: true,
		},
		{
			name: "bad port",
			cfg: Config{
				Server: ServerConfig{Port: 70000},
				Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			},
			wantErr: true,
		},
		{
			name: "bad paper",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
				Report: ReportConfig{PaperSize: "A3"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
