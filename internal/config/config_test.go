package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "gymgate-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "gymgate-auth")
	}
	if cfg.QRTokenTTL != "60s" {
		t.Errorf("QRTokenTTL = %q, want %q", cfg.QRTokenTTL, "60s")
	}
	if cfg.PersonCacheTTL != "30s" {
		t.Errorf("PersonCacheTTL = %q, want %q", cfg.PersonCacheTTL, "30s")
	}
	if cfg.TelemetryKafkaTopic != "gymgate-scans" {
		t.Errorf("TelemetryKafkaTopic = %q, want %q", cfg.TelemetryKafkaTopic, "gymgate-scans")
	}
	if cfg.KafkaGroupID != "gymgate-scan-worker" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "gymgate-scan-worker")
	}
	if cfg.OTLPInsecure {
		t.Error("OTLPInsecure should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("QR_TOKEN_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.TokenTTL() != 2*time.Minute {
		t.Errorf("TokenTTL() = %v, want %v", cfg.TokenTTL(), 2*time.Minute)
	}
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when APP_ENV=production and JWT_SECRET is empty")
	}

	os.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with JWT_SECRET: %v", err)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, "prod-secret")
	}
}

func TestTokenTTL_InvalidFallsBack(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "90s", 90 * time.Second},
		{"invalid", "soon", 60 * time.Second},
		{"zero", "0s", 60 * time.Second},
		{"negative", "-5s", 60 * time.Second},
		{"empty", "", 60 * time.Second},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{QRTokenTTL: tc.value}
			if got := cfg.TokenTTL(); got != tc.want {
				t.Errorf("TokenTTL() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCacheTTL_InvalidFallsBack(t *testing.T) {
	cfg := &Config{PersonCacheTTL: "bogus"}
	if got := cfg.CacheTTL(); got != 30*time.Second {
		t.Errorf("CacheTTL() = %v, want %v", got, 30*time.Second)
	}
	cfg = &Config{PersonCacheTTL: "5m"}
	if got := cfg.CacheTTL(); got != 5*time.Minute {
		t.Errorf("CacheTTL() = %v, want %v", got, 5*time.Minute)
	}
}

func TestTelemetryKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"multiple", "a:9092, b:9092", []string{"a:9092", "b:9092"}},
		{"trailing comma", "a:9092,", []string{"a:9092"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{TelemetryKafkaBrokers: tc.value}
			got := cfg.TelemetryKafkaBrokersList()
			if len(got) != len(tc.want) {
				t.Fatalf("brokers = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("brokers[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
