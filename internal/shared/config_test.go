package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected base URL https://api.spotify.com/v1, got %s", config.API.BaseURL)
		}

		if config.API.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("expected token URL https://accounts.spotify.com/api/token, got %s", config.API.TokenURL)
		}

		if config.API.Market != "US" {
			t.Errorf("expected market US, got %s", config.API.Market)
		}

		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.API.Timeout())
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if len(config.Credentials.Spotify.Scopes) == 0 {
			t.Error("expected default scopes")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("config file should exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
access_token = "abc"

[api]
base_url = "http://localhost:9090/v1"
requests_per_second = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:9090/v1" {
			t.Errorf("expected overridden base URL, got %s", config.API.BaseURL)
		}
		if config.API.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 requests per second, got %v", config.API.RequestsPerSecond)
		}
		if config.API.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("expected default token URL to be kept, got %s", config.API.TokenURL)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.AccessToken != "abc" {
			t.Errorf("expected access token abc, got %s", config.Credentials.Spotify.AccessToken)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadOrDefault Missing File", func(t *testing.T) {
		config, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Error("expected default config")
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

		config := DefaultConfig()
		config.Credentials.Spotify.AccessToken = "access"
		config.Credentials.Spotify.RefreshToken = "refresh"
		config.Credentials.Spotify.Expiry = expiry

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Credentials.Spotify.AccessToken != "access" {
			t.Errorf("expected access token to round trip, got %s", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Credentials.Spotify.RefreshToken != "refresh" {
			t.Errorf("expected refresh token to round trip, got %s", loaded.Credentials.Spotify.RefreshToken)
		}
		if !loaded.Credentials.Spotify.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, loaded.Credentials.Spotify.Expiry)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Update", func(t *testing.T) {
		s := SpotifyConfig{RefreshToken: "old-refresh", CodeVerifier: "verifier"}
		expiry := time.Now().Add(time.Hour)

		if err := s.Update(&oauth2.Token{AccessToken: "new", Expiry: expiry}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.AccessToken != "new" {
			t.Errorf("expected access token new, got %s", s.AccessToken)
		}
		if s.RefreshToken != "old-refresh" {
			t.Errorf("expected refresh token to be kept, got %s", s.RefreshToken)
		}
		if s.CodeVerifier != "" {
			t.Error("expected code verifier to be cleared")
		}
		if !s.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, s.Expiry)
		}
	})

	t.Run("Update Rejects Empty Token", func(t *testing.T) {
		var s SpotifyConfig
		if err := s.Update(&oauth2.Token{}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if err := s.Update(nil); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		tc := []struct {
			name string
			cfg  SpotifyConfig
			want bool
		}{
			{name: "no token", cfg: SpotifyConfig{}, want: false},
			{name: "no expiry", cfg: SpotifyConfig{AccessToken: "a"}, want: false},
			{name: "future expiry", cfg: SpotifyConfig{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, want: false},
			{name: "past expiry", cfg: SpotifyConfig{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}, want: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.cfg.Expired(); got != tt.want {
					t.Errorf("Expired() = %v, want %v", got, tt.want)
				}
			})
		}
	})
}
