package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables consulted by [Config.ApplyEnv].
const (
	EnvSpotifyClientID     = "SPOTIPY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIPY_CLIENT_SECRET"
	EnvSpotifyRedirectURI  = "SPOTIPY_REDIRECT_URI"
	EnvSetlistFMAPIKey     = "SETLISTFM_API_KEY"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Matcher     MatcherConfig     `toml:"matcher"`
	Setlists    SetlistsConfig    `toml:"setlists"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify   SpotifyConfig   `toml:"spotify"`
	SetlistFM SetlistFMConfig `toml:"setlistfm"`
}

// SpotifyConfig contains Spotify API credentials and the most recently stored token.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	TokenType    string    `toml:"token_type"`
	Expiry       time.Time `toml:"expiry,omitempty"`
}

// SetlistFMConfig contains setlist.fm API credentials.
type SetlistFMConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// MatcherConfig tunes fuzzy name resolution.
type MatcherConfig struct {
	Cutoff float64 `toml:"cutoff"`
}

// SetlistsConfig tunes setlist retrieval.
type SetlistsConfig struct {
	PageDelayMS int `toml:"page_delay_ms"`
}

// CatalogConfig tunes playlist creation and track insertion.
type CatalogConfig struct {
	BatchSize   int    `toml:"batch_size"`
	Description string `toml:"description"`
}

// LogConfig controls the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PageDelay returns the configured delay between setlist pages.
func (s SetlistsConfig) PageDelay() time.Duration {
	return time.Duration(s.PageDelayMS) * time.Millisecond
}

// Map flattens the Spotify credentials into the map accepted by the Spotify service constructor.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Token returns the stored token, or nil when no access token has been saved.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}

// Update copies token fields into the config. An empty refresh token keeps the stored one.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenType = token.TokenType
	s.Expiry = token.Expiry
	return nil
}

// CallbackAddr returns the host:port the OAuth callback listener should bind to, derived from the redirect URI.
func (s SpotifyConfig) CallbackAddr() (addr, path string, err error) {
	u, err := url.Parse(s.RedirectURI)
	if err != nil {
		return "", "", fmt.Errorf("%w: redirect_uri: %v", ErrInvalidConfig, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: redirect_uri has no host", ErrInvalidConfig)
	}
	host, port := u.Hostname(), u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return net.JoinHostPort(host, port), path, nil
}

// Validate reports missing required credentials.
func (c *Config) Validate() error {
	switch {
	case c.Credentials.Spotify.ClientID == "":
		return fmt.Errorf("%w: spotify client_id", ErrMissingCredentials)
	case c.Credentials.Spotify.ClientSecret == "":
		return fmt.Errorf("%w: spotify client_secret", ErrMissingCredentials)
	case c.Credentials.Spotify.RedirectURI == "":
		return fmt.Errorf("%w: spotify redirect_uri", ErrMissingCredentials)
	case c.Credentials.SetlistFM.APIKey == "":
		return fmt.Errorf("%w: setlistfm api_key", ErrMissingCredentials)
	}
	if c.Matcher.Cutoff < 0 || c.Matcher.Cutoff > 1 {
		return fmt.Errorf("%w: matcher cutoff must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides credentials with any non-empty environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Credentials.Spotify.ClientID, EnvSpotifyClientID)
	set(&c.Credentials.Spotify.ClientSecret, EnvSpotifyClientSecret)
	set(&c.Credentials.Spotify.RedirectURI, EnvSpotifyRedirectURI)
	set(&c.Credentials.SetlistFM.APIKey, EnvSetlistFMAPIKey)
}

// LoadEnv loads the given dotenv files into the process environment. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, p, err)
		}
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Sections left out of the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and atomically replaces the file at path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
