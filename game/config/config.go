package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration that reads and writes JSON as a duration string.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"50ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Settings are the server's tunables.
type Settings struct {
	TickInterval   Duration `json:"tick_interval"`
	SendBuffer     int      `json:"send_buffer"`
	MaxMessageSize int64    `json:"max_message_size"`
	WriteWait      Duration `json:"write_wait"`
	PongWait       Duration `json:"pong_wait"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		TickInterval:   Duration(50 * time.Millisecond),
		SendBuffer:     256,
		MaxMessageSize: 512,
		WriteWait:      Duration(10 * time.Second),
		PongWait:       Duration(60 * time.Second),
	}
}

// PingPeriod is how often the server pings a peer. It stays below PongWait.
func (s *Settings) PingPeriod() time.Duration {
	return time.Duration(s.PongWait) * 9 / 10
}

// Validate checks the settings for usable values.
func (s *Settings) Validate() error {
	var problems []string
	if s.TickInterval <= 0 {
		problems = append(problems, "tick_interval must be positive")
	}
	if s.SendBuffer < 1 {
		problems = append(problems, "send_buffer must be at least 1")
	}
	if s.MaxMessageSize < 16 {
		problems = append(problems, "max_message_size must be at least 16 bytes")
	}
	if s.WriteWait <= 0 {
		problems = append(problems, "write_wait must be positive")
	}
	if s.PongWait <= 0 {
		problems = append(problems, "pong_wait must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// OriginAllowed reports whether a websocket upgrade from origin is accepted.
// An empty allow list accepts every origin.
func (s *Settings) OriginAllowed(origin string) bool {
	if len(s.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Load reads settings from path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to path as indented JSON.
func Save(path string, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
