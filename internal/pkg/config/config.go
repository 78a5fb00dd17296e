package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

const DefaultPollInterval = 30 * time.Second

var ErrMissingToken = errors.New("smartthings access token is required")

type Config struct {
	SmartThings *SmartThingsConfig
	Webhook     *WebhookConfig
	Mqtt        *MqttConfig
	Database    *DatabaseConfig
	Server      *ServerConfig
	LogLevel    string
}

type SmartThingsConfig struct {
	AccessToken  string
	LocationID   string
	PollInterval time.Duration
}

type WebhookConfig struct {
	Enabled         bool
	URL             string
	TunnelSubdomain string
	// RelayURL is the websocket endpoint of the tunnel relay. Empty disables
	// the tunnel.
	RelayURL       string `env:"TUNNEL_RELAY_URL"`
	InstalledAppID string `env:"SMARTTHINGS_INSTALLED_APP_ID"`
	LocalPort      int    `env:"TUNNEL_LOCAL_PORT" envDefault:"8123"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
	ClientID string `env:"MQTT_CLIENT_ID" envDefault:"smartthingsce"`
	Root     string `env:"MQTT_ROOT_TOPIC" envDefault:"smartthingsce"`
	// DiscoveryPrefix is where Home Assistant listens for config messages.
	DiscoveryPrefix string `env:"MQTT_DISCOVERY_PREFIX" envDefault:"homeassistant"`
}

type DatabaseConfig struct {
	URL              string `env:"DATABASE_URL"`
	MigrationsFolder string `env:"MIGRATIONS_FOLDER" envDefault:"migrations"`
	CleanupSchedule  string `env:"DATABASE_CLEANUP_SCHEDULE" envDefault:"0 3 * * *"`
}

type ServerConfig struct {
	Address        string        `env:"SERVER_ADDR" envDefault:"0.0.0.0:8123"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	// CommandTimeout replaces WriteTimeout for commands, scenes and refreshes,
	// which answer only after the following device refresh.
	CommandTimeout time.Duration `env:"SERVER_COMMAND_TIMEOUT" envDefault:"2m"`
	APIKeyHash     string        `env:"API_KEY_HASH"`
	JWTSecret      string        `env:"JWT_SECRET"`
}

// AuthEnabled reports whether the service and entity routes need a token.
func (s *ServerConfig) AuthEnabled() bool {
	return s.APIKeyHash != "" && s.JWTSecret != ""
}

func (m *MqttConfig) Enabled() bool {
	return m.Host != ""
}

func (d *DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// LoadInfra parses the optional infrastructure sub-configs from the environment.
func (c *Config) LoadInfra() error {
	c.Mqtt = &MqttConfig{}
	c.Database = &DatabaseConfig{}
	c.Server = &ServerConfig{}
	if c.Webhook == nil {
		c.Webhook = &WebhookConfig{}
	}
	for _, target := range []any{c.Mqtt, c.Database, c.Server, c.Webhook} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
	}
	return nil
}

// Validate normalises the user supplied settings.
func (c *Config) Validate() error {
	if c.SmartThings == nil {
		return ErrMissingToken
	}
	c.SmartThings.AccessToken = strings.TrimSpace(c.SmartThings.AccessToken)
	if c.SmartThings.AccessToken == "" {
		return ErrMissingToken
	}
	if c.SmartThings.PollInterval <= 0 {
		c.SmartThings.PollInterval = DefaultPollInterval
	}
	if c.Webhook != nil && c.Webhook.TunnelSubdomain == "" {
		c.Webhook.TunnelSubdomain = TunnelSubdomain()
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	return nil
}

// TunnelSubdomain generates a random subdomain of the form
// <uuid[:8]>-<uuid[:8]>-stce.
func TunnelSubdomain() string {
	return fmt.Sprintf("%s-%s-stce", uuid.NewString()[:8], uuid.NewString()[:8])
}
