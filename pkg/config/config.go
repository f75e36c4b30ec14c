// Package config assembles the process configuration from an optional .env
// file, an optional YAML file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"liyu1981.xyz/telemetry-service/pkg/common"
)

const (
	DBTypeFile   = "file"
	DBTypeMemory = "memory"
)

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
}

func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func (i InfluxConfig) Enabled() bool {
	return i.URL != ""
}

type Config struct {
	// APIKey is the shared secret every write operation must present.
	APIKey string `yaml:"api_key"`

	DBType string `yaml:"db_type"`
	DBPath string `yaml:"db_path"`

	HTTPHostPort string   `yaml:"http_host_port"`
	GRPCHostPort string   `yaml:"grpc_host_port"`
	StaticDir    string   `yaml:"static_dir"`
	CORSOrigins  []string `yaml:"cors_origins"`

	// DefaultRate <= 0 turns per-device rate limiting off.
	DefaultRate  float64 `yaml:"default_rate"`
	DefaultBurst int     `yaml:"default_burst"`

	LogDir string `yaml:"log_dir"`

	MQTT   MQTTConfig   `yaml:"mqtt"`
	Influx InfluxConfig `yaml:"influx"`
}

func Default() Config {
	return Config{
		DBType:       DBTypeFile,
		DBPath:       "hsp.sqlite3",
		HTTPHostPort: ":1080",
		StaticDir:    "frontend",
		CORSOrigins:  []string{"*"},
		MQTT: MQTTConfig{
			Topic:    "telemetry/readings",
			ClientID: "telemetry-service",
			QoS:      1,
		},
		Influx: InfluxConfig{
			Bucket: "telemetry",
		},
	}
}

// Load reads .env (if present), overlays IOT_CONFIG_FILE (if set) and then
// the environment. The result is validated.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv(common.EnvKeyIOTConfigFile); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() error {
	overrideString(&c.APIKey, common.EnvKeyIOTAPIKey)
	overrideString(&c.DBType, common.EnvKeyIOTDBType)
	overrideString(&c.DBPath, common.EnvKeyIOTDbPath)
	overrideString(&c.HTTPHostPort, common.EnvKeyIOTHttpHostPort)
	overrideString(&c.GRPCHostPort, common.EnvKeyIOTGrpcHostPort)
	overrideString(&c.StaticDir, common.EnvKeyIOTStaticDir)
	overrideString(&c.LogDir, common.EnvKeyIOTLogDir)

	if v, ok := lookup(common.EnvKeyIOTCORSOrigins); ok {
		c.CORSOrigins = common.SplitCSV(v)
	}

	if v, ok := lookup(common.EnvKeyIOTDefaultRate); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q, should be a float64 value", common.EnvKeyIOTDefaultRate, v)
		}
		c.DefaultRate = rate
	}

	if v, ok := lookup(common.EnvKeyIOTDefaultBurst); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q, should be an int value", common.EnvKeyIOTDefaultBurst, v)
		}
		c.DefaultBurst = burst
	}

	overrideString(&c.MQTT.Broker, common.EnvKeyIOTMQTTBroker)
	overrideString(&c.MQTT.Topic, common.EnvKeyIOTMQTTTopic)
	overrideString(&c.MQTT.ClientID, common.EnvKeyIOTMQTTClientID)
	overrideString(&c.MQTT.Username, common.EnvKeyIOTMQTTUsername)
	overrideString(&c.MQTT.Password, common.EnvKeyIOTMQTTPassword)

	overrideString(&c.Influx.URL, common.EnvKeyIOTInfluxURL)
	overrideString(&c.Influx.Token, common.EnvKeyIOTInfluxToken)
	overrideString(&c.Influx.Org, common.EnvKeyIOTInfluxOrg)
	overrideString(&c.Influx.Bucket, common.EnvKeyIOTInfluxBucket)

	return nil
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is required", common.EnvKeyIOTAPIKey)
	}

	switch c.DBType {
	case DBTypeFile:
		if c.DBPath == "" {
			return fmt.Errorf("%s is required when %s=%s", common.EnvKeyIOTDbPath, common.EnvKeyIOTDBType, DBTypeFile)
		}
	case DBTypeMemory:
	default:
		return fmt.Errorf("unknown %s: %q", common.EnvKeyIOTDBType, c.DBType)
	}

	if c.DefaultRate > 0 && c.DefaultBurst < 1 {
		return fmt.Errorf("%s must be at least 1 when rate limiting is on", common.EnvKeyIOTDefaultBurst)
	}

	if c.MQTT.Enabled() {
		if c.MQTT.Topic == "" {
			return fmt.Errorf("%s is required when %s is set", common.EnvKeyIOTMQTTTopic, common.EnvKeyIOTMQTTBroker)
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
		}
	}

	if c.Influx.Enabled() && (c.Influx.Org == "" || c.Influx.Bucket == "") {
		return fmt.Errorf("%s and %s are required when %s is set",
			common.EnvKeyIOTInfluxOrg, common.EnvKeyIOTInfluxBucket, common.EnvKeyIOTInfluxURL)
	}

	return nil
}

// RateLimitEnabled reports whether write operations get a per-device limiter.
func (c *Config) RateLimitEnabled() bool {
	return c.DefaultRate > 0
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func overrideString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
