package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "STUDYBUDDY"

type Config struct {
	Backend   BackendConfig
	Session   SessionConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Viewer    ViewerConfig
	DevServer DevServerConfig
}

// BackendConfig locates the REST backend the client talks to.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects where the authentication token is persisted.
type SessionConfig struct {
	Store     string `yaml:"store"` // file, redis or memory
	TokenKey  string `yaml:"token_key"`
	TokenFile string `yaml:"token_file"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
	// File, when set, sends log output to a rotating file instead of stdout.
	File string `yaml:"file"`
}

type ViewerConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type DevServerConfig struct {
	Port      int           `yaml:"port"`
	DBPath    string        `yaml:"db_path"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	LLM       LLMConfig     `yaml:"llm"`
}

// LLMConfig points the devserver at an Ollama server. An empty Server disables the LLM.
type LLMConfig struct {
	Server  string        `yaml:"server"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("backend.base_url", "http://127.0.0.1:8000")
	v.SetDefault("backend.timeout", 60*time.Second)

	v.SetDefault("session.store", "file")
	v.SetDefault("session.token_key", "authToken")
	v.SetDefault("session.token_file", filepath.Join(home, ".studybuddy", "session.json"))

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.file", "")

	v.SetDefault("viewer.settle_delay", 150*time.Millisecond)

	v.SetDefault("devserver.port", 8000)
	v.SetDefault("devserver.db_path", "studybuddy.db")
	v.SetDefault("devserver.jwt_secret", "")
	v.SetDefault("devserver.token_ttl", 24*time.Hour)
	v.SetDefault("devserver.llm.server", "")
	v.SetDefault("devserver.llm.model", "llama3.2")
	v.SetDefault("devserver.llm.timeout", 120*time.Second)
}

// LoadConfig reads config.yaml from configPaths (or the default search paths when none
// are given), then applies STUDYBUDDY_* environment overrides. A missing config file is
// not an error; the defaults are enough to talk to a local backend.
func LoadConfig(configPaths ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(configPaths) > 0 {
		for _, p := range configPaths {
			v.AddConfigPath(p)
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".studybuddy"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("backend.base_url"), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Session: SessionConfig{
			Store:     strings.ToLower(v.GetString("session.store")),
			TokenKey:  v.GetString("session.token_key"),
			TokenFile: v.GetString("session.token_file"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			File:  v.GetString("logger.file"),
		},
		Viewer: ViewerConfig{
			SettleDelay: v.GetDuration("viewer.settle_delay"),
		},
		DevServer: DevServerConfig{
			Port:      v.GetInt("devserver.port"),
			DBPath:    v.GetString("devserver.db_path"),
			JWTSecret: v.GetString("devserver.jwt_secret"),
			TokenTTL:  v.GetDuration("devserver.token_ttl"),
			LLM: LLMConfig{
				Server:  v.GetString("devserver.llm.server"),
				Model:   v.GetString("devserver.llm.model"),
				Timeout: v.GetDuration("devserver.llm.timeout"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the client cannot run without.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must be set")
	}
	switch c.Session.Store {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("unsupported session.store %q (want file, redis or memory)", c.Session.Store)
	}
	if c.Session.TokenKey == "" {
		return fmt.Errorf("session.token_key must be set")
	}
	return nil
}

// DevServerAddr is the listen address of the local reference backend.
func (c *Config) DevServerAddr() string {
	return fmt.Sprintf(":%d", c.DevServer.Port)
}
