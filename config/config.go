// Package config loads the interviewform settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Identity IdentityConfig `mapstructure:"identity"`
	Generate GenerateConfig `mapstructure:"generate"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Log      LogConfig      `mapstructure:"log"`
	Notice   NoticeConfig   `mapstructure:"notice"`
}

type IdentityConfig struct {
	URL       string `mapstructure:"url"`
	Token     string `mapstructure:"token"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type GenerateConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type NoticeConfig struct {
	History int `mapstructure:"history"`
}

// Load reads path when given, otherwise an optional interviewform.yaml in the
// working directory. INTERVIEWFORM_* variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("interviewform")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("INTERVIEWFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("identity.url", "http://localhost:3000/api/user")
	v.SetDefault("identity.token", "")
	v.SetDefault("identity.jwt_secret", "")
	v.SetDefault("generate.url", "http://localhost:3000/api/vapi/generate")
	v.SetDefault("generate.timeout", 60*time.Second)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("notice.history", 50)

	_ = v.BindEnv("llm.api_key", "INTERVIEWFORM_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.base_url", "INTERVIEWFORM_LLM_BASE_URL", "OPENAI_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
