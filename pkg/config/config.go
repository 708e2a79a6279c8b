package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type TransportConfig struct {
	Type string `mapstructure:"type"` // "stdio" or "sse"
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ProgramConfig struct {
	FilePath string `mapstructure:"file_path"`
	Name     string `mapstructure:"name"`
}

type ConversationConfig struct {
	MaxPendingProposals int `mapstructure:"max_pending_proposals"`
}

type ServerConfig struct {
	Transport    TransportConfig    `mapstructure:"transport"`
	LogLevel     string             `mapstructure:"log_level"`
	LogFormat    string             `mapstructure:"log_format"`
	LogBuffer    int                `mapstructure:"log_buffer"`
	Timeout      time.Duration      `mapstructure:"timeout"`
	Program      ProgramConfig      `mapstructure:"program"`
	Conversation ConversationConfig `mapstructure:"conversation"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Transport: TransportConfig{
			Type: "stdio",
			Host: "localhost",
			Port: 8080,
		},
		LogLevel:  "info",
		LogFormat: "json",
		LogBuffer: 1000,
		Timeout:   30 * time.Second,
		Program: ProgramConfig{
			FilePath: "program.yaml",
			Name:     "Training Program",
		},
		Conversation: ConversationConfig{
			MaxPendingProposals: 16,
		},
	}
}

func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/coach-mcp/")
	viper.AddConfigPath("$HOME/.coach-mcp/")

	viper.SetEnvPrefix("COACH_MCP")
	viper.AutomaticEnv()

	// Server configuration defaults
	viper.SetDefault("transport.type", config.Transport.Type)
	viper.SetDefault("transport.host", config.Transport.Host)
	viper.SetDefault("transport.port", config.Transport.Port)
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)
	viper.SetDefault("log_buffer", config.LogBuffer)
	viper.SetDefault("timeout", config.Timeout)

	// Program configuration defaults
	viper.SetDefault("program.file_path", config.Program.FilePath)
	viper.SetDefault("program.name", config.Program.Name)

	// Conversation configuration defaults
	viper.SetDefault("conversation.max_pending_proposals", config.Conversation.MaxPendingProposals)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	// Decode the configuration
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServerConfig) error {
	if config.Transport.Type != "stdio" && config.Transport.Type != "sse" {
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	if config.Transport.Port <= 0 || config.Transport.Port > 65535 {
		return fmt.Errorf("the port must be between 1 and 65535")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("the timeout must be positive")
	}

	if config.Conversation.MaxPendingProposals <= 0 {
		return fmt.Errorf("the pending proposal limit must be positive")
	}

	if config.Program.FilePath == "" {
		return fmt.Errorf("the program file path must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	return nil
}
