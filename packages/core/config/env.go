package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that override file configuration.
const (
	EnvPort       = "HITRELAY_PORT"
	EnvDatabase   = "HITRELAY_DATABASE"
	EnvLogLevel   = "HITRELAY_LOG_LEVEL"
	EnvMQTTBroker = "HITRELAY_MQTT_BROKER"
)

// LoadDotEnv reads KEY=value pairs from a .env file and exports those not
// already set in the process environment. A missing file is not an error.
// Supports: KEY=value, KEY="quoted value", KEY='single quoted', # comments
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	for k, v := range vars {
		if _, set := os.LookupEnv(k); !set {
			_ = os.Setenv(k, v)
		}
	}

	return vars, nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// ApplyEnv returns a copy of c with environment overrides applied.
func (c *Config) ApplyEnv() (*Config, error) {
	override := &Config{
		Database:   os.Getenv(EnvDatabase),
		LogLevel:   os.Getenv(EnvLogLevel),
		MQTTBroker: os.Getenv(EnvMQTTBroker),
	}

	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("invalid %s %q", EnvPort, port)
		}
		override.Port = p
	}

	return c.Merge(override), nil
}
