package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:            5000,
		Database:        "sqlite://hitrelay.db",
		Timeout:         30000, // 30 seconds
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    10,
		ValidateSSL:     BoolPtr(true),
		LogLevel:        "info",
		LogFormat:       "text",
		CORSOrigins:     []string{"*"},
		RateLimit:       0,
		RateBurst:       10,
		MQTTTopicPrefix: "hitrelay",
	}
}
