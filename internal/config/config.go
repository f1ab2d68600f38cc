package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret           string
		TokenTTLMinutes     int
		ValidateEmailFormat bool
	}
	Recovery struct {
		TokenTTLMinutes int
	}
	App struct {
		BaseURL string
	}
	Email struct {
		APIKey     string
		Sender     string
		SenderName string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("AUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:5500")
	v.SetDefault("database.path", "data/auth.db")
	v.SetDefault("auth.jwtsecret", "")
	// 1440 matches the 24h token variant; set 60 for the 1h variant.
	v.SetDefault("auth.tokenttlminutes", 1440)
	v.SetDefault("auth.validateemailformat", true)
	v.SetDefault("recovery.tokenttlminutes", 60)
	v.SetDefault("app.baseurl", "http://localhost:5500")
	v.SetDefault("email.apikey", "")
	v.SetDefault("email.sender", "")
	v.SetDefault("email.sendername", "Auth Service")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
