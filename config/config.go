package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Messenger struct {
		ApiVersion  string `json:"api_version"`
		VerifyToken string `json:"verify_token"` // hub.verify_token for the GET handshake
		AppSecret   string `json:"app_secret"`   // HMAC key for X-Hub-Signature-256
	} `json:"messenger"`

	Security struct {
		TokenKey string `json:"token_key"` // 32-byte key for page token encryption
	} `json:"security"`

	RedisURL string `json:"redis_url"` // optional dedup fast path
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Messenger.ApiVersion == "" {
		c.Messenger.ApiVersion = "v21.0"
	}

	// secrets may come from the environment so the config file stays
	// committable
	if v := getenv("PORT", ""); v != "" {
		c.ApiPort = v
	}
	if v := getenv("WEBHOOK_VERIFY_TOKEN", ""); v != "" {
		c.Messenger.VerifyToken = v
	}
	if v := getenv("APP_SECRET", ""); v != "" {
		c.Messenger.AppSecret = v
	}
	if v := getenv("TOKEN_KEY", ""); v != "" {
		c.Security.TokenKey = v
	}
	if v := getenv("REDIS_URL", ""); v != "" {
		c.RedisURL = v
	}

	return c
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
