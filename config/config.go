package config

import (
	"os"
)

type Config struct {
	ServerAddr      string
	MysqlDSN        string
	JWTSecret       string
	GeneratorURL    string
	GeneratorAPIKey string
}

var Cfg *Config

func Load() {
	Cfg = &Config{
		ServerAddr:      ":" + getEnv("PORT", "8080"),
		MysqlDSN:        getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/fitlink?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:       getEnv("JWT_SECRET", "fitlink-secret-key-change-in-production"),
		GeneratorURL:    getEnv("GENERATOR_URL", "http://localhost:9090"),
		GeneratorAPIKey: getEnv("GENERATOR_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
