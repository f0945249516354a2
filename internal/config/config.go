package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	DSN            string
	SeedRooms      []string
	RefreshSeconds int
	DirectoryURL   string
	Env            string
}

// Load reads .env if present, then the environment. DB_DSN is optional: an
// empty DSN selects the in-memory store, which is what tests and local runs
// use. A MySQL DSN should carry parseTime=true.
func Load() *Config {
	_ = godotenv.Load()

	refresh, err := strconv.Atoi(getEnv("REFRESH_SECONDS", "3"))
	if err != nil || refresh <= 0 {
		refresh = 3
	}

	var seeds []string
	for _, name := range strings.Split(getEnv("SEED_ROOMS", "Group Investment,Travel Plan"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			seeds = append(seeds, name)
		}
	}

	c := &Config{
		Port:           getEnv("PORT", "8080"),
		DSN:            os.Getenv("DB_DSN"),
		SeedRooms:      seeds,
		RefreshSeconds: refresh,
		DirectoryURL:   os.Getenv("DIRECTORY_URL"),
		Env:            getEnv("ENV", "dev"),
	}
	logrus.WithFields(logrus.Fields{"env": c.Env, "port": c.Port, "refresh": c.RefreshSeconds}).Info("config loaded")
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
