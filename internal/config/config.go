package config

import (
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func AppPort() string {
	return viper.GetString("app.port")
}

func UploadsDir() string {
	dir := viper.GetString("uploads.dir")
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

func ListingCacheTTL() time.Duration {
	ttl := viper.GetDuration("cache.listing_ttl")
	if ttl == 0 {
		ttl = time.Minute * 2
	}
	return ttl
}

func AssetSweepInterval() time.Duration {
	interval := viper.GetDuration("assets.sweep_interval")
	if interval == 0 {
		interval = time.Hour * 12
	}
	return interval
}
