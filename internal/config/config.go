package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DB struct {
		Driver string
		DSN    string
	}
	Posts struct {
		Dir string
	}
	Admin struct {
		Username string
		Email    string
		Password string
	}
}

// Load reads config from environment (MDBLOG_ prefix) and optional mdblog.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MDBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("mdblog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("posts.dir", "posts")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@example.com")

	cfg := &Config{}
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Posts.Dir = v.GetString("posts.dir")
	cfg.Admin.Username = v.GetString("admin.username")
	cfg.Admin.Email = v.GetString("admin.email")
	cfg.Admin.Password = v.GetString("admin.password")

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("MDBLOG_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("MDBLOG_DB_DSN is required")
	}

	return cfg, nil
}
