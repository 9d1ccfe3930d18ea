package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/aslhikaya/crimepress"
	"github.com/aslhikaya/crimepress/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}
	store, err := crimepress.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	app := crimepress.New(cfg, store, views.Default(cfg))
	defer app.Close()

	sched := cron.New()
	if _, err := sched.AddFunc("@daily", func() {
		if err := app.Store.Maintain(); err != nil {
			app.Echo.Logger.Errorf("store maintenance: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule maintenance: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Printf("crimepress %s listening on %s", version, cfg.Addr)
	if err := app.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// loadConfig reads config.yaml when present and lets SITE_* environment
// variables override every key.
func loadConfig() (crimepress.SiteConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("site")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":3000")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("database_path", "data/site.db")
	v.SetDefault("cache_ttl", "5m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return crimepress.SiteConfig{}, err
		}
	}

	ttl, err := time.ParseDuration(v.GetString("cache_ttl"))
	if err != nil {
		return crimepress.SiteConfig{}, err
	}

	return crimepress.SiteConfig{
		Name:        v.GetString("name"),
		ShortName:   v.GetString("short_name"),
		URL:         v.GetString("url"),
		Description: v.GetString("description"),
		Author:      v.GetString("author"),
		Locale:      v.GetString("locale"),
		Language:    v.GetString("language"),
		TwitterSite: v.GetString("twitter_site"),
		Keywords:    v.GetStringSlice("keywords"),
		SocialLinks: v.GetStringSlice("social_links"),
		ContactMail: v.GetString("contact_mail"),

		Addr:         v.GetString("addr"),
		DatabasePath: v.GetString("database_path"),

		AdminEmail:    v.GetString("admin_email"),
		AdminPassword: v.GetString("admin_password"),
		SessionSecret: v.GetString("session_secret"),
		CookieSecure:  v.GetBool("cookie_secure"),

		StoryCacheTTL: ttl,

		CategoryIntros: v.GetStringMapString("intros"),
	}, nil
}
