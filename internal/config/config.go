package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTL        int    `yaml:"ttl"`         // access token TTL in minutes
		RefreshTTL int    `yaml:"refresh_ttl"` // refresh token TTL in hours
	} `yaml:"jwt"`

	Google struct {
		ClientID string `yaml:"client_id"` // audience for ID-token verification
	} `yaml:"google"`

	Push struct {
		Endpoint  string `yaml:"endpoint"`   // FCM-compatible HTTP endpoint
		ServerKey string `yaml:"server_key"` // empty disables push delivery
	} `yaml:"push"`

	Payments struct {
		MerchantLogin string `yaml:"merchant_login"`
		Password1     string `yaml:"password1"`
		Password2     string `yaml:"password2"`
		BaseURL       string `yaml:"base_url"`
		Currency      string `yaml:"currency"`
	} `yaml:"payments"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
	} `yaml:"upload"`

	Workers struct {
		SweepHour int `yaml:"sweep_hour"` // local hour of the daily subscription sweep
	} `yaml:"workers"`
}

var AppConfig *Config

// LoadConfig reads configuration from config.yaml, or entirely from the
// environment when DATABASE_URL is set (test mode). A .env file, if present,
// is loaded into the environment first.
func LoadConfig() {
	var cfg Config

	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Test mode: everything from environment variables.
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 720

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@workhub.com"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 720
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/webp",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	}
	if cfg.Workers.SweepHour == 0 {
		cfg.Workers.SweepHour = 1 // 01:00 local time
	}
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "INR"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
