package services

import (
	"os"
	"testing"

	"workhub_backend/internal/config"
	"workhub_backend/internal/logger"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 720
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"application/pdf", "image/png", "image/jpeg"}
	config.AppConfig = cfg

	logger.Init(cfg.Server.Env)
	os.Exit(m.Run())
}
