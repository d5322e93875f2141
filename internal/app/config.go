package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pathwise/pathwise-backend/internal/engine"
	"github.com/pathwise/pathwise-backend/internal/platform/envutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string

	JWTSecretKey string
	HTTPAddr     string

	CatalogSeedPath  string
	EngineConfigPath string

	Tuning        engine.Tuning
	PassThreshold float64
}

// engineFile is the optional configs/engine.yaml shape.
type engineFile struct {
	Tuning     engine.Tuning `yaml:"tuning"`
	Assessment struct {
		PassThreshold float64 `yaml:"pass_threshold"`
	} `yaml:"assessment"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:      "pathwise-backend",
		Environment:      envutil.String("APP_ENV", "development"),
		Version:          envutil.String("APP_VERSION", "dev"),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		HTTPAddr:         envutil.String("HTTP_ADDR", ":8080"),
		CatalogSeedPath:  envutil.String("CATALOG_SEED_PATH", ""),
		EngineConfigPath: envutil.String("ENGINE_CONFIG_PATH", "configs/engine.yaml"),
		Tuning:           engine.DefaultTuning(),
	}

	if cfg.EngineConfigPath != "" {
		file, err := loadEngineFile(cfg.EngineConfigPath)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn("engine config unreadable, using defaults", "path", cfg.EngineConfigPath, "error", err)
			}
		} else {
			cfg.Tuning = file.Tuning
			cfg.PassThreshold = file.Assessment.PassThreshold
			log.Info("engine config loaded", "path", cfg.EngineConfigPath)
		}
	}
	return cfg
}

func loadEngineFile(path string) (*engineFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file engineFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}
	return &file, nil
}
