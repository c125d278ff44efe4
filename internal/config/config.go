package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	WarehouseDir string
	StatementDir string
	OutputDir    string
	AuditDir     string

	StatementMarker string
	SegmentStart    string
	SegmentEnd      string
	RulesPath       string

	WarehouseCombinedName string

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		WarehouseDir: getEnv("WAREHOUSE_DIR", filepath.Join(cwd, "data", "warehouse")),
		StatementDir: getEnv("STATEMENT_DIR", filepath.Join(cwd, "data", "statements")),
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		AuditDir:     getEnv("AUDIT_DIR", filepath.Join(cwd, "out", "audit")),

		StatementMarker: getEnv("STATEMENT_FILE_MARKER", "Statement"),
		SegmentStart:    getEnv("SEGMENT_START_ANCHOR", "Commission to Marketplace"),
		SegmentEnd:      getEnv("SEGMENT_END_ANCHOR", "Subtotal"),
		RulesPath:       getEnv("CLASSIFIER_RULES_PATH", ""),

		WarehouseCombinedName: getEnv("WAREHOUSE_COMBINED_NAME", "warehouse_combined.csv"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// WarehouseCombinedPath is the fixed location of the combined warehouse CSV.
func (c Config) WarehouseCombinedPath() string {
	return filepath.Join(c.OutputDir, c.WarehouseCombinedName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
