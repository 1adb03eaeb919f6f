package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AssignCfg cấu hình cho batch assignment
type AssignCfg struct {
	OverlapPolicy  string        `yaml:"overlap_policy" json:"overlap_policy"`
	Workers        int           `yaml:"workers" json:"workers"`
	MaxHouseRows   int           `yaml:"max_house_rows" json:"max_house_rows"`
	MaxRangeRows   int           `yaml:"max_range_rows" json:"max_range_rows"`
	IndexCacheSize int           `yaml:"index_cache_size" json:"index_cache_size"`
	JobTTL         time.Duration `yaml:"job_ttl" json:"job_ttl"`
	OutputFormat   string        `yaml:"output_format" json:"output_format"`
}

// Default cấu hình mặc định khi không có file config
func Default() AssignCfg {
	return AssignCfg{
		OverlapPolicy:  "first-match",
		Workers:        4,
		MaxHouseRows:   500000,
		MaxRangeRows:   100000,
		IndexCacheSize: 32,
		JobTTL:         24 * time.Hour,
		OutputFormat:   "xlsx",
	}
}

var C = Default()

// Load đọc file yaml vào C. File không tồn tại thì giữ mặc định.
func Load(path string) error {
	cfg, err := Read(path)
	if err != nil {
		return err
	}
	C = cfg
	return nil
}

// Read đọc file yaml, trộn với Default() và áp dụng ENV overrides
func Read(path string) (AssignCfg, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("lỗi parse %s: %w", path, err)
			}
		}
	}

	// ENV overrides
	if v := strings.TrimSpace(os.Getenv("OVERLAP_POLICY")); v != "" {
		cfg.OverlapPolicy = v
	}
	if v := os.Getenv("ASSIGN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("ASSIGN_WORKERS không hợp lệ: %q", v)
		}
		cfg.Workers = n
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.IndexCacheSize < 1 {
		cfg.IndexCacheSize = 1
	}
	return cfg, nil
}
