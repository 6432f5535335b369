package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"phantomqa/internal/logger"
	"phantomqa/pkg/calibration"
	"phantomqa/pkg/ellipse"
	"phantomqa/pkg/errkind"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fitting.Method != "svd" || cfg.Fitting.Samples != 100 || cfg.Ring.NPoints != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Layouts()) != len(calibration.DefaultLayouts()) {
		t.Errorf("expected the vendor layouts by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "phantomqa.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("round trip changed the config: %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantomqa.yaml")
	data := `
calibration:
  workbook: /data/calib.xlsx
  sheets:
    - {sheet: "NiCl Solutions @ 3.0T", name: NiCl_3T, head: 3, tail: 2}
fitting:
  method: eig
  samples: 64
ring:
  npoints: 36
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	m, err := cfg.FitMethod()
	if err != nil || m != ellipse.MethodEigen {
		t.Errorf("expected eig, got %v, %v", m, err)
	}
	if lvl, _ := cfg.LogLevel(); lvl != logger.LogDebug {
		t.Errorf("expected debug level, got %v", lvl)
	}
	if l, err := cfg.Logger(); err != nil || l.Level() != logger.LogDebug {
		t.Errorf("expected a debug logger, got %v", err)
	}
	want := calibration.SheetLayout{Sheet: "NiCl Solutions @ 3.0T", Name: "NiCl_3T", Head: 3, Tail: 2}
	if l := cfg.Layouts(); len(l) != 1 || l[0] != want {
		t.Errorf("unexpected layouts %+v", l)
	}
	if cfg.Fitting.Samples != 64 || cfg.Ring.NPoints != 36 {
		t.Errorf("unexpected counts %+v", cfg)
	}

	f, err := cfg.Fitter(nil)
	if err != nil || f.Method != ellipse.MethodEigen {
		t.Errorf("unexpected fitter %+v, %v", f, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"method", func(c *Config) { c.Fitting.Method = "lsq" }},
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"samples", func(c *Config) { c.Fitting.Samples = 0 }},
		{"npoints", func(c *Config) { c.Ring.NPoints = -1 }},
		{"sheet name", func(c *Config) {
			c.Calibration.Sheets = []calibration.SheetLayout{{Sheet: "x"}}
		}},
		{"negative tail", func(c *Config) {
			c.Calibration.Sheets = []calibration.SheetLayout{{Sheet: "x", Name: "X", Tail: -1}}
		}},
		{"duplicate", func(c *Config) {
			c.Calibration.Sheets = []calibration.SheetLayout{{Sheet: "x", Name: "X"}, {Sheet: "y", Name: "X"}}
		}},
	}
	for _, tc := range tests {
		cfg := DefaultConfig()
		tc.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, errkind.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("ring:\n  npoints: 0\n"), 0644)
	if _, err := LoadConfig(path); !errors.Is(err, errkind.ErrInvalidArgument) {
		t.Errorf("expected LoadConfig to validate, got %v", err)
	}
}

func TestOpenCalibrationMissingWorkbook(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration.Workbook = "absent.xlsx"
	if _, err := cfg.OpenCalibration(t.TempDir(), nil); err == nil {
		t.Errorf("expected an error for a missing workbook")
	}
}
