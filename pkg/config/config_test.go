package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	DataPath string        `envconfig:"DATA_PATH" default:"data/gdp_data.csv"`
	Horizon  int           `envconfig:"HORIZON" default:"5"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"3s"`
}

func TestNewReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_DATA_PATH=/tmp/gdp.csv\nCFGTEST_HORIZON=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_DATA_PATH")
		os.Unsetenv("CFGTEST_HORIZON")
	})

	conf, err := New[sampleConfig]("CFGTEST", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.DataPath != "/tmp/gdp.csv" {
		t.Fatalf("unexpected data path: %s", conf.DataPath)
	}
	if conf.Horizon != 7 {
		t.Fatalf("unexpected horizon: %d", conf.Horizon)
	}
	if conf.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", conf.Timeout)
	}
}

func TestNewProcessEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CFGWIN_HORIZON=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CFGWIN_HORIZON", "9")

	conf, err := New[sampleConfig]("CFGWIN", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Horizon != 9 {
		t.Fatalf("unexpected horizon: %d", conf.Horizon)
	}
}

func TestNewMissingEnvFile(t *testing.T) {
	if _, err := New[sampleConfig]("CFGMISS", WithEnvFile(filepath.Join(t.TempDir(), "nope.env"))); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
