package clist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorkloadConfig(t *testing.T) {
	path := writeConfig(t, `
store: coarse
threads: 4
ops_per_thread: 50
timeout: 30s
track_locks: true
mix:
  push_front: 0
  push_back: 3
  insert_before: 1
  erase: 1
`)
	cfg, err := LoadWorkloadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreCoarse || cfg.Threads != 4 || cfg.OpsPerThread != 50 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expect 30s timeout, got %s", cfg.Timeout)
	}
	// Omitted keys keep their defaults.
	if cfg.InitialSize != DefaultWorkloadConfig().InitialSize {
		t.Errorf("expect default initial size, got %d", cfg.InitialSize)
	}
	if cfg.Mix.PushFront != 0 || cfg.Mix.PushBack != 3 {
		t.Errorf("unexpected mix %+v", cfg.Mix)
	}
	if opts := cfg.ListOptions(); !opts.TrackLocks || opts.MaxRetries <= 0 {
		t.Errorf("unexpected list options %+v", opts)
	}
}

func TestLoadWorkloadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadWorkloadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadWorkloadConfig_Invalid(t *testing.T) {
	for _, content := range []string{
		"store: skiplist\n",
		"threads: 0\n",
		"timeout: -1s\n",
		"mix: {push_front: 0, push_back: 0, insert_before: 0, erase: 0}\n",
		"mix: {erase: -1}\n",
		"threads: [1\n",
	} {
		if _, err := LoadWorkloadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("expect error for %q", content)
		}
	}
	if _, err := LoadWorkloadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expect error for a missing file")
	}
}
