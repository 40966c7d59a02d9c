package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./test.db",
		Port:              "8080",
		SubscriptionsFile: "./subscriptions.yml",
		WorkerCount:       5,
		SchedulerInterval: 60,
		RefreshInterval:   900,
		FetchTimeout:      15,
		FetchMirrors:      []string{"https://mirror.example/?url="},
		InsertBatchSize:   50,
		RecentWindowDays:  7,
		APIAccessKey:      "test-key",
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.SubscriptionsFile != "./subscriptions.yml" {
		t.Errorf("Expected subscriptions file './subscriptions.yml', got '%s'", cfg.SubscriptionsFile)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 60 {
		t.Errorf("Expected scheduler interval 60, got %d", cfg.SchedulerInterval)
	}
	if cfg.RefreshInterval != 900 {
		t.Errorf("Expected refresh interval 900, got %d", cfg.RefreshInterval)
	}
	if cfg.FetchTimeout != 15 {
		t.Errorf("Expected fetch timeout 15, got %d", cfg.FetchTimeout)
	}
	if len(cfg.FetchMirrors) != 1 {
		t.Errorf("Expected 1 fetch mirror, got %d", len(cfg.FetchMirrors))
	}
	if cfg.InsertBatchSize != 50 {
		t.Errorf("Expected insert batch size 50, got %d", cfg.InsertBatchSize)
	}
	if cfg.RecentWindowDays != 7 {
		t.Errorf("Expected recent window 7 days, got %d", cfg.RecentWindowDays)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
