package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"API_FIREBASE_PROJECT_ID": "brightfold-test",
		"API_MONGO_URI":           "mongodb://localhost:27017",
		"API_SESSION_SECRET":      "test-session-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(baseEnv()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, defaultPort)
	}
	if cfg.Server.StrictTransitions {
		t.Error("StrictTransitions should default to false")
	}
	if cfg.Mongo.Database != defaultMongoDatabase {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, defaultMongoDatabase)
	}
	if cfg.Session.TTL != defaultSessionTTL {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, defaultSessionTTL)
	}
	if cfg.Security.AdminSecretHeader != defaultAdminSecretHeader {
		t.Errorf("AdminSecretHeader = %q, want %q", cfg.Security.AdminSecretHeader, defaultAdminSecretHeader)
	}
	if cfg.Events.Enabled {
		t.Error("Events.Enabled should default to false")
	}
	if cfg.Events.ProjectID != "brightfold-test" {
		t.Errorf("Events.ProjectID should fall back to the Firebase project, got %q", cfg.Events.ProjectID)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{}))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	want := map[string]bool{
		"Firebase.ProjectID": true,
		"Mongo.URI":          true,
		"Session.Secret":     true,
	}
	for _, field := range validation.Fields() {
		delete(want, field)
	}
	if len(want) > 0 {
		t.Errorf("validation error missing fields: %v (got %v)", want, validation.Fields())
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	env := baseEnv()
	env["API_SERVER_PORT"] = "9090"
	env["API_SERVER_READ_TIMEOUT"] = "5s"
	env["API_SERVER_STRICT_TRANSITIONS"] = "true"
	env["API_SERVER_ALLOWED_ORIGINS"] = "https://brightfold.studio, https://admin.brightfold.studio"
	env["API_SESSION_TTL"] = "1h"

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(env))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if !cfg.Server.StrictTransitions {
		t.Error("StrictTransitions should be enabled")
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("Session.TTL = %v", cfg.Session.TTL)
	}
}

func TestLoadEventsValidation(t *testing.T) {
	env := baseEnv()
	delete(env, "API_FIREBASE_PROJECT_ID")
	env["API_FIREBASE_PROJECT_ID"] = "brightfold-test"
	env["API_EVENTS_ENABLED"] = "true"
	env["API_EVENTS_ORDER_TOPIC"] = ""

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(env))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Events.OrderTopic != defaultEventsOrderTopic {
		t.Errorf("OrderTopic = %q, want default", cfg.Events.OrderTopic)
	}
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# comment\nexport API_SERVER_PORT=7070\nAPI_MONGO_DATABASE=\"agency\"\nBROKEN LINE\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(path), WithEnvMap(baseEnv()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "agency" {
		t.Errorf("Mongo.Database = %q, want agency", cfg.Mongo.Database)
	}
}

func TestDotEnvFileMissingIsIgnored(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "nope.env")), WithEnvMap(baseEnv()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Firebase.ProjectID != "brightfold-test" {
		t.Errorf("ProjectID = %q", cfg.Firebase.ProjectID)
	}
}
