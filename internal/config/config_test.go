package config

import "testing"

func TestValidate_InvalidBackend(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Artifacts: ArtifactsConfig{Backend: "s3"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid artifacts backend")
	}

	expected := `artifacts.backend must be "fs" or "redis", got "s3"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_RedisBackendRequiresAddrs(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Artifacts: ArtifactsConfig{Backend: "redis"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for redis backend without addrs")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 0},
		Artifacts: ArtifactsConfig{Backend: "fs"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.Artifacts.Backend != "fs" {
		t.Errorf("expected fs backend default, got %q", cfg.Artifacts.Backend)
	}
	if cfg.Artifacts.Dir != "models" {
		t.Errorf("expected models dir default, got %q", cfg.Artifacts.Dir)
	}
	if cfg.Training.Seed != 42 {
		t.Errorf("expected seed default 42, got %d", cfg.Training.Seed)
	}
	if cfg.Training.Clusters != 5 {
		t.Errorf("expected 5 clusters by default, got %d", cfg.Training.Clusters)
	}
	if len(cfg.Regions.Supported) == 0 {
		t.Error("expected default region list")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WENDAML_TEST_DSN", "postgres://u:p@host/db")

	in := []byte("dsn: ${WENDAML_TEST_DSN}\ndir: ${WENDAML_TEST_MISSING:-models}\n")
	out := string(expandEnvVars(in))

	want := "dsn: postgres://u:p@host/db\ndir: models\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
