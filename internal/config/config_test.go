package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/screentools/recgif/internal/types"
)

// TestConfig represents a test configuration structure.
type TestConfig struct {
	Config string `help:"Config file path"`

	// Basic types
	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	FloatField  float64  `toml:"test.float_field" env:"FLOAT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	// Nested config
	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "recgif_config_*.toml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
float_field = 0.5
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "hello world" {
		t.Errorf("StringField = %q, want 'hello world'", config.StringField)
	}
	if !config.BoolField {
		t.Errorf("BoolField = %v, want true", config.BoolField)
	}
	if config.IntField != 42 {
		t.Errorf("IntField = %d, want 42", config.IntField)
	}
	if config.FloatField != 0.5 {
		t.Errorf("FloatField = %v, want 0.5", config.FloatField)
	}
	expectedSlice := []string{"item1", "item2", "item3"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("SliceField = %v, want %v", config.SliceField, expectedSlice)
	}
	if config.NestedString != "nested value" {
		t.Errorf("NestedString = %q, want 'nested value'", config.NestedString)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("RECGIF_STRING_FIELD", "env string")
	t.Setenv("RECGIF_BOOL_FIELD", "false")
	t.Setenv("RECGIF_INT_FIELD", "123")
	t.Setenv("RECGIF_FLOAT_FIELD", "1.5")
	t.Setenv("RECGIF_SLICE_FIELD", "a,b,c")

	config := &TestConfig{}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env string" {
		t.Errorf("StringField = %q, want 'env string'", config.StringField)
	}
	if config.IntField != 123 {
		t.Errorf("IntField = %d, want 123", config.IntField)
	}
	if config.FloatField != 1.5 {
		t.Errorf("FloatField = %v, want 1.5", config.FloatField)
	}
	expectedSlice := []string{"a", "b", "c"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("SliceField = %v, want %v", config.SliceField, expectedSlice)
	}
}

func TestLoadConfigEnvOverridesToml(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "toml value"
int_field = 100
`)

	t.Setenv("RECGIF_STRING_FIELD", "env override")

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env override" {
		t.Errorf("StringField = %q, want 'env override'", config.StringField)
	}
	// TOML value survives where no env override exists
	if config.IntField != 100 {
		t.Errorf("IntField = %d, want 100", config.IntField)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config := &TestConfig{Config: "nonexistent_file.toml"}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test
invalid toml syntax
`)

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err == nil {
		t.Fatal("LoadConfig should fail for invalid TOML")
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path     string
		expected any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
	}

	for _, test := range tests {
		result := getNestedValue(data, test.path)
		if result != test.expected {
			t.Errorf("getNestedValue(%q) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestFFmpegPathExplicitWins(t *testing.T) {
	t.Setenv("RECGIF_FFMPEG", "/env/ffmpeg")
	if got := FFmpegPath("/configured/ffmpeg"); got != "/configured/ffmpeg" {
		t.Errorf("FFmpegPath = %q, want configured path", got)
	}
}

func TestFFmpegPathEnvFallback(t *testing.T) {
	t.Setenv("RECGIF_FFMPEG", "/env/ffmpeg")
	if got := FFmpegPath(""); got != "/env/ffmpeg" {
		t.Errorf("FFmpegPath = %q, want env path", got)
	}
}

func TestFFmpegPathUnresolved(t *testing.T) {
	t.Setenv("RECGIF_FFMPEG", "")
	t.Setenv("PATH", t.TempDir())
	if got := FFmpegPath(""); got != "" {
		t.Errorf("FFmpegPath = %q, want empty when unresolvable", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeTempConfig(t, `
[overrides.video]
preset = "slow"
codec = "libx265"

[overrides.audio]
bitrate = "192k"

[overrides.bogus]
ignored = "yes"
`)

	overrides := LoadOverrides(path)

	if got := overrides[types.GroupVideo]["preset"]; got != "slow" {
		t.Errorf("video preset = %q, want slow", got)
	}
	if got := overrides[types.GroupAudio]["bitrate"]; got != "192k" {
		t.Errorf("audio bitrate = %q, want 192k", got)
	}
	if _, ok := overrides["bogus"]; ok {
		t.Error("unknown override group must be ignored")
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTempConfig(t, `
[logging]
level = "debug"
format = "json"
process = "warn"
gif = "error"
`)

	cfg := LoadLoggingConfig(path)

	if cfg.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	// Keys other than level/format are per-module levels.
	if cfg.Modules["process"] != "warn" {
		t.Errorf("process level = %q, want warn", cfg.Modules["process"])
	}
	if cfg.Modules["gif"] != "error" {
		t.Errorf("gif level = %q, want error", cfg.Modules["gif"])
	}
}

func TestLoadLoggingConfigMissingFile(t *testing.T) {
	cfg := LoadLoggingConfig("nonexistent_file.toml")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("defaults = %q/%q, want info/text", cfg.Level, cfg.Format)
	}
	if len(cfg.Modules) != 0 {
		t.Errorf("modules = %v, want empty", cfg.Modules)
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	overrides := LoadOverrides("nonexistent_file.toml")
	if len(overrides) != 0 {
		t.Errorf("overrides = %v, want empty", overrides)
	}
}
