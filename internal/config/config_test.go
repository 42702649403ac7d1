package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	// Create a real configs/ directory so filepath.Abs resolves correctly.
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "default.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("expected valid path, got error: %v", err)
	}
}

func TestValidateConfigPath_PathTraversal(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"configs/../../../etc/shadow",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for traversal path %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_WrongExtension(t *testing.T) {
	cases := []string{
		"configs/default.json",
		"configs/default.yml",
		"configs/default.txt",
		"configs/default",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for extension in %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_NotInConfigsDir(t *testing.T) {
	cases := []string{
		"other/default.yaml",
		"default.yaml",
		"/tmp/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for path outside configs/ %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_EmptyPath(t *testing.T) {
	if err := ValidateConfigPath(""); err == nil {
		t.Error("expected error for empty path, got nil")
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Should not panic; error or success is OS-dependent, but must not crash.
	_ = ValidateConfigPath(long)
}

func TestValidateConfigPath_SpecialChars(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		wantErr bool
	}{
		{"con fig.yaml", false},
		{"café.yaml", false},
	}
	for _, tc := range cases {
		path := filepath.Join(cfgDir, tc.name)
		err := ValidateConfigPath(path)
		if tc.wantErr && err == nil {
			t.Errorf("expected error for %q, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("unexpected error for %q: %v", tc.name, err)
		}
	}
}

func TestValidateConfigPath_DoubleTraversal(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Try to escape via ../../configs/ok.yaml — filepath.Clean resolves this
	// and the parent must still be "configs".
	path := filepath.Join(cfgDir, "../../configs/ok.yaml")
	err := ValidateConfigPath(path)
	// After Clean the parent may or may not be "configs" depending on resolution.
	// The important thing is it either succeeds with a valid parent or fails.
	_ = err
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
pan_motor:
  pin_a: 12
  pin_b: 13
tilt_motor:
  pin_a: 10
  pin_b: 11
servo:
  backend: "pca9685"
  i2c_addr: 0x41
  channel: 3
  boot_angle: 90
sensors:
  left_pin: 1
  right_pin: 0
named_outputs:
  Red: 5
  Green: 6
peer:
  listen_addr: ":5000"
  enabled: false
web:
  port: 8080
defaults:
  ramp_ms: 40
  loop_period_ms: 25
  search_delay_ms: 150
  queue_size: 8
  debug_level: 2
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PanMotor.PinA != 12 || cfg.PanMotor.PinB != 13 {
		t.Errorf("pan_motor = %+v, want 12/13", cfg.PanMotor)
	}
	if cfg.Servo.Backend != "pca9685" {
		t.Errorf("servo.backend = %q, want %q", cfg.Servo.Backend, "pca9685")
	}
	if cfg.Servo.I2CAddr != 0x41 {
		t.Errorf("servo.i2c_addr = %#x, want 0x41", cfg.Servo.I2CAddr)
	}
	if *cfg.Servo.BootAngle != 90 {
		t.Errorf("servo.boot_angle = %d, want 90", *cfg.Servo.BootAngle)
	}
	if len(cfg.NamedOutputs) != 2 || cfg.NamedOutputs["Green"] != 6 {
		t.Errorf("named_outputs = %v, want Red/Green", cfg.NamedOutputs)
	}
	if cfg.PeerEnabled() {
		t.Error("peer.enabled = true, want false")
	}
	if cfg.Peer.ListenAddr != ":5000" {
		t.Errorf("peer.listen_addr = %q, want :5000", cfg.Peer.ListenAddr)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("web.port = %d, want 8080", cfg.Web.Port)
	}
	if cfg.Defaults.QueueSize != 8 {
		t.Errorf("queue_size = %d, want 8", cfg.Defaults.QueueSize)
	}
	if !cfg.Defaults.MockGPIO {
		t.Error("mock_gpio = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "defaults:\n  mock_gpio: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PanMotor != (MotorConfig{PinA: 12, PinB: 13}) {
		t.Errorf("pan_motor default = %+v, want 12/13", cfg.PanMotor)
	}
	if cfg.TiltMotor != (MotorConfig{PinA: 10, PinB: 11}) {
		t.Errorf("tilt_motor default = %+v, want 10/11", cfg.TiltMotor)
	}
	if cfg.Servo.Backend != "rpio" || cfg.Servo.Pin != 18 {
		t.Errorf("servo default = %s pin %d, want rpio pin 18", cfg.Servo.Backend, cfg.Servo.Pin)
	}
	if *cfg.Servo.BootAngle != 180 {
		t.Errorf("servo.boot_angle default = %d, want 180", *cfg.Servo.BootAngle)
	}
	if cfg.Sensors.LeftPin != 1 || cfg.Sensors.RightPin != 0 {
		t.Errorf("sensors default = %+v, want left 1 right 0", cfg.Sensors)
	}
	if pin, ok := cfg.NamedOutputs["Red"]; !ok || pin != 5 {
		t.Errorf("named_outputs default = %v, want Red:5", cfg.NamedOutputs)
	}
	if !cfg.PeerEnabled() {
		t.Error("peer.enabled default = false, want true")
	}
	if cfg.RampInterval() != 30*time.Millisecond {
		t.Errorf("RampInterval() = %v, want 30ms", cfg.RampInterval())
	}
	if cfg.LoopPeriod() != 50*time.Millisecond {
		t.Errorf("LoopPeriod() = %v, want 50ms", cfg.LoopPeriod())
	}
	if cfg.SearchDelay() != 100*time.Millisecond {
		t.Errorf("SearchDelay() = %v, want 100ms", cfg.SearchDelay())
	}
	if cfg.Defaults.QueueSize != 32 {
		t.Errorf("queue_size default = %d, want 32", cfg.Defaults.QueueSize)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("empty config should load defaults, got error: %v", err)
	}
	if cfg.PanMotor.PinA != 12 {
		t.Errorf("pan_motor.pin_a = %d, want 12", cfg.PanMotor.PinA)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"duplicate pin": `
tilt_motor:
  pin_a: 12
`,
		"pin out of range": `
sensors:
  left_pin: 40
`,
		"named output clash": `
named_outputs:
  Red: 13
`,
		"unknown backend": `
servo:
  backend: "bitbang"
`,
		"pca9685 channel": `
servo:
  backend: "pca9685"
  channel: 16
`,
		"boot angle": `
servo:
  boot_angle: 200
`,
		"web port": `
web:
  port: 70000
`,
		"debug level": `
defaults:
  debug_level: 9
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, content)
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s, got nil", name)
			}
		})
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "big.yaml")
	data := make([]byte, MaxConfigFileBytes+1)
	for i := range data {
		data[i] = '#'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for oversized config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{invalid yaml!!!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_UnknownFields(t *testing.T) {
	yaml := `
unknown_section:
  foo: bar
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err != nil {
		t.Errorf("unknown fields should be ignored, got error: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "nonexistent.yaml")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoad_RejectsPathOutsideConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantilt.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for config outside configs/, got nil")
	}
}

// ---------- Helper methods ----------

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{Defaults: DefaultsConfig{RampMs: 5, LoopPeriodMs: 20, SearchDelayMs: 70}}
	if got, want := cfg.RampInterval(), 5*time.Millisecond; got != want {
		t.Errorf("RampInterval() = %v, want %v", got, want)
	}
	if got, want := cfg.LoopPeriod(), 20*time.Millisecond; got != want {
		t.Errorf("LoopPeriod() = %v, want %v", got, want)
	}
	if got, want := cfg.SearchDelay(), 70*time.Millisecond; got != want {
		t.Errorf("SearchDelay() = %v, want %v", got, want)
	}
}

func TestConfig_PeerEnabled(t *testing.T) {
	off := false
	if !(&Config{}).PeerEnabled() {
		t.Error("PeerEnabled() with nil flag = false, want true")
	}
	if (&Config{Peer: PeerConfig{Enabled: &off}}).PeerEnabled() {
		t.Error("PeerEnabled() = true, want false")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
