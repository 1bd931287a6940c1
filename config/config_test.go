package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultBeaconPort, cfg.Beacon.Port)
	assert.Equal(t, time.Second, cfg.Beacon.Interval.Duration())
	assert.Equal(t, 10*time.Second, cfg.Liveness.Evasive.Duration())
	assert.Equal(t, 30*time.Second, cfg.Liveness.Expired.Duration())
	assert.Equal(t, time.Second, cfg.Liveness.Tick.Duration())
	assert.Equal(t, TransportZMQ, cfg.Transport.Kind)
	assert.Equal(t, 1024, cfg.Events.Buffer)

	t.Log("✅ NewConfig 测试通过")
}

// TestConfig_Validate 测试各子配置验证
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Beacon.Port = 70000 }},
		{"zero interval", func(c *Config) { c.Beacon.Interval = 0 }},
		{"bad broadcast", func(c *Config) { c.Beacon.Broadcast = "not-an-ip" }},
		{"evasive after expired", func(c *Config) { c.Liveness.Evasive = Duration(time.Minute) }},
		{"bad transport", func(c *Config) { c.Transport.Kind = "quic" }},
		{"bad queue", func(c *Config) { c.Transport.SendQueue = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad buffer", func(c *Config) { c.Events.Buffer = -1 }},
		{"bad uuid", func(c *Config) { c.Node.UUID = "xyz" }},
		{"empty group", func(c *Config) { c.Node.Groups = []string{""} }},
		{"metrics namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestFromJSON 测试从 JSON 加载并保留默认值
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"node": {"name": "alice", "headers": {"X-ROLE": "peer"}, "groups": ["room"]},
		"beacon": {"interval": "250ms", "interface": "*"},
		"liveness": {"expired": 60000000000}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Node.Name)
	assert.Equal(t, "peer", cfg.Node.Headers["X-ROLE"])
	assert.Equal(t, []string{"room"}, cfg.Node.Groups)
	assert.Equal(t, 250*time.Millisecond, cfg.Beacon.Interval.Duration())
	assert.Equal(t, time.Minute, cfg.Liveness.Expired.Duration())
	assert.Equal(t, 10*time.Second, cfg.Liveness.Evasive.Duration())
	assert.Equal(t, DefaultBeaconPort, cfg.Beacon.Port)
}

// TestFromJSON_Invalid 测试非法 JSON 和非法值
func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"beacon": {"interval": "soon"}}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"transport": {"kind": "carrier-pigeon"}}`))
	assert.Error(t, err)
}

// TestLoadFile 测试从文件加载
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zre.json")

	cfg := NewConfig()
	cfg.Node.Name = "bob"
	data, err := cfg.ToJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Node.Name)
	assert.Equal(t, cfg.Liveness, loaded.Liveness)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// TestValidateAndFix 测试自动修复
func TestValidateAndFix(t *testing.T) {
	cfg := NewConfig()
	cfg.Liveness.Evasive = Duration(40 * time.Second)
	cfg.Transport.Kind = ""
	cfg.Events.Buffer = 0

	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, fixed.Liveness.Evasive.Duration())
	assert.Equal(t, 40*time.Second, fixed.Liveness.Expired.Duration())
	assert.Equal(t, TransportZMQ, fixed.Transport.Kind)
	assert.Equal(t, 1024, fixed.Events.Buffer)

	fixed, err = ValidateAndFix(nil)
	require.NoError(t, err)
	assert.NotNil(t, fixed)

	assert.Error(t, ValidateAll(nil))
}

// TestClone 测试深拷贝
func TestClone(t *testing.T) {
	cfg := NewConfig()
	cfg.Node.Headers = map[string]string{"k": "v"}

	clone := cfg.Clone()
	clone.Node.Headers["k"] = "w"
	clone.Beacon.Port = 1

	assert.Equal(t, "v", cfg.Node.Headers["k"])
	assert.Equal(t, DefaultBeaconPort, cfg.Beacon.Port)
}

// TestDuration 测试 Duration 的 JSON 与 flag 解析
func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1.5s"`)))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, d.Duration())

	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))

	require.NoError(t, d.Set("2m"))
	assert.Equal(t, "2m0s", d.String())

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))
}
