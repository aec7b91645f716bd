package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "config"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "info", levelFlag.DefValue)
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	for flag, want := range map[string]string{
		"addr":           ":8383",
		"reserved-field": "playground",
		"session-cookie": "formgen_playground",
		"grace":          "5s",
	} {
		f := serveCmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, want, f.DefValue, flag)
	}
}

func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playground.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: 127.0.0.1:9000\nlog:\n  level: warn\n"), 0o600))

	out, err := execute(t, "config", "--config", path, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "addr: 127.0.0.1:9000")
	assert.Contains(t, out, "level: warn")
	assert.Contains(t, out, "format: json")
	assert.Contains(t, out, "ttl: 2h0m0s")
}

func TestConfigCommand_FlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playground.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	out, err := execute(t, "config", "-c", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	_, err := execute(t, "config", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestServeCommand_InvalidFlags(t *testing.T) {
	_, err := execute(t, "serve", "--session-cookie", "bad cookie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.cookie")
}
