package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("RECON_TEST_DIR", "/srv/recon")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/in.csv", want: filepath.Join(home, "data/in.csv")},
		{name: "env var", in: "$RECON_TEST_DIR/patterns.csv", want: "/srv/recon/patterns.csv"},
		{name: "plain", in: "data/in.csv", want: "data/in.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, "ollama", v.GetString("llm.provider"))
	assert.Equal(t, 1, v.GetInt("llm.max_attempts"))
	assert.Equal(t, 60*time.Second, v.GetDuration("llm.timeout"))
	assert.Equal(t, "resolved", v.GetString("resolution.fail_safe"))
	assert.Equal(t, DefaultPatternLog, v.GetString("resolution.patterns"))
	assert.True(t, v.GetBool("history.enabled"))
}

func TestBindEnv(t *testing.T) {
	t.Setenv("RECON_RESOLUTION_FAIL_SAFE", "unresolved")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	assert.Equal(t, "unresolved", v.GetString("resolution.fail_safe"))
}
