package padkeys

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dasdy/padkeys/config"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
	"github.com/dasdy/padkeys/textentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvBool(t *testing.T) {
	testCases := []struct {
		name, config, value string
		expected            bool
	}{
		{"launch script yes", "textinput", "Y", true},
		{"launch script no", "textinput", "N", false},
		{"settings file", "noautocapitals", "true", true},
		{"garbage", "pckill", "maybe", false},
		{"presence only", "emuelec", "anything", true},
		{"presence empty", "emuelec", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, envBool(tc.config, tc.value))
		})
	}
}

func TestKillOptions(t *testing.T) {
	t.Cleanup(func() {
		killApp, sudoKillApp, pcKill = "", "", false
	})

	killApp = "game"
	opts := killOptions()
	assert.Equal(t, "game", opts.App)
	assert.False(t, opts.Sudo)

	sudoKillApp = "exult"
	pcKill = true
	opts = killOptions()
	assert.Equal(t, "exult", opts.App)
	assert.True(t, opts.Sudo)
	assert.True(t, opts.PCKill)
	assert.True(t, opts.ExtraBackspace())
}

func TestKeysCommand(t *testing.T) {
	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"keys"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	names := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, names, "esc")
	assert.Contains(t, names, "mouse_left")
	assert.Contains(t, names, "f10")
}

func TestTextEntryOptions(t *testing.T) {
	t.Cleanup(func() { extraSymbols = false })

	cfg := config.Default()
	cfg.HotkeyDelay = 250 * time.Millisecond
	extraSymbols = true

	opts := textEntryOptions(cfg, model.Guide.Mask())

	assert.Equal(t, output.DefaultPause, opts.Pause)
	assert.Equal(t, textentry.Extended, opts.Charset)
	assert.Equal(t, cfg.RepeatInterval, opts.RepeatInterval)
	assert.Equal(t, model.Guide.Mask(), opts.Cancel)
}
