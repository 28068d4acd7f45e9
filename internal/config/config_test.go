package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Undo.Window)
	assert.Equal(t, 80, cfg.ChangeLog.Limit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.NotEmpty(t, cfg.Notifications.Path)
}

func TestFromViper_RejectsNonPositiveValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("undo.window", "0s")
	_, err := FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	SetDefaults(v)
	v.Set("changelog.limit", -1)
	_, err = FromViper(v)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("MONEDERO_TEST_DIR", "/tmp/monedero")
	assert.Equal(t, "/tmp/monedero/db", ExpandPath("$MONEDERO_TEST_DIR/db"))
	assert.Equal(t, "", ExpandPath(""))
}
