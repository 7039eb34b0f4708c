package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikokadi/kadi/engine"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Games)
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 2000, cfg.MaxTurns)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, engine.StyleBalanced, cfg.PlayStyle)
	assert.Equal(t, engine.DifficultyMedium, cfg.Difficulty)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KADI_GAMES", "7")
	t.Setenv("KADI_PLAYERS", "6")
	t.Setenv("KADI_SEED", "42")
	t.Setenv("KADI_PLAY_STYLE", "aggressive")
	t.Setenv("KADI_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Games)
	assert.Equal(t, 6, cfg.Players)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, engine.StyleAggressive, cfg.PlayStyle)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KADI_WORKERS=3\nKADI_DIFFICULTY=hard\n"), 0o600))
	// godotenv never overrides a set variable. t.Setenv registers the restore,
	// then the keys are unset so the file can fill them.
	t.Setenv("KADI_WORKERS", "")
	t.Setenv("KADI_DIFFICULTY", "")
	os.Unsetenv("KADI_WORKERS")
	os.Unsetenv("KADI_DIFFICULTY")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, engine.DifficultyHard, cfg.Difficulty)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"KADI_PLAYERS", "1"},
		{"KADI_PLAYERS", "7"},
		{"KADI_GAMES", "0"},
		{"KADI_WORKERS", "-2"},
		{"KADI_MAX_TURNS", "0"},
		{"KADI_LOG_LEVEL", "loud"},
		{"KADI_PLAY_STYLE", "reckless"},
		{"KADI_DIFFICULTY", "impossible"},
		{"KADI_GAMES", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
