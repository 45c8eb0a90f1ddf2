package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("BATVAULT_TEST_DIR", "/tmp/batvault")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path", in: "/var/data/app.db", want: "/var/data/app.db"},
		{name: "tilde prefix", in: "~/data/app.db", want: filepath.Join(home, "data", "app.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$BATVAULT_TEST_DIR/app.db", want: "/tmp/batvault/app.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	t.Run("configured path wins", func(t *testing.T) {
		assert.Equal(t, "/custom/db.sqlite", DatabasePath("/custom/db.sqlite"))
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Setenv("HOME", "/home/bruce")
		assert.Equal(t, "/home/bruce/.local/share/batvault/batvault.db", DatabasePath(""))
	})
}
