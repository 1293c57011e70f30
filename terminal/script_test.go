package terminal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"keys and pauses", `{"name": "ok", "commands": [{"type": "key", "value": "right"}, {"type": "key", "value": "o"}, {"type": "pause"}]}`, false},
		{"text", `{"name": "ok", "commands": [{"type": "text", "value": "cco"}]}`, false},
		{"unknown key", `{"name": "bad", "commands": [{"type": "key", "value": "home"}]}`, true},
		{"unknown type", `{"name": "bad", "commands": [{"type": "click"}]}`, true},
		{"malformed", `{"name": `, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScript_Delay(t *testing.T) {
	s, err := ParseScript([]byte(`{"name": "d", "commands": []}`))
	require.NoError(t, err)
	assert.Equal(t, 300, s.BaseDelay)
	assert.Equal(t, 100, s.BaseVariance)

	for range 20 {
		d := s.delay(Command{Type: "pause"})
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.Less(t, d, 400*time.Millisecond)
	}

	s = &Script{BaseDelay: 10}
	assert.Equal(t, 10*time.Millisecond, s.delay(Command{}))
	assert.Equal(t, 40*time.Millisecond, s.delay(Command{Delay: 40}))
}

func TestScript_PlayDrivesViewer(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "name": "drag left shape",
  "base_delay": 1,
  "base_variance": 1,
  "commands": [
    {"type": "key", "value": "right"},
    {"type": "key", "value": "right"},
    {"type": "text", "value": "o"},
    {"type": "key", "value": "q"}
  ]
}`), 0o644))
	s, err := LoadScript(path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	played := make(chan error, 1)
	go func() { played <- s.Play(ctx, f.screen) }()

	require.NoError(t, f.viewer.Run(ctx))
	require.NoError(t, <-played)

	sh, _ := f.scene.Shape(f.left)
	assert.Equal(t, 0.0, sh.Bounds.X)
	assert.Equal(t, "1 connections offpage", f.viewer.Status())
}

func TestScript_PlayCancelled(t *testing.T) {
	f := newFixture(t)
	s := &Script{BaseDelay: 10_000, Commands: []Command{{Type: "pause"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Play(ctx, f.screen), context.Canceled)
}
