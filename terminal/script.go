package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownKey is returned for script commands naming a key the viewer does not use.
var ErrUnknownKey = errors.New("unknown key")

// Command is one step of a script.
type Command struct {
	Type     string `json:"type"`               // "key", "text" or "pause"
	Value    string `json:"value,omitempty"`    // key name for "key", runes for "text"
	Delay    int    `json:"delay,omitempty"`    // milliseconds to wait afterwards
	Variance int    `json:"variance,omitempty"` // random +/- milliseconds on the delay
}

// Script is a recorded viewer session.
type Script struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Commands     []Command `json:"commands"`
	BaseDelay    int       `json:"base_delay"`
	BaseVariance int       `json:"base_variance"`
}

var keyNames = map[string]tcell.Key{
	"up":      tcell.KeyUp,
	"down":    tcell.KeyDown,
	"left":    tcell.KeyLeft,
	"right":   tcell.KeyRight,
	"tab":     tcell.KeyTab,
	"backtab": tcell.KeyBacktab,
	"esc":     tcell.KeyEscape,
	"ctrl-r":  tcell.KeyCtrlR,
}

// LoadScript reads a JSON script. A script without a base delay gets 300ms +/- 100ms.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a JSON script and checks every command.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.BaseDelay == 0 {
		s.BaseDelay = 300
		if s.BaseVariance == 0 {
			s.BaseVariance = 100
		}
	}

	for i, c := range s.Commands {
		switch c.Type {
		case "key":
			if _, err := keyEvent(c.Value); err != nil {
				return nil, fmt.Errorf("command %d: %w", i, err)
			}
		case "text", "pause":
		default:
			return nil, fmt.Errorf("command %d: unknown type %q", i, c.Type)
		}
	}
	return &s, nil
}

// keyEvent maps a key name, or a single rune, to an event.
func keyEvent(name string) (*tcell.EventKey, error) {
	if k, ok := keyNames[name]; ok {
		return tcell.NewEventKey(k, 0, tcell.ModNone), nil
	}
	if r := []rune(name); len(r) == 1 {
		return tcell.NewEventKey(tcell.KeyRune, r[0], tcell.ModNone), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Play posts the script's key events to screen, pausing between commands, until the
// script ends or ctx is cancelled.
func (s *Script) Play(ctx context.Context, screen tcell.Screen) error {
	for _, c := range s.Commands {
		switch c.Type {
		case "key":
			ev, err := keyEvent(c.Value)
			if err != nil {
				return err
			}
			if err := screen.PostEvent(ev); err != nil {
				return fmt.Errorf("post %s: %w", c.Value, err)
			}
		case "text":
			for _, r := range c.Value {
				if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); err != nil {
					return fmt.Errorf("post %q: %w", r, err)
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay(c)):
		}
	}
	return nil
}

func (s *Script) delay(c Command) time.Duration {
	delay := c.Delay
	if delay == 0 {
		delay = s.BaseDelay
	}
	variance := c.Variance
	if variance == 0 {
		variance = s.BaseVariance
	}
	if variance > 0 {
		delay += rand.IntN(variance*2) - variance
	}
	return time.Duration(max(delay, 0)) * time.Millisecond
}
