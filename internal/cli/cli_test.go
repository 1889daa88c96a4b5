package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want game.Action
	}{
		{"p 12", game.PlayCard(12)},
		{"  PLAY 3 ", game.PlayCard(3)},
		{"s 40", game.SelectTarget(40)},
		{"b 7", game.Bomb(7)},
		{"go", game.Go()},
		{"stop", game.Stop()},
		{"t", game.TimeoutAction()},
	}
	for _, tc := range cases {
		got, err := ParseCommand(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	for _, bad := range []string{"", "p", "p x", "p 1 2", "fold"} {
		_, err := ParseCommand(bad)
		assert.Error(t, err, bad)
	}
	_, err := ParseCommand("q")
	assert.ErrorIs(t, err, errQuit)
}

func TestFormatCard(t *testing.T) {
	assert.Equal(t, "0:"+card.Get(0).Name, FormatCard(0))
}

func run(t *testing.T, input string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestSimulate(t *testing.T) {
	out := run(t, "", "simulate", "--seed", "42", "--difficulty", "hard")
	assert.Contains(t, out, "round 1: ")
	assert.Contains(t, out, "round 3: ")
	assert.Contains(t, out, "final standings")
}

func TestSimulateRejectsBadFlags(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"simulate", "--difficulty", "expert"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())

	cmd = NewRootCmd()
	cmd.SetArgs([]string{"simulate", "--rounds", "0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestPlayQuit(t *testing.T) {
	out := run(t, "fold\nq\n", "play", "--seed", "5", "--delay", "0")
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "bye")
}

func TestPlayOnTimeouts(t *testing.T) {
	input := strings.Repeat("t\n", 300)
	out := run(t, input, "play", "--seed", "9", "--delay", "0", "--difficulty", "easy")
	assert.Contains(t, out, "your hand:")
	assert.Contains(t, out, "final standings")
}
