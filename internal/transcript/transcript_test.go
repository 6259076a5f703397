package transcript

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quads/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func ranks(rr ...int) []game.Card {
	cards := make([]game.Card, len(rr))
	for i, r := range rr {
		cards[i] = game.NewCard(r)
	}
	return cards
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriterPlayerTranscript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWriter(dir, quietLogger())
	require.NoError(t, err)

	w.OnEvent(game.NewInitialHandEvent(1, ranks(1, 2, 3, 4)))
	w.OnEvent(game.NewTurnEvent(1, game.NewCard(5), 1, game.NewCard(2), 2, ranks(1, 3, 4, 5)))
	w.OnEvent(game.NewWinEvent(1, ranks(1, 1, 1, 1)))
	require.NoError(t, w.Close())

	want := "Player 1 initial hand: 1 2 3 4 \n" +
		"Player 1 draws a 5 from deck 1\n" +
		"Player 1 discards a 2 to deck 2\n" +
		"Player 1 current hand is 1 3 4 5\n" +
		"Player 1 wins\n" +
		"Player 1 exits\n" +
		"Player 1 final hand: 1 1 1 1\n"
	assert.Equal(t, want, readFile(t, filepath.Join(dir, "player1_output.txt")))
}

func TestWriterLossTranscript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWriter(dir, quietLogger())
	require.NoError(t, err)

	w.OnEvent(game.NewInitialHandEvent(2, ranks(2, 3, 4, 5)))
	w.OnEvent(game.NewLossEvent(2, 4, ranks(2, 3, 4, 5)))
	require.NoError(t, w.Close())

	want := "Player 2 initial hand: 2 3 4 5 \n" +
		"Player 4 has informed player 2 that player 4 has won\n" +
		"Player 2 exits\n" +
		"Player 2 hand: 2 3 4 5\n"
	assert.Equal(t, want, readFile(t, filepath.Join(dir, "player2_output.txt")))
}

func TestWriterDeckTranscript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWriter(dir, quietLogger())
	require.NoError(t, err)

	w.OnEvent(game.NewDeckContentsEvent(1, ranks(16, 14, 12, 10)))
	w.OnEvent(game.NewDeckContentsEvent(2, nil))
	require.NoError(t, w.Close())

	assert.Equal(t, "deck1 contents: 16 14 12 10 \n", readFile(t, filepath.Join(dir, "deck1_output.txt")))
	assert.Equal(t, "deck2 contents: \n", readFile(t, filepath.Join(dir, "deck2_output.txt")))
}

func TestWriterCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(dir, quietLogger())
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, w.Dir())
}

func TestWriterSwallowsWritesAfterClose(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(t.TempDir(), quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Late events must be dropped without panicking game goroutines.
	assert.NotPanics(t, func() {
		w.OnEvent(game.NewInitialHandEvent(1, ranks(1, 2, 3, 4)))
	})
}

// TestWriterRecordsWholeGame runs a real game with the writer subscribed
// and checks every expected transcript file appears with sane first lines.
func TestWriterRecordsWholeGame(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWriter(dir, quietLogger())
	require.NoError(t, err)

	bus := game.NewEventBus()
	bus.Subscribe(w)

	// Player 1 is dealt four 1s, so the game ends at the first check.
	pack := ranks(1, 5, 1, 6, 1, 7, 1, 8, 9, 10, 11, 12, 13, 14, 15, 16)
	g, err := game.New(pack, game.Config{Players: 2, Events: bus, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, g.Run(context.Background()))
	require.NoError(t, w.Close())

	p1 := readFile(t, filepath.Join(dir, "player1_output.txt"))
	assert.Contains(t, p1, "Player 1 initial hand: 1 1 1 1 \n")
	assert.Contains(t, p1, "Player 1 wins\n")
	assert.Contains(t, p1, "Player 1 final hand: 1 1 1 1\n")

	p2 := readFile(t, filepath.Join(dir, "player2_output.txt"))
	assert.Contains(t, p2, "Player 1 has informed player 2 that player 1 has won\n")
	assert.Contains(t, p2, "Player 2 exits\n")

	assert.FileExists(t, filepath.Join(dir, "deck1_output.txt"))
	assert.FileExists(t, filepath.Join(dir, "deck2_output.txt"))
}
