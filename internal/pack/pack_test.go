package pack

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quads/internal/game"
	"github.com/lox/quads/internal/randutil"
)

func packText(ranks ...string) string {
	return strings.Join(ranks, "\n") + "\n"
}

func sixteenLines() []string {
	lines := make([]string, 16)
	for i := range lines {
		lines[i] = "1"
	}
	return lines
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid pack", func(t *testing.T) {
		t.Parallel()
		lines := make([]string, 16)
		for i := range lines {
			lines[i] = "5"
		}
		cards, err := Parse(strings.NewReader(packText(lines...)), 2)
		require.NoError(t, err)
		require.Len(t, cards, 16)
		for _, c := range cards {
			assert.Equal(t, 5, c.Rank())
		}
	})

	t.Run("whitespace and blank lines tolerated", func(t *testing.T) {
		t.Parallel()
		lines := sixteenLines()
		lines[0] = "  1  "
		lines[5] = "\t1"
		input := strings.Join(lines[:8], "\n") + "\n\n\n" + strings.Join(lines[8:], "\n") + "\n"
		cards, err := Parse(strings.NewReader(input), 2)
		require.NoError(t, err)
		assert.Len(t, cards, 16)
	})

	t.Run("unparseable value names its line", func(t *testing.T) {
		t.Parallel()
		lines := sixteenLines()
		lines[2] = "ace"
		_, err := Parse(strings.NewReader(packText(lines...)), 2)
		require.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), `"ace"`)
	})

	t.Run("negative value names its line", func(t *testing.T) {
		t.Parallel()
		lines := sixteenLines()
		lines[7] = "-4"
		_, err := Parse(strings.NewReader(packText(lines...)), 2)
		require.ErrorIs(t, err, ErrNegativeValue)
		assert.Contains(t, err.Error(), "line 8")
	})

	t.Run("too few cards", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(strings.NewReader(packText("1", "2", "3")), 2)
		require.ErrorIs(t, err, ErrWrongSize)
		assert.Contains(t, err.Error(), "need exactly 16")
		assert.Contains(t, err.Error(), "found 3")
	})

	t.Run("too many cards", func(t *testing.T) {
		t.Parallel()
		lines := append(sixteenLines(), "1")
		_, err := Parse(strings.NewReader(packText(lines...)), 2)
		require.ErrorIs(t, err, ErrWrongSize)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(strings.NewReader(""), 2)
		require.ErrorIs(t, err, ErrWrongSize)
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening pack file")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	const players = 4
	cards := Generate(players, randutil.New(42))
	require.Len(t, cards, game.PackSize(players))

	// Balanced pack: every rank appears exactly eight times.
	counts := make(map[int]int)
	for _, c := range cards {
		counts[c.Rank()]++
	}
	for rank := 1; rank <= players; rank++ {
		assert.Equal(t, 8, counts[rank], "rank %d", rank)
	}
	assert.Len(t, counts, players)

	// Same seed, same pack.
	again := Generate(players, randutil.New(42))
	assert.Equal(t, cards, again)

	// Different seed, different pack.
	other := Generate(players, randutil.New(43))
	assert.NotEqual(t, cards, other)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	t.Parallel()

	const players = 3
	cards := Generate(players, randutil.New(7))
	path := filepath.Join(t.TempDir(), "pack.txt")
	require.NoError(t, Write(path, cards))

	loaded, err := Load(path, players)
	require.NoError(t, err)
	assert.Equal(t, cards, loaded)
}
