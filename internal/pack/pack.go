// Package pack loads, generates and writes card packs.
//
// A pack for an n player game holds exactly 8n non-negative integer ranks,
// one per line in file form. Validation failures name the offending line,
// and a failed load never yields a partial pack.
package pack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/lox/quads/internal/fileutil"
	"github.com/lox/quads/internal/game"
)

var (
	// ErrInvalidValue marks a pack line that does not parse as an integer.
	ErrInvalidValue = errors.New("invalid card value")

	// ErrNegativeValue marks a pack line holding a negative integer.
	ErrNegativeValue = errors.New("negative card value")

	// ErrWrongSize marks a pack whose card count is not eight per player.
	ErrWrongSize = errors.New("wrong pack size")
)

// Load reads and validates the pack file at path for a game of players.
func Load(path string, players int) ([]game.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pack file: %w", err)
	}
	defer f.Close()

	cards, err := Parse(f, players)
	if err != nil {
		return nil, fmt.Errorf("pack file %s: %w", path, err)
	}
	return cards, nil
}

// Parse reads a pack from r: one rank per line, surrounding whitespace
// tolerated, blank lines skipped but still counted for error reporting.
// The pack must hold exactly game.PackSize(players) cards.
func Parse(r io.Reader, players int) ([]game.Card, error) {
	var cards []game.Card
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %q", ErrInvalidValue, line, text)
		}
		if value < 0 {
			return nil, fmt.Errorf("%w at line %d: %d", ErrNegativeValue, line, value)
		}
		cards = append(cards, game.NewCard(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pack: %w", err)
	}
	if want := game.PackSize(players); len(cards) != want {
		return nil, fmt.Errorf("%w: need exactly %d cards for %d players, found %d", ErrWrongSize, want, players, len(cards))
	}
	return cards, nil
}

// Generate produces a valid random pack for a game of players: each rank
// from 1 to players appears exactly eight times, shuffled with rng. Every
// rank has enough copies to win, so generated games converge.
func Generate(players int, rng *rand.Rand) []game.Card {
	cards := make([]game.Card, 0, game.PackSize(players))
	for rank := 1; rank <= players; rank++ {
		for i := 0; i < 2*game.HandSize; i++ {
			cards = append(cards, game.NewCard(rank))
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// Write stores a pack at path in the one-rank-per-line format. The write
// is atomic, so a half-written pack never exists on disk.
func Write(path string, cards []game.Card) error {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing pack file: %w", err)
	}
	return nil
}
