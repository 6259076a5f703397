package game

import (
	"strconv"
	"strings"
)

// Card is a single playing card. A card has no identity beyond its rank:
// two cards of equal rank are interchangeable, and four of them in one hand
// is the whole object of the game.
type Card struct {
	rank int
}

// NewCard creates a card of the given rank. Rank validity is the pack
// loader's concern; NewCard accepts any value so that policy tests can
// construct edge cases directly.
func NewCard(rank int) Card {
	return Card{rank: rank}
}

// Rank returns the card's rank.
func (c Card) Rank() int {
	return c.rank
}

// String renders the rank as it appears in transcripts.
func (c Card) String() string {
	return strconv.Itoa(c.rank)
}

// Cards formats a sequence of cards as a space-separated rank list, the
// form used for hands and deck contents in transcripts.
func Cards(cards []Card) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}
