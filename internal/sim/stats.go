package sim

import (
	"fmt"
	"sort"
	"time"
)

// GameResult represents the outcome of a single simulated game.
type GameResult struct {
	ID       string        // game id, stable across logs
	Seed     int64         // RNG seed for this game (for replay)
	Winner   int           // winning player id, 0 when force-stopped
	Rounds   int           // completed round rendezvous
	Duration time.Duration // wall time from start to final output
	TimedOut bool          // true when the shutdown bound force-stopped it
}

// Stats aggregates results across a simulation batch. It is not
// goroutine safe; the runner adds results from a single collector.
type Stats struct {
	Games         int
	Wins          map[int]int // player id -> games won
	TimedOut      int
	TotalRounds   int
	MinRounds     int
	MaxRounds     int
	TotalDuration time.Duration
}

// NewStats returns an empty aggregate.
func NewStats() *Stats {
	return &Stats{Wins: make(map[int]int)}
}

// Add incorporates a new game result into the statistics.
func (s *Stats) Add(result GameResult) {
	s.Games++
	if result.TimedOut {
		s.TimedOut++
	} else if result.Winner > 0 {
		s.Wins[result.Winner]++
	}
	s.TotalRounds += result.Rounds
	if s.Games == 1 || result.Rounds < s.MinRounds {
		s.MinRounds = result.Rounds
	}
	if result.Rounds > s.MaxRounds {
		s.MaxRounds = result.Rounds
	}
	s.TotalDuration += result.Duration
}

// MeanRounds returns the arithmetic mean of rounds per game.
func (s *Stats) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalRounds) / float64(s.Games)
}

// MeanDuration returns the mean wall time per game.
func (s *Stats) MeanDuration() time.Duration {
	if s.Games == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Games)
}

// WinRate returns the fraction of games won by player.
func (s *Stats) WinRate(player int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[player]) / float64(s.Games)
}

// Winners returns the player ids that won at least one game, ascending.
func (s *Stats) Winners() []int {
	ids := make([]int, 0, len(s.Wins))
	for id := range s.Wins {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Validate checks internal consistency before the results are reported.
func (s *Stats) Validate() error {
	wins := 0
	for _, n := range s.Wins {
		wins += n
	}
	if wins+s.TimedOut != s.Games {
		return fmt.Errorf("inconsistent statistics: %d wins + %d timeouts != %d games", wins, s.TimedOut, s.Games)
	}
	return nil
}
