package main

import (
	"fmt"
	"time"

	"github.com/lox/quads/internal/pack"
	"github.com/lox/quads/internal/randutil"
)

// GenerateCmd writes a valid pack file for a given number of players.
type GenerateCmd struct {
	Out     string `arg:"" optional:"" default:"pack.txt" help:"Output pack file"`
	Players int    `short:"n" default:"4" help:"Number of players the pack must serve"`
	Seed    *int64 `help:"RNG seed (optional)"`
}

func (c *GenerateCmd) Run() error {
	if c.Players < 2 {
		return fmt.Errorf("pack needs at least 2 players, got %d", c.Players)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	cards := pack.Generate(c.Players, randutil.New(seed))
	if err := pack.Write(c.Out, cards); err != nil {
		return err
	}

	fmt.Printf("wrote %d cards for %d players to %s (seed %d)\n", len(cards), c.Players, c.Out, seed)
	return nil
}
