package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
	"github.com/gokatarajesh/flagquiz/internal/game"
	"github.com/gokatarajesh/flagquiz/internal/logging"
)

func main() {
	logger := logging.NewWithWriter(os.Stderr, "flagquiz-play", "development", os.Getenv("LOG_LEVEL"))

	cat, err := catalog.NewEmbeddedSource().Load(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	t := newTerminal(game.NewState(cat, game.Options{}), os.Stdin, os.Stdout, logger)
	if err := t.run(); err != nil {
		logger.Fatal().Err(err).Msg("play failed")
	}
}

// terminal is a line-based controller: every command mutates the State and the
// screen is repainted from a fresh Snapshot.
type terminal struct {
	state  *game.State
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
}

func newTerminal(state *game.State, in io.Reader, out io.Writer, logger zerolog.Logger) *terminal {
	return &terminal{
		state:  state,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

func (t *terminal) run() error {
	t.repaint()
	for t.in.Scan() {
		cmd := strings.TrimSpace(strings.ToLower(t.in.Text()))
		switch cmd {
		case "":
			continue
		case "q", "quit":
			fmt.Fprintln(t.out, "bye")
			return nil
		case "n", "new":
			if err := t.state.Start(); err != nil {
				return fmt.Errorf("start game: %w", err)
			}
			t.logger.Debug().Msg("sequence started")
		case "1", "2", "3":
			t.answer(int(cmd[0] - '1'))
		default:
			fmt.Fprintf(t.out, "unknown command %q\n", cmd)
		}
		t.repaint()
	}
	return t.in.Err()
}

func (t *terminal) answer(slot int) {
	correct, err := t.state.Answer(slot)
	switch {
	case errors.Is(err, game.ErrNotInProgress):
		fmt.Fprintln(t.out, "no game running, press n to start")
	case errors.Is(err, game.ErrCatalogExhausted):
		fmt.Fprintf(t.out, "Correct! You named every flag. Record: %d\n", t.state.Best())
	case err != nil:
		t.logger.Error().Err(err).Int("slot", slot).Msg("answer failed")
	case correct:
		fmt.Fprintln(t.out, "Correct!")
	default:
		fmt.Fprintf(t.out, "GAME OVER! You got %d flags. Record: %d\n", t.state.Level(), t.state.Best())
	}
}

func (t *terminal) repaint() {
	snap := t.state.Snapshot()
	if snap.Phase != game.PhaseInRound {
		fmt.Fprintln(t.out, "[n] new game  [q] quit")
		return
	}
	fmt.Fprintf(t.out, "\nWhich flag is %s?\n", snap.CountryName)
	for i, flag := range snap.Flags {
		fmt.Fprintf(t.out, "  [%d] %s\n", i+1, flag)
	}
	fmt.Fprintf(t.out, "Level: %d  Record: %d\n", snap.Level, snap.Best)
}
