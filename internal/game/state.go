package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultMaxDrawFactor = 64

// Options tunes a State.
type Options struct {
	// Rand drives country selection and option order. Nil means a time-seeded source.
	Rand *rand.Rand
	// MaxDrawFactor bounds rejection sampling at catalogSize*MaxDrawFactor attempts per draw.
	MaxDrawFactor int
}

// State holds one player's quiz: the current round, the countries solved in the
// running sequence and the best streak seen so far. It is not safe for concurrent use;
// the owner serializes calls.
type State struct {
	catalog    Catalog
	rng        *rand.Rand
	drawFactor int

	correctID int
	options   [OptionCount]int
	hasRound  bool

	inProgress bool
	started    bool
	solved     map[int]struct{}
	best       int
}

// NewState builds an idle State over cat.
func NewState(cat Catalog, opts Options) *State {
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	factor := opts.MaxDrawFactor
	if factor <= 0 {
		factor = defaultMaxDrawFactor
	}
	return &State{
		catalog:    cat,
		rng:        rng,
		drawFactor: factor,
		correctID:  -1,
		solved:     make(map[int]struct{}),
	}
}

// Start begins a new sequence: the solved set is cleared and a fresh round drawn.
// The best streak is kept.
func (s *State) Start() error {
	if s.catalog == nil || s.catalog.Len() < OptionCount {
		return ErrCatalogTooSmall
	}
	s.solved = make(map[int]struct{})
	if err := s.generateRound(); err != nil {
		s.inProgress = false
		return fmt.Errorf("start game: %w", err)
	}
	s.inProgress = true
	s.started = true
	return nil
}

// Answer checks the flag in slot against the target country.
//
// A correct answer records the country as solved and draws the next round. If no
// further round can be drawn the sequence ends and ErrCatalogExhausted is returned
// together with true. A wrong answer ends the sequence, updating the best streak, and
// leaves the round in place for a final render.
func (s *State) Answer(slot int) (bool, error) {
	if !s.inProgress {
		return false, ErrNotInProgress
	}
	if slot < 0 || slot >= OptionCount {
		return false, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}

	if s.options[slot] != s.correctID {
		s.finish()
		return false, nil
	}

	s.solved[s.correctID] = struct{}{}
	if err := s.generateRound(); err != nil {
		s.finish()
		return true, err
	}
	return true, nil
}

func (s *State) finish() {
	if level := len(s.solved); level > s.best {
		s.best = level
	}
	s.inProgress = false
}

// generateRound draws the target and two distractors outside the solved set, then
// shuffles them into the option slots. The State is untouched on error.
func (s *State) generateRound() error {
	n := s.catalog.Len()
	if n-len(s.solved) < OptionCount {
		return ErrCatalogExhausted
	}

	correct, err := s.draw(n, -1, -1)
	if err != nil {
		return err
	}
	wrong1, err := s.draw(n, correct, -1)
	if err != nil {
		return err
	}
	wrong2, err := s.draw(n, correct, wrong1)
	if err != nil {
		return err
	}

	opts := [OptionCount]int{correct, wrong1, wrong2}
	s.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	s.correctID = correct
	s.options = opts
	s.hasRound = true
	return nil
}

// draw samples uniformly over [0, n) until it hits an id that is neither solved nor
// one of the excluded ids.
func (s *State) draw(n, exclude1, exclude2 int) (int, error) {
	limit := n * s.drawFactor
	for attempt := 0; attempt < limit; attempt++ {
		id := s.rng.IntN(n)
		if id == exclude1 || id == exclude2 {
			continue
		}
		if _, done := s.solved[id]; done {
			continue
		}
		return id, nil
	}
	return -1, fmt.Errorf("%w: no candidate after %d draws", ErrCatalogExhausted, limit)
}

// InProgress reports whether a sequence is active.
func (s *State) InProgress() bool { return s.inProgress }

// Phase reports where the State is in its lifecycle.
func (s *State) Phase() Phase {
	switch {
	case s.inProgress:
		return PhaseInRound
	case s.started:
		return PhaseOver
	default:
		return PhaseNotStarted
	}
}

// Flag returns the flag handle shown in slot.
func (s *State) Flag(slot int) (string, error) {
	if !s.hasRound {
		return "", ErrNoRound
	}
	if slot < 0 || slot >= OptionCount {
		return "", fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return s.catalog.Country(s.options[slot]).Flag, nil
}

// CountryName returns the name of the country to identify.
func (s *State) CountryName() (string, error) {
	if !s.hasRound {
		return "", ErrNoRound
	}
	return s.catalog.Country(s.correctID).Name, nil
}

// Level is the number of countries solved in the running sequence.
func (s *State) Level() int { return len(s.solved) }

// Best is the highest level reached at the end of any sequence.
func (s *State) Best() int { return s.best }

// CorrectID is the target country id, or -1 before the first round.
func (s *State) CorrectID() int { return s.correctID }

// Options returns the country ids in slot order.
func (s *State) Options() [OptionCount]int { return s.options }

// Snapshot collects everything a controller needs to repaint.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Phase: s.Phase(),
		Level: s.Level(),
		Best:  s.best,
	}
	if !s.hasRound {
		return snap
	}
	snap.CountryName = s.catalog.Country(s.correctID).Name
	for i, id := range s.options {
		snap.Flags[i] = s.catalog.Country(id).Flag
	}
	return snap
}
