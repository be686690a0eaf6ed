package game

import (
	"errors"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
)

// OptionCount is the number of flags offered per round.
const OptionCount = 3

// Phase of a round sequence.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInRound    Phase = "in_round"
	PhaseOver       Phase = "over"
)

var (
	ErrCatalogTooSmall  = errors.New("catalog has fewer than 3 countries")
	ErrCatalogExhausted = errors.New("catalog exhausted")
	ErrNotInProgress    = errors.New("game not in progress")
	ErrInvalidSlot      = errors.New("invalid answer slot")
	ErrNoRound          = errors.New("no round generated yet")
)

// Catalog is the read-only country list a State draws from.
type Catalog interface {
	Len() int
	Country(id int) catalog.Country
}

// Snapshot is the render view of a State.
type Snapshot struct {
	Phase       Phase               `json:"phase"`
	CountryName string              `json:"country_name,omitempty"`
	Flags       [OptionCount]string `json:"flags"`
	Level       int                 `json:"level"`
	Best        int                 `json:"best"`
}
