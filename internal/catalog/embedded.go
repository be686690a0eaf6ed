package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/countries.json
var bundled []byte

// EmbeddedSource serves the country list compiled into the binary.
type EmbeddedSource struct {
	data []byte
}

// NewEmbeddedSource returns a source over the bundled countries.json.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{data: bundled}
}

// NewJSONSource returns a source over an arbitrary JSON document in the bundle format.
func NewJSONSource(data []byte) *EmbeddedSource {
	return &EmbeddedSource{data: data}
}

func (s *EmbeddedSource) Load(_ context.Context) (*Catalog, error) {
	var countries []Country
	if err := json.Unmarshal(s.data, &countries); err != nil {
		return nil, fmt.Errorf("decode country bundle: %w", err)
	}
	return New(countries)
}
