package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Country is one entry of the quiz. ID equals its index in the Catalog.
type Country struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Catalog is the immutable, ordered list of countries for a process.
type Catalog struct {
	countries []Country
}

// Source loads a Catalog from somewhere (bundle, database, cache).
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// New validates entries and assigns ids by position.
func New(countries []Country) (*Catalog, error) {
	seen := make(map[string]int, len(countries))
	out := make([]Country, len(countries))
	for i, c := range countries {
		c.Code = strings.ToLower(strings.TrimSpace(c.Code))
		c.Name = strings.TrimSpace(c.Name)
		c.Flag = strings.TrimSpace(c.Flag)
		if c.Name == "" {
			return nil, fmt.Errorf("country %d: empty name", i)
		}
		if c.Flag == "" {
			return nil, fmt.Errorf("country %d (%s): empty flag", i, c.Name)
		}
		if c.Code != "" {
			if prev, dup := seen[c.Code]; dup {
				return nil, fmt.Errorf("country %d (%s): duplicate code %q (also at %d)", i, c.Name, c.Code, prev)
			}
			seen[c.Code] = i
		}
		c.ID = i
		out[i] = c
	}
	return &Catalog{countries: out}, nil
}

// Len returns the number of countries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.countries)
}

// Country returns the country with the given id. It panics on an id outside
// [0, Len()), like a slice index.
func (c *Catalog) Country(id int) Country {
	return c.countries[id]
}

// All returns a copy of the countries in id order.
func (c *Catalog) All() []Country {
	if c == nil {
		return nil
	}
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}
