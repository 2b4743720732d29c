package catalog

import (
	"context"
	"errors"
)

// Chain asks providers in order and returns the first match. A provider
// miss falls through to the next one. When nobody matched but some provider
// failed, the failure is returned: the ISBN may well exist.
type Chain struct {
	providers []Lookup
}

func NewChain(providers ...Lookup) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Lookup(ctx context.Context, isbn string) (Metadata, error) {
	var failures []error
	for _, p := range c.providers {
		m, err := p.Lookup(ctx, isbn)
		switch {
		case err == nil:
			return m, nil
		case errors.Is(err, ErrNoMatch):
			continue
		case ctx.Err() != nil:
			return Metadata{}, err
		default:
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return Metadata{}, errors.Join(failures...)
	}
	return Metadata{}, ErrNoMatch
}
