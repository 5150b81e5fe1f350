package swudb

import (
	"context"
	"fmt"

	"github.com/bfellner/swu-tracker-go/internal/cards"
)

// Library caches one Index per set on top of the Fetcher, so repeated name
// lookups for the same set cost a single fetch at most. Not safe for
// concurrent use, commands run single threaded.
type Library struct {
	fetcher *Fetcher
	indexes map[string]*Index
}

func NewLibrary(f *Fetcher) *Library {
	return &Library{
		fetcher: f,
		indexes: make(map[string]*Index),
	}
}

func (l *Library) Index(ctx context.Context, setCode string) (*Index, error) {
	if idx, ok := l.indexes[setCode]; ok {
		return idx, nil
	}

	records, err := l.fetcher.FetchSet(ctx, setCode, false)
	if err != nil {
		return nil, err
	}

	idx := NewIndex(setCode, records)
	l.indexes[setCode] = idx

	return idx, nil
}

// CardName resolves a bare (set, number) to the card name. Only main sets
// are backed by the card database, promotional printings are reported as
// unknown.
func (l *Library) CardName(ctx context.Context, setCode, number string) (string, error) {
	if !cards.IsMainSet(setCode) {
		return "", fmt.Errorf("set %s is not covered by the card database, %w", setCode, cards.ErrNotFound)
	}

	idx, err := l.Index(ctx, setCode)
	if err != nil {
		return "", err
	}

	return idx.NameOf(number)
}
