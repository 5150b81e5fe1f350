package swudb

import (
	"fmt"

	"github.com/bfellner/swu-tracker-go/internal/cards"
)

// Index is an in-memory lookup over the cards of one set, keyed by the
// printed card number.
type Index struct {
	set      string
	byNumber map[string]cards.Card
}

func NewIndex(setCode string, records []cards.Card) *Index {
	byNumber := make(map[string]cards.Card, len(records))
	for _, c := range records {
		byNumber[cards.PadNumber(c.Number)] = c
	}

	return &Index{
		set:      setCode,
		byNumber: byNumber,
	}
}

func (i *Index) Set() string {
	return i.set
}

func (i *Index) Size() int {
	return len(i.byNumber)
}

func (i *Index) Card(number string) (cards.Card, error) {
	c, ok := i.byNumber[cards.PadNumber(number)]
	if !ok {
		return cards.Card{}, fmt.Errorf("no card %s in set %s, %w", number, i.set, cards.ErrNotFound)
	}

	return c, nil
}

func (i *Index) NameOf(number string) (string, error) {
	c, err := i.Card(number)
	if err != nil {
		return "", err
	}

	return c.Name, nil
}

// RarityOf returns the single letter rarity code, the first letter of the
// printed rarity.
func (i *Index) RarityOf(number string) (string, error) {
	c, err := i.Card(number)
	if err != nil {
		return "", err
	}
	if c.Rarity == "" {
		return "", nil
	}

	return c.Rarity[:1], nil
}
