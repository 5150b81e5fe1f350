package decklist_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/decklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNames map[string]string

func (f fakeNames) CardName(_ context.Context, setCode, number string) (string, error) {
	name, ok := f[setCode+"_"+number]
	if !ok {
		return "", fmt.Errorf("unknown card %s %s, %w", setCode, number, cards.ErrNotFound)
	}

	return name, nil
}

const jsonDeck = `{
  "metadata": {"name": "Vader Aggro", "author": "bfellner"},
  "leader": {"id": "SOR_010", "count": 1},
  "base": {"id": "SOR_023", "count": 1},
  "deck": [
    {"id": "SOR_134", "count": 3},
    {"id": "P25_130", "count": 1}
  ],
  "sideboard": [
    {"id": "SOR_089", "count": 2}
  ]
}`

func TestParseJSON(t *testing.T) {
	names := fakeNames{
		"SOR_010": "Darth Vader",
		"SOR_023": "Command Center",
		"SOR_089": "Superlaser Blast",
		"SOR_134": "Ruthless Raider",
	}

	deck, err := decklist.ParseJSON(context.Background(), strings.NewReader(jsonDeck), names)

	require.NoError(t, err)
	assert.Equal(t, "Vader Aggro", deck.Title)
	assert.Equal(t, "bfellner", deck.Author)
	assert.Equal(t, "Premier", deck.Format)
	require.NotNil(t, deck.Leader)
	assert.Equal(t, "Darth Vader", deck.Leader.Name)
	assert.Nil(t, deck.SecondLeader)

	// leader + base + two deck cards + one sideboard card
	require.Len(t, deck.Entries, 5)
	assert.Equal(t, cards.DeckEntry{
		Printing: cards.Printing{Set: "SOR", Number: "134"},
		Name:     "Ruthless Raider",
		Quantity: 3,
		Zone:     cards.ZoneMain,
	}, deck.Entries[2])
	assert.Equal(t, "[P25_130]", deck.Entries[3].Name)
	assert.Equal(t, cards.ZoneSideboard, deck.Entries[4].Zone)
}

func TestParseJSONTwinSuns(t *testing.T) {
	input := `{
      "metadata": {"name": "Double Trouble"},
      "leader": {"id": "TWI_005", "count": 1},
      "secondleader": {"id": "TWI_009", "count": 1},
      "deck": []
    }`

	deck, err := decklist.ParseJSON(context.Background(), strings.NewReader(input), fakeNames{})

	require.NoError(t, err)
	assert.Equal(t, "Twin Suns", deck.Format)
	require.NotNil(t, deck.SecondLeader)
	assert.Equal(t, "[TWI_009]", deck.SecondLeader.Name)
}

func TestParseJSONSkipsMalformedIDs(t *testing.T) {
	input := `{"deck": [
      {"id": "SOR134", "count": 2},
      {"id": "SOR_134", "count": 2}
    ]}`

	deck, err := decklist.ParseJSON(context.Background(), strings.NewReader(input), fakeNames{})

	require.NoError(t, err)
	require.Len(t, deck.Entries, 1)
	assert.Equal(t, cards.Printing{Set: "SOR", Number: "134"}, deck.Entries[0].Printing)
}

func TestParseJSONDefaultsCountToOne(t *testing.T) {
	input := `{"deck": [{"id": "SOR_134"}]}`

	deck, err := decklist.ParseJSON(context.Background(), strings.NewReader(input), fakeNames{})

	require.NoError(t, err)
	require.Len(t, deck.Entries, 1)
	assert.Equal(t, 1, deck.Entries[0].Quantity)
}

func TestParseJSONInvalidInput(t *testing.T) {
	_, err := decklist.ParseJSON(context.Background(), strings.NewReader("not json"), fakeNames{})

	assert.ErrorIs(t, err, cards.ErrParse)
}
