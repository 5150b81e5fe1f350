package decklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
	"github.com/rs/zerolog/log"
)

// NameResolver resolves a bare (set, number) reference to a card name.
type NameResolver interface {
	CardName(ctx context.Context, setCode, number string) (string, error)
}

type jsonDeckFile struct {
	Metadata     jsonMetadata    `json:"metadata"`
	Leader       *jsonDeckCard   `json:"leader"`
	SecondLeader *jsonDeckCard   `json:"secondleader"`
	Base         *jsonDeckCard   `json:"base"`
	Deck         []jsonDeckCard  `json:"deck"`
	Sideboard    []jsonDeckCard  `json:"sideboard"`
}

type jsonMetadata struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

type jsonDeckCard struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// ParseJSON reads a structured deck export. Card ids carry only set and
// number, names are resolved through the card index; printings outside the
// card database keep a placeholder name.
func ParseJSON(ctx context.Context, r io.Reader, names NameResolver) (*Deck, error) {
	var file jsonDeckFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode deck file, %w, %w", err, cards.ErrParse)
	}

	format := swudeck.FormatPremier
	if file.SecondLeader != nil && file.SecondLeader.ID != "" {
		format = swudeck.FormatTwinSuns
	}

	deck := &Deck{
		Title:  file.Metadata.Name,
		Author: file.Metadata.Author,
		Format: string(format),
	}

	deck.Leader = resolveCard(ctx, file.Leader, cards.ZoneMain, names)
	deck.SecondLeader = resolveCard(ctx, file.SecondLeader, cards.ZoneMain, names)
	deck.Base = resolveCard(ctx, file.Base, cards.ZoneMain, names)

	for _, e := range []*cards.DeckEntry{deck.Leader, deck.SecondLeader, deck.Base} {
		if e != nil {
			deck.Entries = append(deck.Entries, *e)
		}
	}
	for i := range file.Deck {
		if e := resolveCard(ctx, &file.Deck[i], cards.ZoneMain, names); e != nil {
			deck.Entries = append(deck.Entries, *e)
		}
	}
	for i := range file.Sideboard {
		if e := resolveCard(ctx, &file.Sideboard[i], cards.ZoneSideboard, names); e != nil {
			deck.Entries = append(deck.Entries, *e)
		}
	}

	return deck, nil
}

func resolveCard(ctx context.Context, c *jsonDeckCard, zone cards.Zone, names NameResolver) *cards.DeckEntry {
	if c == nil || c.ID == "" {
		return nil
	}

	printing, err := parseCardID(c.ID)
	if err != nil {
		log.Warn().Err(err).Msgf("skipping deck entry with malformed card id %s", c.ID)

		return nil
	}

	qty := c.Count
	if qty < 1 {
		qty = 1
	}

	return &cards.DeckEntry{
		Printing: printing,
		Name:     cardName(ctx, printing, names),
		Quantity: qty,
		Zone:     zone,
	}
}

func cardName(ctx context.Context, p cards.Printing, names NameResolver) string {
	if names != nil {
		name, err := names.CardName(ctx, p.Set, p.Number)
		if err == nil {
			return name
		}
		if !errors.Is(err, cards.ErrNotFound) {
			log.Warn().Err(err).Msgf("could not resolve name of %s", p)
		}
	}

	return fmt.Sprintf("[%s_%s]", p.Set, p.Number)
}

func parseCardID(id string) (cards.Printing, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return cards.Printing{}, fmt.Errorf("card id %s is not of the form SET_NNN, %w", id, cards.ErrParse)
	}

	return cards.Printing{
		Set:    parts[0],
		Number: cards.PadNumber(parts[1]),
	}, nil
}
