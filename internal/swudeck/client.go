// Package swudeck imports decks from the remote deck service.
package swudeck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/aio"
	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/web"
)

type Format string

const (
	FormatPremier  Format = "Premier"
	FormatTwinSuns Format = "Twin Suns"
	FormatUnknown  Format = "Unknown"
)

func formatFromCode(code int) Format {
	switch code {
	case 1:
		return FormatPremier
	case 2:
		return FormatTwinSuns
	default:
		return FormatUnknown
	}
}

// Deck is a fully imported remote deck. Leader(s) and base are part of
// Entries as well, with quantity one each.
type Deck struct {
	ID           string
	URL          string
	Title        string
	Author       string
	Format       Format
	Leader       *cards.DeckEntry
	SecondLeader *cards.DeckEntry
	Base         *cards.DeckEntry
	Entries      []cards.DeckEntry
}

type deckResponse struct {
	DeckName     string     `json:"deckName"`
	AuthorName   string     `json:"authorName"`
	DeckFormat   int        `json:"deckFormat"`
	Leader       *deckCard  `json:"leader"`
	SecondLeader *deckCard  `json:"secondLeader"`
	Base         *deckCard  `json:"base"`
	ShuffledDeck []deckSlot `json:"shuffledDeck"`
}

type deckSlot struct {
	Card           *deckCard `json:"card"`
	Count          int       `json:"count"`
	SideboardCount int       `json:"sideboardCount"`
}

type deckCard struct {
	CardName                     string `json:"cardName"`
	Title                        string `json:"title"`
	DefaultExpansionAbbreviation string `json:"defaultExpansionAbbreviation"`
	DefaultCardNumber            string `json:"defaultCardNumber"`
}

func (c *deckCard) entry(quantity int, zone cards.Zone) *cards.DeckEntry {
	if c == nil || c.CardName == "" || c.DefaultExpansionAbbreviation == "" {
		return nil
	}

	name := c.CardName
	if c.Title != "" {
		name = fmt.Sprintf("%s - %s", c.CardName, c.Title)
	}

	return &cards.DeckEntry{
		Printing: cards.Printing{
			Set:    c.DefaultExpansionAbbreviation,
			Number: cards.PadNumber(c.DefaultCardNumber),
		},
		Name:     name,
		Quantity: quantity,
		Zone:     zone,
	}
}

type Client struct {
	cfg    config.Swudeck
	client web.Client
}

func NewClient(cfg config.Swudeck, wclient web.Client) *Client {
	return &Client{
		cfg:    cfg,
		client: wclient,
	}
}

// FetchDeck imports the deck behind the given deck page URL. Any failure
// aborts the whole import, there are no partial decks.
func (c *Client) FetchDeck(ctx context.Context, deckURL string) (*Deck, error) {
	id, err := ExtractDeckID(deckURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Get(ctx, c.cfg.BuildDeckURL(id), web.NewGetOpts())
	if err != nil {
		if web.IsStatusCode(err, http.StatusNotFound) {
			return nil, fmt.Errorf("deck %s is unknown to the deck service, %w", id, cards.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to fetch deck %s, %w, %w", id, err, cards.ErrUnavailable)
	}
	defer aio.Close(resp.Body)

	var dr deckResponse
	if err = json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("failed to decode deck %s, %w, %w", id, err, cards.ErrParse)
	}

	return mapDeck(&dr, id, deckURL), nil
}

func mapDeck(dr *deckResponse, id, deckURL string) *Deck {
	title := dr.DeckName
	if title == "" {
		title = id
	}

	deck := &Deck{
		ID:           id,
		URL:          deckURL,
		Title:        title,
		Author:       dr.AuthorName,
		Format:       formatFromCode(dr.DeckFormat),
		Leader:       dr.Leader.entry(1, cards.ZoneMain),
		SecondLeader: dr.SecondLeader.entry(1, cards.ZoneMain),
		Base:         dr.Base.entry(1, cards.ZoneMain),
	}

	for _, e := range []*cards.DeckEntry{deck.Leader, deck.SecondLeader, deck.Base} {
		if e != nil {
			deck.Entries = append(deck.Entries, *e)
		}
	}

	for _, slot := range dr.ShuffledDeck {
		if main := slot.Card.entry(slot.Count, cards.ZoneMain); main != nil && slot.Count > 0 {
			deck.Entries = append(deck.Entries, *main)
		}
		if side := slot.Card.entry(slot.SideboardCount, cards.ZoneSideboard); side != nil && slot.SideboardCount > 0 {
			deck.Entries = append(deck.Entries, *side)
		}
	}

	return deck
}

// IsDeckURL reports whether the input looks like a deck page URL of the
// deck service.
func IsDeckURL(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host != "swudb.com" && host != "www.swudb.com" {
		return false
	}

	return strings.Contains(u.Path, "/deck/")
}

// ExtractDeckID pulls the deck identifier out of a deck page URL like
// https://www.swudb.com/deck/RawKbHItN.
func ExtractDeckID(deckURL string) (string, error) {
	u, err := url.Parse(deckURL)
	if err != nil {
		return "", fmt.Errorf("invalid deck URL %s, %w", deckURL, cards.ErrParse)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "deck" || parts[1] == "" {
		return "", fmt.Errorf("no deck id found in URL %s, %w", deckURL, cards.ErrParse)
	}

	return parts[1], nil
}
