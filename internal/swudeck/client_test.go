package swudeck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deckPayload = `{
  "deckName": "Vader Aggro",
  "authorName": "bfellner",
  "deckFormat": 1,
  "leader": {"cardName": "Darth Vader", "title": "Dark Lord of the Sith",
             "defaultExpansionAbbreviation": "SOR", "defaultCardNumber": "10"},
  "base": {"cardName": "Command Center",
           "defaultExpansionAbbreviation": "SOR", "defaultCardNumber": "23"},
  "shuffledDeck": [
    {"card": {"cardName": "Ruthless Raider",
              "defaultExpansionAbbreviation": "SOR", "defaultCardNumber": "134"},
     "count": 3, "sideboardCount": 0},
    {"card": {"cardName": "Superlaser Blast",
              "defaultExpansionAbbreviation": "SOR", "defaultCardNumber": "89"},
     "count": 1, "sideboardCount": 2}
  ]
}`

func newDeckClient(t *testing.T, handler http.Handler) *swudeck.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return swudeck.NewClient(config.Swudeck{BaseURL: srv.URL}, web.NewClient(web.Config{}, srv.Client()))
}

func TestFetchDeck(t *testing.T) {
	c := newDeckClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/deck/RawKbHItN", r.URL.Path)
		_, _ = w.Write([]byte(deckPayload))
	}))

	deck, err := c.FetchDeck(context.Background(), "https://www.swudb.com/deck/RawKbHItN")

	require.NoError(t, err)
	assert.Equal(t, "RawKbHItN", deck.ID)
	assert.Equal(t, "Vader Aggro", deck.Title)
	assert.Equal(t, "bfellner", deck.Author)
	assert.Equal(t, swudeck.FormatPremier, deck.Format)
	require.NotNil(t, deck.Leader)
	assert.Equal(t, "Darth Vader - Dark Lord of the Sith", deck.Leader.Name)
	assert.Nil(t, deck.SecondLeader)
	require.NotNil(t, deck.Base)

	// leader + base + raider main + blast main + blast sideboard
	require.Len(t, deck.Entries, 5)
	assert.Equal(t, cards.DeckEntry{
		Printing: cards.Printing{Set: "SOR", Number: "134"},
		Name:     "Ruthless Raider",
		Quantity: 3,
		Zone:     cards.ZoneMain,
	}, deck.Entries[2])
	assert.Equal(t, cards.ZoneSideboard, deck.Entries[4].Zone)
	assert.Equal(t, 2, deck.Entries[4].Quantity)
	assert.Equal(t, "089", deck.Entries[4].Printing.Number)
}

func TestFetchDeckTitleFallsBackToID(t *testing.T) {
	c := newDeckClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deckFormat": 2}`))
	}))

	deck, err := c.FetchDeck(context.Background(), "https://swudb.com/deck/abc123")

	require.NoError(t, err)
	assert.Equal(t, "abc123", deck.Title)
	assert.Equal(t, swudeck.FormatTwinSuns, deck.Format)
	assert.Empty(t, deck.Entries)
}

func TestFetchDeckNotFound(t *testing.T) {
	c := newDeckClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchDeck(context.Background(), "https://www.swudb.com/deck/missing")

	assert.ErrorIs(t, err, cards.ErrNotFound)
}

func TestFetchDeckInvalidPayload(t *testing.T) {
	c := newDeckClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	_, err := c.FetchDeck(context.Background(), "https://www.swudb.com/deck/RawKbHItN")

	assert.ErrorIs(t, err, cards.ErrParse)
}

func TestIsDeckURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "deck page", input: "https://www.swudb.com/deck/RawKbHItN", want: true},
		{name: "without www", input: "https://swudb.com/deck/RawKbHItN", want: true},
		{name: "other host", input: "https://example.com/deck/RawKbHItN", want: false},
		{name: "not a deck page", input: "https://www.swudb.com/cards/sor", want: false},
		{name: "local file", input: "mydeck.txt", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, swudeck.IsDeckURL(tc.input))
		})
	}
}

func TestExtractDeckID(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain deck URL", input: "https://www.swudb.com/deck/RawKbHItN", want: "RawKbHItN"},
		{name: "trailing path", input: "https://www.swudb.com/deck/RawKbHItN/view", want: "RawKbHItN"},
		{name: "no deck segment", input: "https://www.swudb.com/cards/sor", wantErr: true},
		{name: "empty id", input: "https://www.swudb.com/deck/", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := swudeck.ExtractDeckID(tc.input)

			if tc.wantErr {
				assert.ErrorIs(t, err, cards.ErrParse)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}
