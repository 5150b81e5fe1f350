// Package swudb talks to the remote card database and keeps a local
// snapshot per set. Card data is immutable once a set is released, so a
// snapshot stays valid until a refresh is forced.
package swudb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/aio"
	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/storage"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/rs/zerolog/log"
)

const snapshotDir = "sets"

type setPayload struct {
	Data []cards.Card `json:"data"`
}

type Fetcher struct {
	cfg    config.Swudb
	client web.Client
	store  storage.Storer
}

func NewFetcher(cfg config.Swudb, client web.Client, store storage.Storer) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: client,
		store:  store,
	}
}

// FetchSet returns every card of the given set. Without refresh a local
// snapshot is served if one exists; otherwise the set is fetched from the
// remote database and the snapshot is replaced.
func (f *Fetcher) FetchSet(ctx context.Context, setCode string, refresh bool) ([]cards.Card, error) {
	setCode = strings.ToUpper(strings.TrimSpace(setCode))
	if setCode == "" {
		return nil, fmt.Errorf("set code must not be empty, %w", cards.ErrNotFound)
	}

	snapshot := snapshotFilename(setCode)
	if !refresh {
		exists, err := f.store.Exists(snapshotDir, snapshot)
		if err != nil {
			return nil, err
		}
		if exists {
			return f.loadSnapshot(setCode, snapshot)
		}
	}

	url := f.cfg.BuildSetURL(setCode)
	resp, err := f.client.Get(ctx, url, web.NewGetOpts())
	if err != nil {
		if web.IsStatusCode(err, http.StatusNotFound) {
			return nil, fmt.Errorf("set %s is unknown to the card database, %w", setCode, cards.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to fetch set %s, %w, %w", setCode, err, cards.ErrUnavailable)
	}
	defer aio.Close(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read set %s response, %w, %w", setCode, err, cards.ErrUnavailable)
	}

	records, err := decodeSet(setCode, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if _, err = f.store.Store(bytes.NewReader(body), snapshotDir, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot for set %s, %w", setCode, err)
	}
	log.Debug().Msgf("Stored snapshot for set %s with %d cards", setCode, len(records))

	return records, nil
}

func (f *Fetcher) loadSnapshot(setCode, snapshot string) ([]cards.Card, error) {
	r, err := f.store.Load(snapshotDir, snapshot)
	if err != nil {
		return nil, err
	}
	defer aio.Close(r)

	records, err := decodeSet(setCode, r)
	if err != nil {
		return nil, fmt.Errorf("snapshot for set %s is corrupt, delete it or force a refresh, %w", setCode, err)
	}
	log.Debug().Msgf("Loaded set %s from local snapshot", setCode)

	return records, nil
}

func decodeSet(setCode string, r io.Reader) ([]cards.Card, error) {
	var payload setPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode card data for set %s, %w, %w", setCode, err, cards.ErrParse)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("card data for set %s contains no cards, %w", setCode, cards.ErrParse)
	}

	records := make([]cards.Card, 0, len(payload.Data))
	for _, c := range payload.Data {
		c.Number = cards.PadNumber(c.Number)
		if err := c.Validate(); err != nil {
			log.Warn().Err(err).Msgf("skipping invalid card record in set %s", setCode)

			continue
		}
		records = append(records, c)
	}

	return records, nil
}

func snapshotFilename(setCode string) string {
	return strings.ToLower(setCode) + ".json"
}
