package swudb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/storage"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sorPayload = `{
  "data": [
    {"Set": "SOR", "Number": "10", "Name": "Grand Inquisitor", "Rarity": "Rare"},
    {"Set": "SOR", "Number": "134", "Name": "Ruthless Raider", "Rarity": "Uncommon"}
  ]
}`

func newFetcher(t *testing.T, handler http.Handler) (*swudb.Fetcher, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	cfg := config.Swudb{BaseURL: srv.URL}
	client := web.NewClient(web.Config{}, srv.Client())

	return swudb.NewFetcher(cfg, client, store), dir
}

func TestFetchSet(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/sor", r.URL.Path)
		_, _ = w.Write([]byte(sorPayload))
	}))

	records, err := f.FetchSet(context.Background(), "sor", false)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "010", records[0].Number)
	assert.Equal(t, "Ruthless Raider", records[1].Name)
}

func TestFetchSetServesSnapshot(t *testing.T) {
	var calls int
	f, dir := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(sorPayload))
	}))

	_, err := f.FetchSet(context.Background(), "SOR", false)
	require.NoError(t, err)
	records, err := f.FetchSet(context.Background(), "SOR", false)
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 1, calls)
	assert.FileExists(t, filepath.Join(dir, "sets", "sor.json"))
}

func TestFetchSetRefreshBypassesSnapshot(t *testing.T) {
	var calls int
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(sorPayload))
	}))

	_, err := f.FetchSet(context.Background(), "SOR", false)
	require.NoError(t, err)
	_, err = f.FetchSet(context.Background(), "SOR", true)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFetchSetUnknownSet(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := f.FetchSet(context.Background(), "XXX", false)

	assert.ErrorIs(t, err, cards.ErrNotFound)
}

func TestFetchSetServerError(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := f.FetchSet(context.Background(), "SOR", false)

	assert.ErrorIs(t, err, cards.ErrUnavailable)
}

func TestFetchSetInvalidPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>maintenance</html>"},
		{name: "empty set", body: `{"data": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, dir := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))

			_, err := f.FetchSet(context.Background(), "SOR", false)

			assert.ErrorIs(t, err, cards.ErrParse)
			assert.NoFileExists(t, filepath.Join(dir, "sets", "sor.json"))
		})
	}
}

func TestFetchSetCorruptSnapshot(t *testing.T) {
	f, dir := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sorPayload))
	}))

	_, err := f.FetchSet(context.Background(), "SOR", false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sets", "sor.json"), []byte("{broken"), 0o644))

	_, err = f.FetchSet(context.Background(), "SOR", false)

	assert.ErrorIs(t, err, cards.ErrParse)
}

func TestFetchSetSkipsInvalidRecords(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
            {"Set": "SOR", "Number": "134", "Name": "Ruthless Raider"},
            {"Set": "SOR", "Number": "999"}
        ]}`))
	}))

	records, err := f.FetchSet(context.Background(), "SOR", false)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ruthless Raider", records[0].Name)
}
