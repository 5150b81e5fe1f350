package swudb_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryCachesIndexes(t *testing.T) {
	var calls int
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(sorPayload))
	}))
	lib := swudb.NewLibrary(f)

	name, err := lib.CardName(context.Background(), "SOR", "134")
	require.NoError(t, err)
	_, err = lib.CardName(context.Background(), "SOR", "010")
	require.NoError(t, err)

	assert.Equal(t, "Ruthless Raider", name)
	assert.Equal(t, 1, calls)
}

func TestLibraryRejectsNonMainSets(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("promotional sets must not be fetched")
	}))
	lib := swudb.NewLibrary(f)

	_, err := lib.CardName(context.Background(), "P25", "130")

	assert.ErrorIs(t, err, cards.ErrNotFound)
}

func TestLibraryIndex(t *testing.T) {
	f, _ := newFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sorPayload))
	}))
	lib := swudb.NewLibrary(f)

	idx, err := lib.Index(context.Background(), "SOR")

	require.NoError(t, err)
	assert.Equal(t, 2, idx.Size())
}
