package config_test

import (
	"testing"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := config.Load("testdata/application.yaml")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/card_data", cfg.Storage.Location)
	assert.Equal(t, "warn", cfg.Logging.LevelOrDefault())
	assert.Equal(t, "https://api.swu-db.com", cfg.Swudb.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Swudb.Client.Timeout)
	assert.Equal(t, int32(2), cfg.Swudb.Client.Retries)
	assert.Equal(t, []int{502, 503, 504}, cfg.Swudb.Client.Retryables)
	assert.Equal(t, "https://www.swudb.com", cfg.Swudeck.BaseURL)
	assert.Equal(t, "/tmp/card_data/cards_in_use.db", cfg.Ledger.PathOrDefault())
	assert.Equal(t, "/tmp/swudb_lists/cards_in_use.md", cfg.Ledger.ExportFileOrDefault())
	assert.Equal(t, "/tmp/swudb_lists", cfg.Sorter.OutputDirOrDefault())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("testdata/nope.yaml")

	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	_, err := config.Load("testdata")

	assert.ErrorContains(t, err, "not a regular file")
}

func TestDefaults(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, "info", cfg.Logging.LevelOrDefault())
	assert.Equal(t, "card_data", cfg.Storage.LocationOrDefault())
	assert.Equal(t, "card_data/cards_in_use.db", cfg.Ledger.PathOrDefault())
	assert.Equal(t, "swudb_lists/cards_in_use.md", cfg.Ledger.ExportFileOrDefault())
	assert.Equal(t, "swudb_lists", cfg.Sorter.OutputDirOrDefault())
}

func TestBuildSetURL(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		setCode string
		want    string
	}{
		{
			name:    "lowercases the set code",
			baseURL: "https://api.swu-db.com",
			setCode: "SOR",
			want:    "https://api.swu-db.com/cards/sor",
		},
		{
			name:    "trailing slash",
			baseURL: "https://api.swu-db.com/",
			setCode: "twi",
			want:    "https://api.swu-db.com/cards/twi",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Swudb{BaseURL: tc.baseURL}

			assert.Equal(t, tc.want, cfg.BuildSetURL(tc.setCode))
		})
	}
}

func TestBuildDeckURL(t *testing.T) {
	cfg := config.Swudeck{BaseURL: "https://www.swudb.com"}

	assert.Equal(t, "https://www.swudb.com/api/deck/RawKbHItN", cfg.BuildDeckURL("RawKbHItN"))
}
