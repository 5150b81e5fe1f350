package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/aio"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/decklist"
	logger "github.com/bfellner/swu-tracker-go/internal/log"
	"github.com/bfellner/swu-tracker-go/internal/storage"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
	"github.com/bfellner/swu-tracker-go/internal/timer"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: deck-sorter [options...] <deck-file-or-url> [output-dir]
  Sorts a decklist by set and writes a markdown report.
  Supports picklist text files, structured deck exports (.json) and deck page URLs.
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -h, --help prints help information
`

func setup() (string, string, *config.Config) {
	logger.SetupConsoleLogger()

	var configPath string

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	if err = logger.SetLogLevel(cfg.Logging.LevelOrDefault()); err != nil {
		panic(err)
	}

	return flag.Arg(0), flag.Arg(1), cfg
}

func main() {
	defer timer.TimeTrack(time.Now(), "sort")

	input, outputDir, cfg := setup()

	if err := run(context.Background(), cfg, input, outputDir); err != nil {
		log.Error().Err(err).Msg("deck sort failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, input, outputDir string) error {
	store, err := storage.NewLocalStorage(cfg.Storage.LocationOrDefault())
	if err != nil {
		return err
	}

	cardClient := web.NewClient(cfg.Swudb.Client, &http.Client{Timeout: cfg.Swudb.Client.Timeout})
	library := swudb.NewLibrary(swudb.NewFetcher(cfg.Swudb, cardClient, store))

	deck, outPath, err := loadDeck(ctx, cfg, library, input, outputDir)
	if err != nil {
		return err
	}
	if len(deck.Entries) == 0 {
		return fmt.Errorf("no cards found in %s", input)
	}

	report := decklist.RenderMarkdown(deck)
	fmt.Println(report)

	if dir := filepath.Dir(outPath); dir != "." {
		if err = os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output dir %s %w", dir, err)
		}
	}
	if err = os.WriteFile(outPath, []byte(report), 0600); err != nil {
		return fmt.Errorf("failed to write report %s %w", outPath, err)
	}
	log.Info().Msgf("Saved report to %s", outPath)

	return nil
}

func loadDeck(ctx context.Context, cfg *config.Config, library *swudb.Library,
	input, outputDir string) (*decklist.Deck, string, error) {
	if swudeck.IsDeckURL(input) {
		deckClient := swudeck.NewClient(cfg.Swudeck,
			web.NewClient(cfg.Swudeck.Client, &http.Client{Timeout: cfg.Swudeck.Client.Timeout}))

		remote, err := deckClient.FetchDeck(ctx, input)
		if err != nil {
			return nil, "", err
		}

		deck := decklist.FromRemote(remote)
		if outputDir == "" {
			outputDir = cfg.Sorter.OutputDirOrDefault()
		}

		return deck, filepath.Join(outputDir, decklist.OutputFilename(deck.Title)), nil
	}

	f, err := os.Open(filepath.Clean(input))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open deck file %s %w", input, err)
	}
	defer aio.Close(f)

	var deck *decklist.Deck
	if strings.HasSuffix(input, ".json") {
		deck, err = decklist.ParseJSON(ctx, f, library)
	} else {
		deck, err = decklist.ParsePicklist(f)
	}
	if err != nil {
		return nil, "", err
	}

	baseName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if deck.Title == "" {
		deck.Title = baseName
	}

	outDir := filepath.Dir(input)
	if outputDir != "" {
		outDir = outputDir
	}

	return deck, filepath.Join(outDir, baseName+"-sorted.md"), nil
}
