package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/inventory"
	logger "github.com/bfellner/swu-tracker-go/internal/log"
	"github.com/bfellner/swu-tracker-go/internal/storage"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: set-inventory [options...] <set>
  Prints the inventory columns (number, name, rarity) of a set for cards
  1..N, ready to paste into the inventory sheet.
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -n, --count number of rows, defaults to the full set
  -r, --refresh bypass the local snapshot and re-fetch the set
  -h, --help prints help information
`

func main() {
	logger.SetupConsoleLogger()

	var configPath string
	var count int
	var refresh bool

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.IntVar(&count, "n", 0, "number of rows, defaults to the full set")
	flag.IntVar(&count, "count", 0, "number of rows, defaults to the full set")
	flag.BoolVar(&refresh, "r", false, "bypass the local snapshot and re-fetch the set")
	flag.BoolVar(&refresh, "refresh", false, "bypass the local snapshot and re-fetch the set")
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

	if err := run(context.Background(), cfg, flag.Arg(0), count, refresh); err != nil {
		log.Error().Err(err).Msg("inventory listing failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, setCode string, count int, refresh bool) error {
	store, err := storage.NewLocalStorage(cfg.Storage.LocationOrDefault())
	if err != nil {
		return err
	}

	client := web.NewClient(cfg.Swudb.Client, &http.Client{Timeout: cfg.Swudb.Client.Timeout})
	fetcher := swudb.NewFetcher(cfg.Swudb, client, store)

	records, err := fetcher.FetchSet(ctx, setCode, refresh)
	if err != nil {
		return err
	}

	idx := swudb.NewIndex(strings.ToUpper(setCode), records)
	if count <= 0 {
		count = idx.Size()
	}

	cols, err := inventory.BuildColumns(idx, count)
	if err != nil {
		return err
	}
	log.Info().Msgf("Set %s has %d cards, printing %d rows", idx.Set(), idx.Size(), count)

	for i := 0; i < count; i++ {
		number := cards.PadNumber(strconv.Itoa(i + 1))
		fmt.Printf("%s\t%s\t%s\n", number, cols.Names[i], cols.Rarities[i])
	}

	return nil
}
