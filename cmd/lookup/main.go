package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/config"
	logger "github.com/bfellner/swu-tracker-go/internal/log"
	"github.com/bfellner/swu-tracker-go/internal/storage"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: card-lookup [options...] <set> <number>
  Prints the card with the given number of a set, e.g. card-lookup sor 134.
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -r, --refresh bypass the local snapshot and re-fetch the set
  -h, --help prints help information
`

func main() {
	logger.SetupConsoleLogger()

	var configPath string
	var refresh bool

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.BoolVar(&refresh, "r", false, "bypass the local snapshot and re-fetch the set")
	flag.BoolVar(&refresh, "refresh", false, "bypass the local snapshot and re-fetch the set")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if flag.NArg() < 2 {
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

	if err := run(context.Background(), cfg, flag.Arg(0), flag.Arg(1), refresh); err != nil {
		log.Error().Err(err).Msg("lookup failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, setCode, number string, refresh bool) error {
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

	c, err := swudb.NewIndex(strings.ToUpper(setCode), records).Card(number)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s: %s\n", c.Set, c.Number, c.DisplayName())
	fmt.Printf("  Type:   %s\n", c.Type)
	if len(c.Aspects) > 0 {
		fmt.Printf("  Aspects: %s\n", strings.Join(c.Aspects, ", "))
	}
	if c.Cost != "" {
		fmt.Printf("  Cost:   %s\n", c.Cost)
	}
	if c.Power != "" || c.HP != "" {
		fmt.Printf("  Power/HP: %s/%s\n", c.Power, c.HP)
	}
	fmt.Printf("  Rarity: %s\n", c.Rarity)
	if c.FrontText != "" {
		fmt.Printf("  Text:   %s\n", c.FrontText)
	}

	return nil
}
