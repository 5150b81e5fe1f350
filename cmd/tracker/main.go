package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/config"
	"github.com/bfellner/swu-tracker-go/internal/ledger"
	logger "github.com/bfellner/swu-tracker-go/internal/log"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
	"github.com/bfellner/swu-tracker-go/internal/timer"
	"github.com/bfellner/swu-tracker-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: card-tracker [options...] <command> [args...]
  Tracks which cards are committed to decks.
  Commands:
    add <url>     start tracking a deck
    remove <url>  stop tracking a deck
    remove-all    stop tracking everything, archive the summary
    list          show all tracked decks
    export        rewrite the markdown summary
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -h, --help prints help information
`

func setup() ([]string, *config.Config) {
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

	return flag.Args(), cfg
}

func main() {
	defer timer.TimeTrack(time.Now(), "track")

	args, cfg := setup()

	if err := run(context.Background(), cfg, args); err != nil {
		log.Error().Err(err).Msgf("%s failed", args[0])
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	db, err := ledger.Open(cfg.Ledger.PathOrDefault())
	if err != nil {
		return err
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to close ledger database")
		}
	}()

	importer := swudeck.NewClient(cfg.Swudeck,
		web.NewClient(cfg.Swudeck.Client, &http.Client{Timeout: cfg.Swudeck.Client.Timeout}))
	l := ledger.New(db, importer, cfg.Ledger.ExportFileOrDefault())

	switch cmd := args[0]; cmd {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("add needs a deck URL")
		}

		deck, err := l.Add(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Added deck: %s (%s)\n", deck.Title, deck.Format)

		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("remove needs a deck URL")
		}

		title, err := l.Remove(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Removed deck: %s\n", title)

		return nil
	case "remove-all":
		removed, err := l.RemoveAll(ctx)
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Println("No decks are currently being tracked.")
		} else {
			fmt.Printf("Removed %d decks.\n", removed)
		}

		return nil
	case "list":
		return list(ctx, l)
	case "export":
		if err := l.Export(ctx); err != nil {
			return err
		}
		fmt.Printf("Exported to: %s\n", cfg.Ledger.ExportFileOrDefault())

		return nil
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
}

func list(ctx context.Context, l *ledger.Ledger) error {
	decks, err := l.List(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Println("No decks are currently being tracked.")

		return nil
	}

	fmt.Printf("Tracked Decks (%d):\n\n", len(decks))
	for _, d := range decks {
		fmt.Printf("  - %s (%s)\n    %s\n    Added: %s\n\n",
			d.Title, d.Format, d.URL, d.AddedAt.Format("2006-01-02"))
	}

	return nil
}
