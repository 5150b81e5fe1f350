package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
	"github.com/rs/zerolog/log"
)

// DeckImporter fetches a remote deck by its page URL.
type DeckImporter interface {
	FetchDeck(ctx context.Context, deckURL string) (*swudeck.Deck, error)
}

// TrackedDeck is one deck currently counted against the inventory.
type TrackedDeck struct {
	RowID   int64
	DeckID  string
	Title   string
	URL     string
	Format  string
	AddedAt time.Time
}

// DeckUsage is how many copies of a card one tracked deck holds.
type DeckUsage struct {
	DeckID   string
	Quantity int
}

// UsageRecord is the running count of one canonical card across all
// tracked decks. UseCount always equals the sum of the per deck
// quantities, a record that would reach zero is deleted instead.
type UsageRecord struct {
	Printing cards.Printing
	Name     string
	UseCount int
	Decks    []DeckUsage
}

// Snapshot is a read-only view over the whole ledger, used for the
// markdown export.
type Snapshot struct {
	Decks []TrackedDeck
	Cards []UsageRecord
}

type Ledger struct {
	db         *DB
	importer   DeckImporter
	exportFile string
}

func New(db *DB, importer DeckImporter, exportFile string) *Ledger {
	return &Ledger{
		db:         db,
		importer:   importer,
		exportFile: exportFile,
	}
}

// Add imports the deck and starts counting its cards. The deck insert and
// all usage increments happen in a single transaction, the summary file is
// rewritten after the commit.
func (l *Ledger) Add(ctx context.Context, deckURL string) (*swudeck.Deck, error) {
	deck, err := l.importer.FetchDeck(ctx, deckURL)
	if err != nil {
		return nil, err
	}

	err = l.db.withTransaction(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM decks WHERE deck_id = ?`, deck.ID).Scan(&existing)
		if err == nil {
			return fmt.Errorf("deck %s (%s) is already tracked, remove it first to re-add it", deck.ID, deck.Title)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up deck %s: %w", deck.ID, err)
		}

		var deckRowID int64
		addedAt := time.Now().UTC().Format(time.RFC3339)
		err = tx.QueryRowContext(ctx,
			`INSERT INTO decks (deck_id, title, url, format, added_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
			deck.ID, deck.Title, deck.URL, string(deck.Format), addedAt).Scan(&deckRowID)
		if err != nil {
			return fmt.Errorf("failed to insert deck %s: %w", deck.ID, err)
		}

		for _, m := range mergeEntries(deck.Entries) {
			var cardID int64
			err = tx.QueryRowContext(ctx,
				`INSERT INTO cards (name, primary_set, primary_number, use_count)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT (primary_set, primary_number)
				 DO UPDATE SET use_count = use_count + excluded.use_count
				 RETURNING id`,
				m.name, m.printing.Set, m.printing.Number, m.total()).Scan(&cardID)
			if err != nil {
				return fmt.Errorf("failed to upsert usage record for %s: %w", m.printing, err)
			}

			for _, zone := range []cards.Zone{cards.ZoneMain, cards.ZoneSideboard} {
				qty := m.zones[zone]
				if qty == 0 {
					continue
				}
				_, err = tx.ExecContext(ctx,
					`INSERT INTO deck_cards (deck_id, card_id, zone, quantity) VALUES (?, ?, ?, ?)`,
					deckRowID, cardID, string(zone), qty)
				if err != nil {
					return fmt.Errorf("failed to link %s to deck %s: %w", m.printing, deck.ID, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("Added deck %s (%s)", deck.Title, deck.Format)

	return deck, l.Export(ctx)
}

// Remove stops counting the deck's cards, using the quantities recorded at
// add time. Usage records that reach zero are deleted.
func (l *Ledger) Remove(ctx context.Context, deckURL string) (string, error) {
	deckID, err := swudeck.ExtractDeckID(deckURL)
	if err != nil {
		return "", err
	}

	var title string
	err = l.db.withTransaction(ctx, func(tx *sql.Tx) error {
		var rowID int64
		err := tx.QueryRowContext(ctx, `SELECT id, title FROM decks WHERE deck_id = ?`, deckID).Scan(&rowID, &title)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("deck %s is not tracked, %w", deckID, cards.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up deck %s: %w", deckID, err)
		}

		usages, err := deckUsages(ctx, tx, rowID)
		if err != nil {
			return err
		}

		for _, u := range usages {
			res, err := tx.ExecContext(ctx, `UPDATE cards SET use_count = use_count - ? WHERE id = ?`, u.quantity, u.cardID)
			if err != nil {
				return fmt.Errorf("failed to decrement usage record %d: %w", u.cardID, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected != 1 {
				return fmt.Errorf("usage record %d of deck %s is gone, %w", u.cardID, deckID, cards.ErrStateInconsistent)
			}
		}

		var negative int
		if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE use_count < 0`).Scan(&negative); err != nil {
			return err
		}
		if negative > 0 {
			return fmt.Errorf("%d use counts of deck %s would drop below zero, %w", negative, deckID, cards.ErrStateInconsistent)
		}

		if _, err = tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, rowID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, rowID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM cards WHERE use_count = 0`); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return "", err
	}
	log.Info().Msgf("Removed deck %s", title)

	return title, l.Export(ctx)
}

// RemoveAll clears every tracked deck and usage record. The current summary
// file is renamed with a timestamp suffix instead of being deleted.
func (l *Ledger) RemoveAll(ctx context.Context) (int, error) {
	var deckCount int
	if err := l.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&deckCount); err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", err)
	}
	if deckCount == 0 {
		return 0, nil
	}

	archived, err := archiveFile(l.exportFile)
	if err != nil {
		return 0, err
	}
	if archived != "" {
		log.Info().Msgf("Archived summary as %s", archived)
	}

	err = l.db.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM deck_cards`,
			`DELETE FROM cards`,
			`DELETE FROM decks`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deckCount, nil
}

// List returns all tracked decks in the order they were added.
func (l *Ledger) List(ctx context.Context) ([]TrackedDeck, error) {
	rows, err := l.db.conn.QueryContext(ctx,
		`SELECT id, deck_id, title, url, format, added_at FROM decks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []TrackedDeck
	for rows.Next() {
		var d TrackedDeck
		var addedAt string
		if err = rows.Scan(&d.RowID, &d.DeckID, &d.Title, &d.URL, &d.Format, &addedAt); err != nil {
			return nil, err
		}
		if d.AddedAt, err = time.Parse(time.RFC3339, addedAt); err != nil {
			return nil, fmt.Errorf("deck %s has an invalid added_at value %q: %w", d.DeckID, addedAt, err)
		}
		decks = append(decks, d)
	}

	return decks, rows.Err()
}

type deckUsage struct {
	cardID   int64
	quantity int
}

func deckUsages(ctx context.Context, tx *sql.Tx, deckRowID int64) ([]deckUsage, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT card_id, SUM(quantity) FROM deck_cards WHERE deck_id = ? GROUP BY card_id`, deckRowID)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck usages: %w", err)
	}
	defer rows.Close()

	var usages []deckUsage
	for rows.Next() {
		var u deckUsage
		if err = rows.Scan(&u.cardID, &u.quantity); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}

	return usages, rows.Err()
}

type mergedEntry struct {
	printing cards.Printing
	name     string
	zones    map[cards.Zone]int
}

func (m mergedEntry) total() int {
	sum := 0
	for _, qty := range m.zones {
		sum += qty
	}

	return sum
}

// mergeEntries folds duplicate printings into one entry per card while
// keeping the main and sideboard quantities apart.
func mergeEntries(entries []cards.DeckEntry) []mergedEntry {
	byPrinting := make(map[cards.Printing]int)
	var merged []mergedEntry
	for _, e := range entries {
		if e.Quantity < 1 {
			continue
		}
		i, ok := byPrinting[e.Printing]
		if !ok {
			i = len(merged)
			byPrinting[e.Printing] = i
			merged = append(merged, mergedEntry{
				printing: e.Printing,
				name:     e.Name,
				zones:    make(map[cards.Zone]int),
			})
		}
		merged[i].zones[e.Zone] += e.Quantity
	}

	return merged
}
