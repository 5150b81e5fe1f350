package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bfellner/swu-tracker-go/internal/cards"
)

// Snapshot reads the whole ledger in a deterministic order: decks as they
// were added, usage records by set and numeric card number, deck references
// per record in insertion order.
func (l *Ledger) Snapshot(ctx context.Context) (*Snapshot, error) {
	decks, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.conn.QueryContext(ctx,
		`SELECT id, name, primary_set, primary_number, use_count FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage records: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*UsageRecord)
	var ids []int64
	for rows.Next() {
		var id int64
		rec := &UsageRecord{}
		if err = rows.Scan(&id, &rec.Name, &rec.Printing.Set, &rec.Printing.Number, &rec.UseCount); err != nil {
			return nil, err
		}
		byID[id] = rec
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	deckIDs := make(map[int64]string, len(decks))
	for _, d := range decks {
		deckIDs[d.RowID] = d.DeckID
	}

	usageRows, err := l.db.conn.QueryContext(ctx,
		`SELECT card_id, deck_id, SUM(quantity) FROM deck_cards GROUP BY card_id, deck_id ORDER BY deck_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck usages: %w", err)
	}
	defer usageRows.Close()

	for usageRows.Next() {
		var cardID, deckRowID int64
		var qty int
		if err = usageRows.Scan(&cardID, &deckRowID, &qty); err != nil {
			return nil, err
		}
		rec, ok := byID[cardID]
		if !ok {
			return nil, fmt.Errorf("deck usage points at missing usage record %d, %w", cardID, cards.ErrStateInconsistent)
		}
		rec.Decks = append(rec.Decks, DeckUsage{DeckID: deckIDs[deckRowID], Quantity: qty})
	}
	if err = usageRows.Err(); err != nil {
		return nil, err
	}

	records := make([]UsageRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, *byID[id])
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Printing.Set != records[j].Printing.Set {
			return records[i].Printing.Set < records[j].Printing.Set
		}

		return cards.NumberValue(records[i].Printing.Number) < cards.NumberValue(records[j].Printing.Number)
	})

	return &Snapshot{
		Decks: decks,
		Cards: records,
	}, nil
}

// Export rewrites the markdown summary from the current ledger state.
// Running it twice without an intervening mutation produces byte identical
// output.
func (l *Ledger) Export(ctx context.Context) error {
	snap, err := l.Snapshot(ctx)
	if err != nil {
		return err
	}

	return writeFileAtomic(l.exportFile, RenderMarkdown(snap))
}

// RenderMarkdown renders the cards-in-use summary, a pure function of the
// snapshot.
func RenderMarkdown(s *Snapshot) string {
	lines := []string{"# Cards In Use", ""}

	if len(s.Decks) > 0 {
		lines = append(lines, fmt.Sprintf("## Tracked Decks (%d)", len(s.Decks)), "")
		for _, d := range s.Decks {
			lines = append(lines, fmt.Sprintf("- [%s] [%s](%s) (%s)", d.DeckID, d.Title, d.URL, d.Format))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		fmt.Sprintf("## Cards (%d unique)", len(s.Cards)),
		"",
		"Format: `- NUMBER: Card Name (xTOTAL) [DECK:QTY, ...]`",
	)

	bySet := make(map[string][]UsageRecord)
	var setCodes []string
	for _, rec := range s.Cards {
		if _, ok := bySet[rec.Printing.Set]; !ok {
			setCodes = append(setCodes, rec.Printing.Set)
		}
		bySet[rec.Printing.Set] = append(bySet[rec.Printing.Set], rec)
	}

	for _, code := range cards.SortSetCodes(setCodes) {
		records := bySet[code]
		lines = append(lines, "", fmt.Sprintf("### %s (%d cards)", code, len(records)), "")
		for _, rec := range records {
			lines = append(lines, renderRecord(rec))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRecord(rec UsageRecord) string {
	line := fmt.Sprintf("- %s: %s (x%d)", rec.Printing.Number, rec.Name, rec.UseCount)
	if len(rec.Decks) > 0 {
		refs := make([]string, 0, len(rec.Decks))
		for _, d := range rec.Decks {
			refs = append(refs, fmt.Sprintf("%s:%d", d.DeckID, d.Quantity))
		}
		line += fmt.Sprintf(" [%s]", strings.Join(refs, ", "))
	}

	return line
}

// writeFileAtomic replaces the target through a temp file and rename, a
// crash mid-write never truncates an existing summary.
func writeFileAtomic(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create export dir %s %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("failed to move %s into place %w", tmp, err)
	}

	return nil
}

// archiveFile renames the summary with a timestamp suffix. A missing file
// is fine, then there is nothing to archive.
func archiveFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	archived := fmt.Sprintf("%s_%s%s", base, time.Now().Format("2006-01-02_150405"), ext)
	if err := os.Rename(path, archived); err != nil {
		return "", fmt.Errorf("failed to archive %s %w", path, err)
	}

	return archived, nil
}
