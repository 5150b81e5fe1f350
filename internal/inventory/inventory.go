// Package inventory feeds the per-set inventory spreadsheet: one tab per
// set, card numbers down the sheet, name and rarity columns filled from the
// card database.
package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/swudb"
	"github.com/rs/zerolog/log"
)

// Sheet is the spreadsheet collaborator. Implementations live outside this
// module, the core only reads the card count cell and writes columns.
type Sheet interface {
	ReadCell(tab, ref string) (string, error)
	WriteColumn(tab, startRef string, values []string) error
}

// Cell references of the inventory sheet layout: total card count in H1,
// names from B3 downwards, rarity letters from D3 downwards.
const (
	CountCell   = "H1"
	NamesStart  = "B3"
	RarityStart = "D3"
)

// Columns holds name and rarity values aligned to card numbers 1..N.
type Columns struct {
	Names    []string
	Rarities []string
}

// BuildColumns resolves every card number from 1 to count against the
// index. A number missing from the set aborts the build.
func BuildColumns(idx *swudb.Index, count int) (Columns, error) {
	cols := Columns{
		Names:    make([]string, 0, count),
		Rarities: make([]string, 0, count),
	}

	for num := 1; num <= count; num++ {
		number := cards.PadNumber(strconv.Itoa(num))
		name, err := idx.NameOf(number)
		if err != nil {
			return Columns{}, err
		}
		rarity, err := idx.RarityOf(number)
		if err != nil {
			return Columns{}, err
		}
		cols.Names = append(cols.Names, name)
		cols.Rarities = append(cols.Rarities, rarity)
	}

	return cols, nil
}

type Updater struct {
	library *swudb.Library
	sheet   Sheet
}

func NewUpdater(library *swudb.Library, sheet Sheet) *Updater {
	return &Updater{
		library: library,
		sheet:   sheet,
	}
}

// UpdateSet fills the name and rarity columns of the set's tab. The number
// of rows comes from the count cell of the tab itself, not from the card
// database.
func (u *Updater) UpdateSet(ctx context.Context, setCode string) error {
	tab := strings.ToUpper(setCode)

	idx, err := u.library.Index(ctx, setCode)
	if err != nil {
		return err
	}

	raw, err := u.sheet.ReadCell(tab, CountCell)
	if err != nil {
		return fmt.Errorf("failed to read card count for %s: %w", tab, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 1 {
		return fmt.Errorf("card count %q of tab %s is not a positive number, %w", raw, tab, cards.ErrParse)
	}

	if count > idx.Size() {
		log.Warn().Msgf("tab %s expects %d cards but the card database only has %d", tab, count, idx.Size())
	}

	cols, err := BuildColumns(idx, count)
	if err != nil {
		return err
	}

	if err = u.sheet.WriteColumn(tab, NamesStart, cols.Names); err != nil {
		return fmt.Errorf("failed to write names column of %s: %w", tab, err)
	}
	if err = u.sheet.WriteColumn(tab, RarityStart, cols.Rarities); err != nil {
		return fmt.Errorf("failed to write rarity column of %s: %w", tab, err)
	}
	log.Info().Msgf("Updated %d rows on tab %s", count, tab)

	return nil
}
