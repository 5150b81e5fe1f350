package decklist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/rs/zerolog/log"
)

// Picklist lines look like
//
//	2x Ruthless Raider (SOR 134, P25 007)
//
// with the card name followed by every known printing and a requested
// quantity. Lines not matching this shape are skipped with a warning.
var (
	picklistLine = regexp.MustCompile(`^(\d+)x\s+(.+?)\s+\(([^)]+)\)$`)
	printingCode = regexp.MustCompile(`([A-Z0-9]+)\s+(\d+)`)
)

// ParsePicklist reads a picklist text export. Malformed lines are not
// fatal, only a completely unreadable input is.
func ParsePicklist(r io.Reader) (*Deck, error) {
	deck := &Deck{
		Alternates: make(map[cards.Printing][]string),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, alternates, ok := parsePicklistLine(line)
		if !ok {
			log.Warn().Msgf("skipping malformed picklist line %d: %s", lineNo, line)

			continue
		}

		deck.Entries = append(deck.Entries, entry)
		if len(alternates) > 0 {
			deck.Alternates[entry.Printing] = alternates
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read picklist, %w, %w", err, cards.ErrParse)
	}

	return deck, nil
}

func parsePicklistLine(line string) (cards.DeckEntry, []string, bool) {
	m := picklistLine.FindStringSubmatch(line)
	if m == nil {
		return cards.DeckEntry{}, nil, false
	}

	qty, err := strconv.Atoi(m[1])
	if err != nil || qty < 1 {
		return cards.DeckEntry{}, nil, false
	}

	var printings []cards.Printing
	for _, pm := range printingCode.FindAllStringSubmatch(m[3], -1) {
		printings = append(printings, cards.Printing{
			Set:    pm[1],
			Number: cards.PadNumber(pm[2]),
		})
	}
	if len(printings) == 0 {
		return cards.DeckEntry{}, nil, false
	}

	primary, alternates := cards.ResolvePrimary(printings)

	return cards.DeckEntry{
		Printing: primary,
		Name:     m[2],
		Quantity: qty,
		Zone:     cards.ZoneMain,
	}, alternates, true
}
