// Package decklist normalizes the supported deck input shapes (picklist
// text, structured JSON export, remote deck import) into one canonical
// entry list and renders the set sorted report over it.
package decklist

import (
	"sort"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/bfellner/swu-tracker-go/internal/swudeck"
)

// Deck is a normalized decklist. Entry printings are canonical, the
// alternates map keeps the non-chosen printings per canonical printing.
type Deck struct {
	Title        string
	Author       string
	Format       string
	Leader       *cards.DeckEntry
	SecondLeader *cards.DeckEntry
	Base         *cards.DeckEntry
	Entries      []cards.DeckEntry
	Alternates   map[cards.Printing][]string
}

func (d *Deck) alternatesOf(p cards.Printing) []string {
	if d.Alternates == nil {
		return nil
	}

	return d.Alternates[p]
}

// Item is one reporting row: a canonical card with its quantity merged
// across main deck and sideboard.
type Item struct {
	Printing   cards.Printing
	Name       string
	Quantity   int
	Alternates []string
}

type SetGroup struct {
	Set   string
	Items []Item
}

// Group merges entries per canonical printing, groups them by primary set
// and sorts each group by numeric card number. Set groups follow the main
// set release order, promotional groups come last in alphabetical order.
func Group(d *Deck) []SetGroup {
	merged := make(map[cards.Printing]*Item)
	var order []cards.Printing
	for _, e := range d.Entries {
		if it, ok := merged[e.Printing]; ok {
			it.Quantity += e.Quantity

			continue
		}
		merged[e.Printing] = &Item{
			Printing:   e.Printing,
			Name:       e.Name,
			Quantity:   e.Quantity,
			Alternates: d.alternatesOf(e.Printing),
		}
		order = append(order, e.Printing)
	}

	bySet := make(map[string][]Item)
	var setCodes []string
	for _, p := range order {
		if _, ok := bySet[p.Set]; !ok {
			setCodes = append(setCodes, p.Set)
		}
		bySet[p.Set] = append(bySet[p.Set], *merged[p])
	}

	var groups []SetGroup
	for _, code := range cards.SortSetCodes(setCodes) {
		items := bySet[code]
		sort.Slice(items, func(i, j int) bool {
			return cards.NumberValue(items[i].Printing.Number) < cards.NumberValue(items[j].Printing.Number)
		})
		groups = append(groups, SetGroup{Set: code, Items: items})
	}

	return groups
}

// FromRemote maps an imported remote deck into the normalized form.
func FromRemote(rd *swudeck.Deck) *Deck {
	return &Deck{
		Title:        rd.Title,
		Author:       rd.Author,
		Format:       string(rd.Format),
		Leader:       rd.Leader,
		SecondLeader: rd.SecondLeader,
		Base:         rd.Base,
		Entries:      rd.Entries,
	}
}
