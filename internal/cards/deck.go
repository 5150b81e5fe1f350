package cards

// Zone is the deck section an entry belongs to. The distinction only
// matters for per-deck bookkeeping, grouping merges both zones.
type Zone string

const (
	ZoneMain      Zone = "main"
	ZoneSideboard Zone = "sideboard"
)

// DeckEntry is the canonical form every decklist input converges to.
type DeckEntry struct {
	Printing Printing
	Name     string
	Quantity int
	Zone     Zone
}
