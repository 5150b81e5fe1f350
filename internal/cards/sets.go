package cards

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// mainSetOrder lists the numbered core sets in release order. Any set code
// not in this list is a promotional or variant set and ranks behind all of
// them.
var mainSetOrder = []string{"SOR", "SHD", "TWI", "JTL", "LOF", "SEC"}

func MainSets() []string {
	return slices.Clone(mainSetOrder)
}

func IsMainSet(code string) bool {
	return slices.Contains(mainSetOrder, strings.ToUpper(code))
}

// setRank returns the release position of a main set. Promotional sets all
// share the rank behind the last main set.
func setRank(code string) int {
	if i := slices.Index(mainSetOrder, strings.ToUpper(code)); i >= 0 {
		return i
	}

	return len(mainSetOrder)
}

// NumberValue returns the numeric value of a printed card number, so that
// "002" < "010" < "100". Numbers that don't parse sort last.
func NumberValue(number string) int {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return 1<<31 - 1
	}

	return n
}

// SortSetCodes orders set codes for reporting: main sets first in release
// order, promotional sets after them alphabetically.
func SortSetCodes(codes []string) []string {
	sorted := slices.Clone(codes)
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := setRank(sorted[i]), setRank(sorted[j])
		if ri != rj {
			return ri < rj
		}

		return sorted[i] < sorted[j]
	})

	return sorted
}

// ResolvePrimary picks the canonical printing out of all known printings of
// one card and returns the set codes of the remaining printings as
// alternates. Main-set printings always win over promotional ones, earlier
// releases win over later ones and the lower number breaks remaining ties.
// The result does not depend on the input order.
func ResolvePrimary(printings []Printing) (Printing, []string) {
	if len(printings) == 0 {
		return Printing{}, nil
	}

	sorted := slices.Clone(printings)
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := setRank(sorted[i].Set), setRank(sorted[j].Set)
		if ri != rj {
			return ri < rj
		}
		if sorted[i].Set != sorted[j].Set {
			return sorted[i].Set < sorted[j].Set
		}

		return NumberValue(sorted[i].Number) < NumberValue(sorted[j].Number)
	})

	primary := sorted[0]

	var alternates []string
	for _, p := range sorted[1:] {
		if p.Set == primary.Set {
			continue
		}
		if !slices.Contains(alternates, p.Set) {
			alternates = append(alternates, p.Set)
		}
	}

	return primary, alternates
}
