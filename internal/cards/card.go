package cards

import (
	"fmt"
	"strings"
)

// PadNumber zero-pads a card number to the printed three digit form,
// e.g. "7" becomes "007". Longer numbers are kept as they are.
func PadNumber(number string) string {
	number = strings.TrimSpace(number)
	for len(number) < 3 {
		number = "0" + number
	}

	return number
}

// Card is a single printed card. The number is unique per set, so a card is
// identified by its (Set, Number) pair. Records are never mutated after they
// have been fetched.
type Card struct {
	Set       string   `json:"Set"`
	Number    string   `json:"Number"`
	Name      string   `json:"Name"`
	Subtitle  string   `json:"Subtitle,omitempty"`
	Type      string   `json:"Type,omitempty"`
	Aspects   []string `json:"Aspects,omitempty"`
	Traits    []string `json:"Traits,omitempty"`
	Cost      string   `json:"Cost,omitempty"`
	Power     string   `json:"Power,omitempty"`
	HP        string   `json:"HP,omitempty"`
	Rarity    string   `json:"Rarity"`
	Unique    bool     `json:"Unique,omitempty"`
	Artist    string   `json:"Artist,omitempty"`
	FrontText string   `json:"FrontText,omitempty"`
}

// DisplayName joins name and subtitle the way the deck service prints them,
// e.g. "Darth Vader - Dark Lord of the Sith".
func (c Card) DisplayName() string {
	if c.Subtitle == "" {
		return c.Name
	}

	return fmt.Sprintf("%s - %s", c.Name, c.Subtitle)
}

func (c Card) Validate() error {
	if c.Set == "" {
		return fmt.Errorf("field 'Set' must not be empty")
	}
	if c.Number == "" {
		return fmt.Errorf("field 'Number' must not be empty in set %s", c.Set)
	}
	if c.Name == "" {
		return fmt.Errorf("field 'Name' must not be empty in card %s of set %s", c.Number, c.Set)
	}

	return nil
}

// Printing is one (set, number) appearance of a card. The same physical card
// can have printings in multiple sets.
type Printing struct {
	Set    string
	Number string
}

func (p Printing) String() string {
	return fmt.Sprintf("%s %s", p.Set, p.Number)
}
