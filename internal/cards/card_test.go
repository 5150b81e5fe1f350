package cards_test

import (
	"testing"

	"github.com/bfellner/swu-tracker-go/internal/cards"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		card cards.Card
		want string
	}{
		{
			name: "without subtitle",
			card: cards.Card{Name: "Ruthless Raider"},
			want: "Ruthless Raider",
		},
		{
			name: "with subtitle",
			card: cards.Card{Name: "Darth Vader", Subtitle: "Dark Lord of the Sith"},
			want: "Darth Vader - Dark Lord of the Sith",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.card.DisplayName())
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		card    cards.Card
		wantErr bool
	}{
		{
			name: "complete card",
			card: cards.Card{Set: "SOR", Number: "134", Name: "Ruthless Raider"},
		},
		{
			name:    "missing set",
			card:    cards.Card{Number: "134", Name: "Ruthless Raider"},
			wantErr: true,
		},
		{
			name:    "missing number",
			card:    cards.Card{Set: "SOR", Name: "Ruthless Raider"},
			wantErr: true,
		},
		{
			name:    "missing name",
			card:    cards.Card{Set: "SOR", Number: "134"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.card.Validate()

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrintingString(t *testing.T) {
	p := cards.Printing{Set: "SOR", Number: "134"}

	assert.Equal(t, "SOR 134", p.String())
}
