package decklist

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the sorted deck report. The output is a pure
// function of the deck, two renders of the same deck are byte identical.
func RenderMarkdown(d *Deck) string {
	var lines []string

	lines = append(lines, renderHeader(d))

	for _, group := range Group(d) {
		lines = append(lines, fmt.Sprintf("\n## %s (%d CARDS)", group.Set, len(group.Items)))
		for _, item := range group.Items {
			lines = append(lines, renderItem(item))
		}
	}

	return strings.Join(lines, "\n")
}

func renderHeader(d *Deck) string {
	title := d.Title
	if title == "" {
		title = "Deck"
	}

	lines := []string{fmt.Sprintf("# %s", title), ""}

	var info []string
	if d.Format != "" {
		info = append(info, fmt.Sprintf("**Format:** %s", d.Format))
	}
	if d.Author != "" {
		info = append(info, fmt.Sprintf("**Author:** %s", d.Author))
	}
	if len(info) > 0 {
		lines = append(lines, strings.Join(info, "  \n"), "")
	}

	var cardRefs []string
	if d.Leader != nil {
		cardRefs = append(cardRefs, fmt.Sprintf("**Leader:** %s (%s)", d.Leader.Name, d.Leader.Printing))
	}
	if d.SecondLeader != nil {
		cardRefs = append(cardRefs, fmt.Sprintf("**Leader 2:** %s (%s)", d.SecondLeader.Name, d.SecondLeader.Printing))
	}
	if d.Base != nil {
		cardRefs = append(cardRefs, fmt.Sprintf("**Base:** %s (%s)", d.Base.Name, d.Base.Printing))
	}
	if len(cardRefs) > 0 {
		lines = append(lines, strings.Join(cardRefs, "  \n"), "")
	}

	lines = append(lines, "---")

	return strings.Join(lines, "\n")
}

func renderItem(item Item) string {
	line := fmt.Sprintf("- %s: %s", item.Printing.Number, item.Name)
	if item.Quantity > 1 {
		line += fmt.Sprintf(" (x%d)", item.Quantity)
	}
	if len(item.Alternates) > 0 {
		line += fmt.Sprintf(" (also in: %s)", strings.Join(item.Alternates, ", "))
	}

	return line
}

// OutputFilename derives the report file name from the deck title, keeping
// only word characters and dashes.
func OutputFilename(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		}
	}

	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "deck"
	}

	return name + "-sorted.md"
}
