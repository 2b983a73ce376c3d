package film

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	// LineWidth is the column limit applied to the plot text.
	LineWidth = 80
	// separatorWidth is the width of the rule framing a displayed record.
	separatorWidth = 40
)

// Format renders the record as a labeled block, one field per line, with the
// plot wrapped so that no line exceeds LineWidth columns.
func Format(f Film) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: %s\n", f.Title)
	fmt.Fprintf(&sb, "Year: %s\n", f.Year)
	fmt.Fprintf(&sb, "Genre: %s\n", f.Genre)
	fmt.Fprintf(&sb, "IMDB Rating: %s\n", f.Rating)
	fmt.Fprintf(&sb, "Director: %s\n", f.Director)
	fmt.Fprintf(&sb, "Actors: %s\n", f.Actors)
	sb.WriteString(wordwrap.WrapString("Plot: "+f.Plot, LineWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "IMDB Link: %s\n", f.IMDbLink)

	return sb.String()
}

// Block frames Format's output between separator lines, padded by blank lines.
func Block(f Film) string {
	rule := strings.Repeat("=", separatorWidth)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("\n")
	sb.WriteString(Format(f))
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("\n\n")
	return sb.String()
}
