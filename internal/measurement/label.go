package measurement

import (
	"fmt"
	"strings"
)

// Format formats a value with its unit. Angles are glued to the degree sign,
// other units are separated by a space.
func Format(value float64, unit string) string {
	switch unit {
	case "":
		return fmt.Sprintf("%.2f", value)
	case Degree:
		return fmt.Sprintf("%.1f%s", value, Degree)
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// Label returns the "name: value" text of an item
func (i Item) Label() string {
	return fmt.Sprintf("%s: %s", i.Name, Format(i.Value, i.Unit))
}

// FormatTable renders items as aligned "name  value" rows, skipping items
// whose descriptor is hidden from the table
func FormatTable(items []Item) string {
	width := 0
	for _, item := range items {
		if item.Table && len(item.Name) > width {
			width = len(item.Name)
		}
	}

	var sb strings.Builder
	for _, item := range items {
		if !item.Table {
			continue
		}
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, item.Name, Format(item.Value, item.Unit))
	}
	return sb.String()
}
