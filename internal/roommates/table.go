package roommates

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// WriteTable prints the preference table, one row per participant sorted by
// id:
//
//	A | B   F
//
// Removed entries are blanked to the width of the id they replace, so
// surviving entries stay in their original columns.
func WriteTable(w io.Writer, s *Store) error {
	ids := s.IDs()
	sort.Strings(ids)

	for _, id := range ids {
		entries := s.Entries(id)
		cells := make([]string, len(entries))
		for i, e := range entries {
			if e.Removed {
				cells[i] = strings.Repeat(" ", utf8.RuneCountInString(e.ID))
			} else {
				cells[i] = e.ID
			}
		}
		if _, err := fmt.Fprintf(w, "%s | %s\n", id, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable returns the table printed by WriteTable.
func FormatTable(s *Store) string {
	var buf bytes.Buffer
	_ = WriteTable(&buf, s)
	return buf.String()
}
