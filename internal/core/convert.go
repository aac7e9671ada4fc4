package core

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid (NULL) if the string is empty or only whitespace, so an
// undeclared checksum is never stored as an empty string.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
