// Package record implements the line codec for flat-file tables: one entity
// per line, fields joined by a fixed delimiter, no header row.
package record

import (
	"fmt"
	"strings"

	"bankledger/internal/models"
)

// Delimiter separates fields within a line.
const Delimiter = ","

// Encode joins fields into one line. No field may contain the delimiter or a
// newline; passing one is a caller error (sanitize or reject upstream).
func Encode(fields []string) (string, error) {
	for i, f := range fields {
		if strings.ContainsAny(f, Delimiter+"\n\r") {
			return "", fmt.Errorf("field %d contains delimiter or newline: %q", i, f)
		}
	}
	return strings.Join(fields, Delimiter), nil
}

// Decode splits a line into exactly width fields. A line that splits into any
// other number of fields yields ErrMalformedRecord; the caller decides whether
// to skip, log, or abort.
func Decode(line string, width int) ([]string, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != width {
		return nil, fmt.Errorf("%w: got %d fields, want %d", models.ErrMalformedRecord, len(fields), width)
	}
	return fields, nil
}

// Sanitize makes free text safe for Encode by replacing delimiter and newline
// characters with spaces. Used for fields like transaction details that carry
// arbitrary caller input.
func Sanitize(s string) string {
	r := strings.NewReplacer(Delimiter, " ", "\n", " ", "\r", " ")
	return r.Replace(s)
}
