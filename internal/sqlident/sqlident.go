// Package sqlident validates table, column, and schema names before they are
// embedded in SQL text. Identifiers cannot be parameterized, so this check is
// the sole injection defense for them — values go through placeholders, names
// go through here.
package sqlident

import (
	"fmt"
	"regexp"
)

// identifierRegex matches a safe Postgres identifier: starts with a letter or
// underscore, continues with letters, digits, underscores, or dollar signs,
// at most 63 bytes total (the Postgres NAMEDATALEN limit).
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]{0,62}$`)

// InvalidError reports a rejected identifier.
type InvalidError struct {
	Name string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid identifier %q: must start with a letter or underscore, contain only letters, digits, underscore, or $, and be at most 63 characters", e.Name)
}

// Validate returns name unchanged if it is a safe SQL identifier,
// or an *InvalidError otherwise. Pure function.
func Validate(name string) (string, error) {
	if !identifierRegex.MatchString(name) {
		return "", &InvalidError{Name: name}
	}
	return name, nil
}

// ValidateAll validates every name in order and returns the validated slice.
// The first failure aborts the whole request — no partial acceptance.
func ValidateAll(names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, n := range names {
		v, err := Validate(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
