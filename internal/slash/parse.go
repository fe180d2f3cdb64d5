package slash

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// ErrEmptyCommand is returned by Parse for a blank line.
var ErrEmptyCommand = errors.New("empty command")

// Normalize strips leading slashes and lowercases a verb.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(name), "/"))
}

// Parse splits a line such as `/run brave-search 'AI news'` into a verb and
// its arguments using shell quoting rules. Variable references expand to
// the empty string; the environment is never read.
func Parse(line string) (string, []string, error) {
	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return "", nil, fmt.Errorf("parse command: %w", err)
	}
	if len(fields) == 0 {
		return "", nil, ErrEmptyCommand
	}
	return Normalize(fields[0]), fields[1:], nil
}
