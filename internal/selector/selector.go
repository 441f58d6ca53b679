// Package selector expands user-supplied binary and architecture tokens
// against a project's known enumerations.
//
// A token is either a concrete name from the enumeration or the wildcard
// "all". Resolution is order-independent and duplicate-free; the result is
// sorted so downstream matrix walks are deterministic regardless of how the
// user spelled the selection.
package selector

import (
	"fmt"
	"sort"
	"strings"
)

// Token that expands to the full enumeration.
const Wildcard = "all"

// Reports a selector token that is neither a known name nor the wildcard.
type UnknownTokenError struct {
	Token string   // The offending token.
	Valid []string // The full enumeration, sorted.
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown selector %q (valid: %s, or %q)",
		e.Token, strings.Join(e.Valid, ", "), Wildcard)
}

// Resolves tokens against a known enumeration.
//
// Each "all" token expands to the entire enumeration, each known token is
// added as-is, and any other token aborts resolution with an
// [UnknownTokenError]. An empty result falls back to the given fallback set
// (the full binary set, or the project's default architecture). The result
// is sorted and duplicate-free.
func Resolve(tokens, known, fallback []string) ([]string, error) {
	members := make(map[string]bool, len(known))
	for _, name := range known {
		members[name] = true
	}

	resolved := make(map[string]bool)
	for _, token := range tokens {
		switch {
		case token == Wildcard:
			for _, name := range known {
				resolved[name] = true
			}
		case members[token]:
			resolved[token] = true
		default:
			valid := append([]string(nil), known...)
			sort.Strings(valid)
			return nil, &UnknownTokenError{Token: token, Valid: valid}
		}
	}

	if len(resolved) == 0 {
		for _, name := range fallback {
			resolved[name] = true
		}
	}

	out := make([]string, 0, len(resolved))
	for name := range resolved {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
