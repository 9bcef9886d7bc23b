// Package stringsx holds the string helpers shared by the code generator and
// the configuration layer.
package stringsx

import "slices"

// OneOf reports whether s equals one of ss.
func OneOf(s string, ss ...string) bool {
	return slices.Contains(ss, s)
}
