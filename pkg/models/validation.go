package models

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field to its failure message. Item fields
// use indexed keys such as "items[2].quantity". A submission fails as
// a whole when any field fails; nothing is partially saved.
type ValidationErrors map[string]string

func (ve ValidationErrors) Error() string {
	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+ve[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
