package proptag

import (
	"sort"
	"strings"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/types"
)

// Normalize lower-cases a tag name: tags are case-insensitive by
// normalization to lower case.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NextColor returns the color a new tag would receive given the names of
// tags that already exist: the nth tag created (1-indexed) gets
// Palette[n-1]. Only the number of existing tags matters; neither their
// names nor the new tag's alphabetical rank affect the result, and existing
// tags keep the colors they were given.
func NextColor(existingNames []string) (string, error) {
	if len(existingNames) >= types.MaxTags {
		return "", apperr.New(apperr.TagLimit, "tag limit of %d reached", types.MaxTags)
	}
	sorted := make([]string, len(existingNames))
	copy(sorted, existingNames)
	sort.Strings(sorted)
	return types.Palette[len(sorted)], nil
}
