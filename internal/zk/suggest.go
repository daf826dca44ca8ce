// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zk

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SuggestTags returns up to limit tags from known that fuzzily match tag,
// best match first. The tag itself is never suggested.
func SuggestTags(tag string, known []string, limit int) []string {
	if tag == "" || limit <= 0 {
		return nil
	}
	var suggestions []string
	for _, m := range fuzzy.Find(strings.ToLower(tag), lowered(known)) {
		if known[m.Index] == tag {
			continue
		}
		suggestions = append(suggestions, known[m.Index])
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions
}

func lowered(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
