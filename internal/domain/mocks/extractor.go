package mocks

import (
	"sort"
	"strings"
)

// Extractor treats content as a comma separated list of names and returns
// them deduplicated and sorted.
type Extractor struct{}

// Extract splits content on commas.
func (Extractor) Extract(content string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(content, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OrderedExtractor returns names exactly as listed in content, in order,
// so tests can control first-seen order.
type OrderedExtractor struct{}

// Extract splits content on commas without sorting.
func (OrderedExtractor) Extract(content string) []string {
	var names []string
	for _, part := range strings.Split(content, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
