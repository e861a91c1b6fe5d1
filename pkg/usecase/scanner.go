package usecase

import (
	"regexp"
	"sort"
)

// accessKeyPattern matches AWS access key IDs: the AKIA prefix followed by
// 16 uppercase alphanumeric characters. This is the only credential shape
// this service detects.
var accessKeyPattern = regexp.MustCompile(`AKIA[0-9A-Z]{16}`)

// scanForAccessKeys returns the distinct access key IDs found across all
// given text blobs. The result is sorted so repeated scans of the same
// input yield identical output.
func scanForAccessKeys(texts ...string) []string {
	seen := map[string]struct{}{}
	for _, text := range texts {
		for _, match := range accessKeyPattern.FindAllString(text, -1) {
			seen[match] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
