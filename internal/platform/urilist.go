package platform

import (
	"net/url"
	"strings"
)

// ParseURIList decodes a text/uri-list into local paths. Comment lines and
// non-file URIs are skipped.
func ParseURIList(list string) []string {
	var paths []string
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme != "file" {
			continue
		}
		paths = append(paths, u.Path)
	}
	return paths
}
