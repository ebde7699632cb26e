package sheets

import (
	"regexp"
	"strings"
)

var coverFormulaRE = regexp.MustCompile(`^=IMAGE\("([^"]+)"`)

// CoverFormula wraps a cover URL in the image formula the inventory sheet
// uses to render thumbnails. An empty URL stays empty.
func CoverFormula(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	return `=IMAGE("` + strings.ReplaceAll(url, `"`, `%22`) + `")`
}

// CoverURL extracts the URL from an image formula. Values that aren't a
// formula are returned trimmed, since hand-entered rows often hold the bare
// URL.
func CoverURL(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "=IMAGE(") {
		return value
	}
	if m := coverFormulaRE.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}
