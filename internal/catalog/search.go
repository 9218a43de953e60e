package catalog

import (
	"fmt"
	"strings"
)

// Search runs a case-insensitive substring lookup over the module-type and
// reference-model catalogs, returning a canned textual answer. It backs the
// chat assistant's offline fallback.
func Search(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "No matches found. Try a different keyword."
	}

	var mods []ModuleType
	for _, m := range ModuleTypes {
		if strings.Contains(strings.ToLower(m.Type), q) || strings.Contains(strings.ToLower(m.Kind), q) {
			mods = append(mods, m)
		}
	}
	var models []ReferenceModel
	for _, r := range ReferenceModels {
		if strings.Contains(strings.ToLower(r.Key), q) ||
			strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Desc), q) {
			models = append(models, r)
		}
	}

	var parts []string
	if len(mods) > 0 {
		lines := make([]string, 0, 8)
		for i, m := range mods {
			if i == 8 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", m.Type, m.Kind))
		}
		parts = append(parts, fmt.Sprintf("Module matches (%d)\n%s", len(mods), strings.Join(lines, "\n")))
	}
	if len(models) > 0 {
		lines := make([]string, 0, 5)
		for i, r := range models {
			if i == 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Desc))
		}
		parts = append(parts, fmt.Sprintf("Model matches (%d)\n%s", len(models), strings.Join(lines, "\n")))
	}
	if len(parts) == 0 {
		return "No matches found. Try a different keyword."
	}
	return strings.Join(parts, "\n\n")
}
