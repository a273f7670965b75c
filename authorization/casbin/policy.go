package casbin

import (
	"strings"
)

// parsePolicyCSV splits casbin policy content into trimmed records, skipping
// blank lines and # comments.
func parsePolicyCSV(content string) [][]string {
	var rules [][]string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")

		rule := make([]string, 0, len(parts))
		for _, p := range parts {
			rule = append(rule, strings.TrimSpace(p))
		}

		if len(rule) > 0 {
			rules = append(rules, rule)
		}
	}

	return rules
}
