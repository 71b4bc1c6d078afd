package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const maxArgLength = 40

// FormatToolDescription generates a short, user-friendly description of a
// tool invocation from its JSON input.
func FormatToolDescription(name, input string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(input), &args); err != nil || len(args) == 0 {
		return name
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, truncate(fmt.Sprint(args[k]))))
	}
	return fmt.Sprintf("%s %s", name, strings.Join(parts, " "))
}

func truncate(s string) string {
	if len(s) <= maxArgLength {
		return s
	}
	return s[:maxArgLength-3] + "..."
}
