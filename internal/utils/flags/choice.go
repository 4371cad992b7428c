// Package flagutils formats usage strings for flags that accept a fixed set
// of values.
package flagutils

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant = "<"
	choicePlaceholderSuffixConstant = ">"
	choiceSeparatorConstant         = "|"
	choiceUsageTemplateConstant     = "`%s` %s"
	choiceUsageBareTemplateConstant = "`%s`"
)

// FormatChoiceUsage renders a flag usage string listing the accepted values,
// with the default value capitalized. Duplicate and blank choices are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefixConstant + strings.Join(renderChoices(defaultChoice, choices), choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageBareTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, description)
}

func renderChoices(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadyRendered := seen[normalizedChoice]; alreadyRendered {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			rendered = append(rendered, strings.ToUpper(trimmedChoice))
			continue
		}
		rendered = append(rendered, trimmedChoice)
	}

	return rendered
}
