package flagutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	flagutils "github.com/temirov/repokeeper/internal/utils/flags"
)

const (
	defaultHighlightedCaseNameConstant = "default_choice_capitalized"
	bareUsageCaseNameConstant          = "empty_description_renders_bare_placeholder"
	duplicateChoicesCaseNameConstant   = "duplicate_and_blank_choices_dropped"
	strategyDescriptionConstant        = "Transfer strategy."
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expectedUsage string
	}{
		{
			name:          defaultHighlightedCaseNameConstant,
			defaultChoice: "native",
			choices:       []string{"native", "mirror"},
			description:   strategyDescriptionConstant,
			expectedUsage: "`<NATIVE|mirror>` " + strategyDescriptionConstant,
		},
		{
			name:          bareUsageCaseNameConstant,
			defaultChoice: "all",
			choices:       []string{"all", "owner", "collaborator"},
			description:   "   ",
			expectedUsage: "`<ALL|owner|collaborator>`",
		},
		{
			name:          duplicateChoicesCaseNameConstant,
			defaultChoice: "mirror",
			choices:       []string{"mirror", "", "Mirror", "native"},
			expectedUsage: "`<MIRROR|native>`",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			renderedUsage := flagutils.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedUsage, renderedUsage)
		})
	}
}
