package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/codepages/internal/diagnostics"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
	}{
		{name: "defaults_to_false", defaultValue: false, arguments: []string{}, expected: false},
		{name: "keeps_true_default", defaultValue: true, arguments: []string{}, expected: true},
		{name: "sets_true_without_value", defaultValue: false, arguments: []string{"--strict"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--strict=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--strict", "no"}, expected: false},
		{name: "sets_true_with_on_literal", defaultValue: false, arguments: []string{"--strict", "on"}, expected: true},
		{name: "ignores_non_boolean_trailing_value", defaultValue: false, arguments: []string{"--strict", "docs"}, expected: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, strictFlagName, testCase.defaultValue, strictFlagDescription)
			require.NoError(t, command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments)))
			assert.Equal(t, testCase.expected, flagValue)
		})
	}
}

func TestRegisterBooleanFlagRejectsGarbage(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, strictFlagName, false, strictFlagDescription)
	err := command.ParseFlags([]string{"--strict=perhaps"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepted values")
}

func TestRegisterSeverityFlag(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		expected    string
		expectError bool
	}{
		{name: "default", arguments: []string{}, expected: "WARNING"},
		{name: "lower_case", arguments: []string{"--threshold", "error"}, expected: "ERROR"},
		{name: "padded", arguments: []string{"--threshold= Note "}, expected: "NOTE"},
		{name: "unknown", arguments: []string{"--threshold", "loud"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "severity-test"}
			var threshold string
			registerSeverityFlag(command.Flags(), &threshold, thresholdFlagName, diagnostics.SeverityWarning, thresholdFlagDescription)
			parseError := command.ParseFlags(testCase.arguments)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			assert.Equal(t, testCase.expected, threshold)
			assert.Equal(t, severityFlagTypeName, command.Flags().Lookup(thresholdFlagName).Value.Type())
		})
	}
}
