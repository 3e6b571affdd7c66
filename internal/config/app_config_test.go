package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/utils"
)

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func prepareHome(t *testing.T, globalContent string) {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	if globalContent != "" {
		writeTestFile(t, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), globalContent)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name            string
		globalContent   string
		localContent    string
		explicitName    string
		explicitContent string
		assertions      func(t *testing.T, loaded ApplicationConfiguration)
	}{
		{
			name:          "local_overrides_global",
			globalContent: "render:\n  style: monokai\n  drop_invalid_links: true\nworkers: 2\n",
			localContent:  "render:\n  default_syntax: go\n  drop_invalid_links: false\noutput:\n  directory: public\n  force: true\ninput:\n  recursive: true\n",
			assertions: func(t *testing.T, loaded ApplicationConfiguration) {
				assert.Equal(t, "monokai", loaded.Render.Style)
				assert.Equal(t, "go", loaded.Render.DefaultSyntax)
				require.NotNil(t, loaded.Render.DropInvalidLinks)
				assert.False(t, *loaded.Render.DropInvalidLinks)
				assert.Equal(t, "public", loaded.Output.Directory)
				require.NotNil(t, loaded.Output.Force)
				assert.True(t, *loaded.Output.Force)
				require.NotNil(t, loaded.Input.Recursive)
				assert.True(t, *loaded.Input.Recursive)
				require.NotNil(t, loaded.Workers)
				assert.Equal(t, 2, *loaded.Workers)
			},
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "report:\n  format: json\n",
			localContent:    "report:\n  format: xml\n",
			explicitName:    "custom.yaml",
			explicitContent: "report:\n  threshold: error\n",
			assertions: func(t *testing.T, loaded ApplicationConfiguration) {
				assert.Equal(t, "json", loaded.Report.Format)
				assert.Equal(t, "error", loaded.Report.Threshold)
			},
		},
		{
			name:          "exclude_patterns_deduplicated",
			globalContent: "input:\n  exclude: [drafts/, drafts/, '*.wip.yaml']\n",
			assertions: func(t *testing.T, loaded ApplicationConfiguration) {
				assert.Equal(t, []string{"drafts/", "*.wip.yaml"}, loaded.Input.Exclude)
				assert.Nil(t, loaded.Input.UseIgnoreFile)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			prepareHome(t, testCase.globalContent)
			workingDirectory := t.TempDir()
			if testCase.localContent != "" {
				writeTestFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitName != "" {
				writeTestFile(t, filepath.Join(workingDirectory, testCase.explicitName), testCase.explicitContent)
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitName,
			})
			require.NoError(t, err)
			testCase.assertions(t, loaded)
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	prepareHome(t, "")
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadApplicationConfigurationMalformedFile(t *testing.T) {
	prepareHome(t, "")
	workingDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), "render: [unclosed\n")

	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	require.Error(t, err)
}

func TestResolveAppliesDefaults(t *testing.T) {
	settings, err := ApplicationConfiguration{}.Resolve()
	require.NoError(t, err)

	assert.Equal(t, DefaultInputDirectory, settings.InputDirectory)
	assert.Equal(t, []string{".yaml", ".yml"}, settings.InputExtensions)
	assert.True(t, settings.UseIgnoreFile)
	assert.False(t, settings.Recursive)
	assert.False(t, settings.Force)
	assert.Equal(t, DefaultOutputDirectory, settings.OutputDirectory)
	assert.Equal(t, DefaultOutputExtension, settings.OutputExtension)
	assert.Equal(t, DefaultSyntax, settings.DefaultSyntax)
	assert.Equal(t, DefaultStyle, settings.Style)
	assert.False(t, settings.DropInvalidLinks)
	assert.True(t, settings.CheckLinkTargets)
	assert.True(t, settings.SkipInvalid)
	assert.Equal(t, diagnostics.SeverityWarning, settings.Threshold)
	assert.Equal(t, DefaultReportFormat, settings.ReportFormat)
	assert.False(t, settings.Strict)
	assert.Equal(t, DefaultWorkers, settings.Workers)
}

func TestResolveHonorsOverrides(t *testing.T) {
	configuration := ApplicationConfiguration{
		Input:      InputConfiguration{Recursive: boolPointer(true)},
		Output:     OutputConfiguration{Force: boolPointer(true)},
		Render:     RenderConfiguration{DefaultSyntax: "go", CheckLinkTargets: boolPointer(false)},
		Validation: ValidationConfiguration{SkipInvalid: boolPointer(false)},
		Report:     ReportConfiguration{Threshold: "critical", Format: "XML"},
		Workers:    intPointer(8),
	}
	settings, err := configuration.Resolve()
	require.NoError(t, err)

	assert.True(t, settings.Recursive)
	assert.True(t, settings.Force)
	assert.Equal(t, "go", settings.DefaultSyntax)
	assert.False(t, settings.CheckLinkTargets)
	assert.False(t, settings.SkipInvalid)
	assert.Equal(t, diagnostics.SeverityCritical, settings.Threshold)
	assert.Equal(t, "xml", settings.ReportFormat)
	assert.Equal(t, 8, settings.Workers)
}

func TestResolveRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name          string
		configuration ApplicationConfiguration
		expected      string
	}{
		{
			name:          "unknown_threshold",
			configuration: ApplicationConfiguration{Report: ReportConfiguration{Threshold: "loud"}},
			expected:      "report threshold",
		},
		{
			name:          "unknown_format",
			configuration: ApplicationConfiguration{Report: ReportConfiguration{Format: "yaml"}},
			expected:      "unsupported report format",
		},
		{
			name:          "zero_workers",
			configuration: ApplicationConfiguration{Workers: intPointer(0)},
			expected:      "workers must be at least 1",
		},
		{
			name:          "extension_without_dot",
			configuration: ApplicationConfiguration{Output: OutputConfiguration{Extension: "html"}},
			expected:      "must start with a dot",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := testCase.configuration.Resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.expected)
		})
	}
}

func TestSettingsValidateJoinsProblems(t *testing.T) {
	settings := Settings{
		InputExtensions: []string{"yaml"},
		OutputExtension: ".html",
		OutputDirectory: "html",
		DefaultSyntax:   "",
		ReportFormat:    "raw",
		Workers:         0,
	}
	err := settings.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input extension")
	assert.Contains(t, err.Error(), "default syntax must not be empty")
	assert.Contains(t, err.Error(), "workers must be at least 1")
}
