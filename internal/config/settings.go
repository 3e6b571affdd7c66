package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/types"
	"github.com/temirov/codepages/internal/utils"
)

const (
	DefaultInputDirectory  = "."
	DefaultOutputDirectory = "html"
	DefaultOutputExtension = ".html"
	DefaultSyntax          = "text"
	DefaultStyle           = "github"
	DefaultReportFormat    = types.FormatRaw
	DefaultWorkers         = 4

	extensionWithoutDotFormat = "%s %q must start with a dot"
	unsupportedFormatFormat   = "unsupported report format %q"
	invalidWorkersFormat      = "workers must be at least 1, got %d"
	invalidThresholdFormat    = "report threshold: %w"
	emptySettingFormat        = "%s must not be empty"
)

var defaultInputExtensions = []string{".yaml", ".yml"}

// Settings is the fully resolved configuration with defaults applied.
type Settings struct {
	InputDirectory   string
	InputExtensions  []string
	Exclude          []string
	UseIgnoreFile    bool
	Recursive        bool
	OutputDirectory  string
	OutputExtension  string
	Force            bool
	DefaultSyntax    string
	Style            string
	DropInvalidLinks bool
	CheckLinkTargets bool
	SchemaPath       string
	SkipInvalid      bool
	Threshold        diagnostics.Severity
	ReportFormat     string
	Strict           bool
	Workers          int
}

// Resolve applies defaults to the layered configuration and validates the result.
func (config ApplicationConfiguration) Resolve() (Settings, error) {
	settings := Settings{
		InputDirectory:   stringOrDefault(config.Input.Directory, DefaultInputDirectory),
		InputExtensions:  config.Input.Extensions,
		Exclude:          utils.DeduplicatePatterns(config.Input.Exclude),
		UseIgnoreFile:    boolOrDefault(config.Input.UseIgnoreFile, true),
		Recursive:        boolOrDefault(config.Input.Recursive, false),
		OutputDirectory:  stringOrDefault(config.Output.Directory, DefaultOutputDirectory),
		OutputExtension:  stringOrDefault(config.Output.Extension, DefaultOutputExtension),
		Force:            boolOrDefault(config.Output.Force, false),
		DefaultSyntax:    stringOrDefault(config.Render.DefaultSyntax, DefaultSyntax),
		Style:            stringOrDefault(config.Render.Style, DefaultStyle),
		DropInvalidLinks: boolOrDefault(config.Render.DropInvalidLinks, false),
		CheckLinkTargets: boolOrDefault(config.Render.CheckLinkTargets, true),
		SchemaPath:       strings.TrimSpace(config.Validation.Schema),
		SkipInvalid:      boolOrDefault(config.Validation.SkipInvalid, true),
		Threshold:        diagnostics.SeverityWarning,
		ReportFormat:     strings.ToLower(stringOrDefault(config.Report.Format, DefaultReportFormat)),
		Strict:           boolOrDefault(config.Report.Strict, false),
		Workers:          DefaultWorkers,
	}
	if len(settings.InputExtensions) == 0 {
		settings.InputExtensions = append([]string{}, defaultInputExtensions...)
	}
	if config.Workers != nil {
		settings.Workers = *config.Workers
	}
	if strings.TrimSpace(config.Report.Threshold) != "" {
		threshold, parseError := diagnostics.ParseSeverity(config.Report.Threshold)
		if parseError != nil {
			return Settings{}, fmt.Errorf(invalidThresholdFormat, parseError)
		}
		settings.Threshold = threshold
	}
	if validationError := settings.Validate(); validationError != nil {
		return Settings{}, validationError
	}
	return settings, nil
}

// Validate reports every invalid setting.
func (settings Settings) Validate() error {
	var problems []error
	for _, extension := range settings.InputExtensions {
		if !strings.HasPrefix(extension, ".") {
			problems = append(problems, fmt.Errorf(extensionWithoutDotFormat, "input extension", extension))
		}
	}
	if !strings.HasPrefix(settings.OutputExtension, ".") {
		problems = append(problems, fmt.Errorf(extensionWithoutDotFormat, "output extension", settings.OutputExtension))
	}
	if strings.TrimSpace(settings.OutputDirectory) == "" {
		problems = append(problems, fmt.Errorf(emptySettingFormat, "output directory"))
	}
	if strings.TrimSpace(settings.DefaultSyntax) == "" {
		problems = append(problems, fmt.Errorf(emptySettingFormat, "default syntax"))
	}
	switch settings.ReportFormat {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
	default:
		problems = append(problems, fmt.Errorf(unsupportedFormatFormat, settings.ReportFormat))
	}
	if settings.Workers < 1 {
		problems = append(problems, fmt.Errorf(invalidWorkersFormat, settings.Workers))
	}
	return errors.Join(problems...)
}

func stringOrDefault(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
