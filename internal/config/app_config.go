package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codepages/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file. Pointer fields
// distinguish "not set" from a zero value so files can be layered.
type ApplicationConfiguration struct {
	Input      InputConfiguration      `mapstructure:"input"`
	Output     OutputConfiguration     `mapstructure:"output"`
	Render     RenderConfiguration     `mapstructure:"render"`
	Validation ValidationConfiguration `mapstructure:"validation"`
	Report     ReportConfiguration     `mapstructure:"report"`
	Workers    *int                    `mapstructure:"workers"`
}

// InputConfiguration selects the documents a build processes.
type InputConfiguration struct {
	Directory     string   `mapstructure:"directory"`
	Extensions    []string `mapstructure:"extensions"`
	Exclude       []string `mapstructure:"exclude"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	Recursive     *bool    `mapstructure:"recursive"`
}

// OutputConfiguration controls where generated pages go.
type OutputConfiguration struct {
	Directory string `mapstructure:"directory"`
	Extension string `mapstructure:"extension"`
	Force     *bool  `mapstructure:"force"`
}

// RenderConfiguration controls page rendering.
type RenderConfiguration struct {
	DefaultSyntax    string `mapstructure:"default_syntax"`
	Style            string `mapstructure:"style"`
	DropInvalidLinks *bool  `mapstructure:"drop_invalid_links"`
	CheckLinkTargets *bool  `mapstructure:"check_link_targets"`
}

// ValidationConfiguration controls the structure check.
type ValidationConfiguration struct {
	Schema      string `mapstructure:"schema"`
	SkipInvalid *bool  `mapstructure:"skip_invalid"`
}

// ReportConfiguration controls diagnostics output.
type ReportConfiguration struct {
	Threshold string `mapstructure:"threshold"`
	Format    string `mapstructure:"format"`
	Strict    *bool  `mapstructure:"strict"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Input.Exclude = utils.DeduplicatePatterns(merged.Input.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Input = result.Input.merge(override.Input)
	result.Output = result.Output.merge(override.Output)
	result.Render = result.Render.merge(override.Render)
	result.Validation = result.Validation.merge(override.Validation)
	result.Report = result.Report.merge(override.Report)
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	return result
}

func (config InputConfiguration) merge(override InputConfiguration) InputConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.Recursive != nil {
		result.Recursive = cloneBool(override.Recursive)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if override.Force != nil {
		result.Force = cloneBool(override.Force)
	}
	return result
}

func (config RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := config
	if override.DefaultSyntax != "" {
		result.DefaultSyntax = override.DefaultSyntax
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.DropInvalidLinks != nil {
		result.DropInvalidLinks = cloneBool(override.DropInvalidLinks)
	}
	if override.CheckLinkTargets != nil {
		result.CheckLinkTargets = cloneBool(override.CheckLinkTargets)
	}
	return result
}

func (config ValidationConfiguration) merge(override ValidationConfiguration) ValidationConfiguration {
	result := config
	if override.Schema != "" {
		result.Schema = override.Schema
	}
	if override.SkipInvalid != nil {
		result.SkipInvalid = cloneBool(override.SkipInvalid)
	}
	return result
}

func (config ReportConfiguration) merge(override ReportConfiguration) ReportConfiguration {
	result := config
	if override.Threshold != "" {
		result.Threshold = override.Threshold
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Strict != nil {
		result.Strict = cloneBool(override.Strict)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
