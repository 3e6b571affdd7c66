package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/codepages/internal/config"
	"github.com/temirov/codepages/internal/diagnostics"
)

const (
	exclusionFlagName        = "e"
	noIgnoreFlagName         = "no-ignore"
	recursiveFlagName        = "recursive"
	recursiveShorthand       = "r"
	forceFlagName            = "force"
	forceShorthand           = "f"
	outputFlagName           = "output"
	outputShorthand          = "o"
	outputExtensionFlagName  = "ext"
	defaultSyntaxFlagName    = "default-syntax"
	styleFlagName            = "style"
	schemaFlagName           = "schema"
	thresholdFlagName        = "threshold"
	formatFlagName           = "format"
	workersFlagName          = "workers"
	strictFlagName           = "strict"
	dropInvalidLinksFlagName = "drop-invalid-links"
	checkTargetsFlagName     = "check-targets"
	skipInvalidFlagName      = "skip-invalid"

	exclusionFlagDescription        = "exclude path pattern"
	disableIgnoreFlagDescription    = "do not read .codepagesignore files"
	recursiveFlagDescription        = "descend into subdirectories"
	forceFlagDescription            = "overwrite existing pages"
	outputFlagDescription           = "output directory for generated pages"
	outputExtensionFlagDescription  = "extension of generated pages and rewritten link targets"
	defaultSyntaxFlagDescription    = "highlighter language used when a section declares none"
	styleFlagDescription            = "chroma style name"
	schemaFlagDescription           = "reference schema file, YAML or JSON (default: embedded schema)"
	thresholdFlagDescription        = "lowest severity reported"
	formatFlagDescription           = "report format: raw, json or xml"
	workersFlagDescription          = "documents processed concurrently"
	strictFlagDescription           = "fail when any diagnostic is ERROR or worse"
	dropInvalidLinksFlagDescription = "remove invalid links before rendering"
	checkTargetsFlagDescription     = "warn when a link target file does not exist"
	skipInvalidFlagDescription      = "do not render documents that fail the structure check"
)

// settingsFlags holds command line overrides. A flag only overrides the
// configuration files when the user set it explicitly.
type settingsFlags struct {
	exclusionPatterns []string
	disableIgnoreFile bool
	recursive         bool
	force             bool
	outputDirectory   string
	outputExtension   string
	defaultSyntax     string
	style             string
	schemaPath        string
	threshold         string
	format            string
	workers           int
	strict            bool
	dropInvalidLinks  bool
	checkTargets      bool
	skipInvalid       bool
}

func addInputFlags(command *cobra.Command, flags *settingsFlags) {
	command.Flags().StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	registerBooleanFlagP(command.Flags(), &flags.recursive, recursiveFlagName, recursiveShorthand, false, recursiveFlagDescription)
}

func addOutputFlags(command *cobra.Command, flags *settingsFlags) {
	command.Flags().StringVarP(&flags.outputDirectory, outputFlagName, outputShorthand, config.DefaultOutputDirectory, outputFlagDescription)
	command.Flags().StringVar(&flags.outputExtension, outputExtensionFlagName, config.DefaultOutputExtension, outputExtensionFlagDescription)
	command.Flags().IntVar(&flags.workers, workersFlagName, config.DefaultWorkers, workersFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.dropInvalidLinks, dropInvalidLinksFlagName, false, dropInvalidLinksFlagDescription)
	registerBooleanFlagP(command.Flags(), &flags.force, forceFlagName, forceShorthand, false, forceFlagDescription)
}

func addRenderFlags(command *cobra.Command, flags *settingsFlags) {
	command.Flags().StringVar(&flags.defaultSyntax, defaultSyntaxFlagName, config.DefaultSyntax, defaultSyntaxFlagDescription)
	command.Flags().StringVar(&flags.schemaPath, schemaFlagName, "", schemaFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.checkTargets, checkTargetsFlagName, true, checkTargetsFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.skipInvalid, skipInvalidFlagName, true, skipInvalidFlagDescription)
}

func addReportFlags(command *cobra.Command, flags *settingsFlags) {
	registerSeverityFlag(command.Flags(), &flags.threshold, thresholdFlagName, diagnostics.SeverityWarning, thresholdFlagDescription)
	command.Flags().StringVar(&flags.format, formatFlagName, config.DefaultReportFormat, formatFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.strict, strictFlagName, false, strictFlagDescription)
}

func addStyleFlag(command *cobra.Command, flags *settingsFlags) {
	command.Flags().StringVar(&flags.style, styleFlagName, config.DefaultStyle, styleFlagDescription)
}

// apply overlays the explicitly set flags onto configuration.
func (flags *settingsFlags) apply(command *cobra.Command, configuration config.ApplicationConfiguration) config.ApplicationConfiguration {
	changed := command.Flags().Changed

	var override config.ApplicationConfiguration
	if changed(exclusionFlagName) {
		override.Input.Exclude = append(append([]string{}, configuration.Input.Exclude...), flags.exclusionPatterns...)
	}
	if changed(noIgnoreFlagName) {
		useIgnoreFile := !flags.disableIgnoreFile
		override.Input.UseIgnoreFile = &useIgnoreFile
	}
	if changed(recursiveFlagName) {
		override.Input.Recursive = &flags.recursive
	}
	if changed(forceFlagName) {
		override.Output.Force = &flags.force
	}
	if changed(outputFlagName) {
		override.Output.Directory = flags.outputDirectory
	}
	if changed(outputExtensionFlagName) {
		override.Output.Extension = flags.outputExtension
	}
	if changed(defaultSyntaxFlagName) {
		override.Render.DefaultSyntax = flags.defaultSyntax
	}
	if changed(styleFlagName) {
		override.Render.Style = flags.style
	}
	if changed(dropInvalidLinksFlagName) {
		override.Render.DropInvalidLinks = &flags.dropInvalidLinks
	}
	if changed(checkTargetsFlagName) {
		override.Render.CheckLinkTargets = &flags.checkTargets
	}
	if changed(schemaFlagName) {
		override.Validation.Schema = flags.schemaPath
	}
	if changed(skipInvalidFlagName) {
		override.Validation.SkipInvalid = &flags.skipInvalid
	}
	if changed(thresholdFlagName) {
		override.Report.Threshold = flags.threshold
	}
	if changed(formatFlagName) {
		override.Report.Format = flags.format
	}
	if changed(strictFlagName) {
		override.Report.Strict = &flags.strict
	}
	if changed(workersFlagName) {
		override.Workers = &flags.workers
	}
	return configuration.Merge(override)
}
