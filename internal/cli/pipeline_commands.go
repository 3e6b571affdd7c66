package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codepages/internal/build"
	"github.com/temirov/codepages/internal/config"
	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/output"
	"github.com/temirov/codepages/internal/types"
	"github.com/temirov/codepages/internal/utils"
)

const (
	buildUse              = types.CommandBuild + " [directory]"
	validateUse           = types.CommandValidate + " [paths...]"
	buildAlias            = "b"
	validateAlias         = "v"
	buildShortDescription = "render every document under a directory (" + buildAlias + ")"
	buildLongDescription  = `Discover the documents under a directory, check each against the reference
structure, render it and write the page under the output directory with the
same relative path. Subdirectories are scanned with --recursive, and existing
pages are only replaced with --force. Documents are processed concurrently;
--workers bounds how many.
The report lists each document with its diagnostics at or above --threshold.`
	buildUsageExample = `  # Render ./docs and its subdirectories into ./html, replacing existing pages
  codepages build -r -f docs

  # Render into ./public and report everything as JSON
  codepages build -o public --threshold note --format json`
	validateShortDescription = "check documents without writing pages (" + validateAlias + ")"
	validateLongDescription  = `Check documents against the reference structure and render them in memory so
that every link and header problem is reported. Directories are scanned like build does.
Nothing is written.`
	validateUsageExample = `  # Validate two documents strictly
  codepages validate --strict intro.yaml guide/tour.yaml`

	defaultPath                = "."
	noDocumentsMessage         = "no documents found"
	invalidDocumentsFormat     = "%d of %d document(s) invalid"
	strictFailureFormat        = "%d document(s) reported ERROR or worse"
	errorAbsolutePathFormat    = "abs failed for '%s': %w"
	errorPathMissingFormat     = "path '%s' does not exist"
	errorStatFormat            = "stat failed for '%s': %w"
	errorNoValidPaths          = "no valid paths"
	logFieldDocuments          = "documents"
	logFieldRoot               = "root"
	processingDocumentsMessage = "processing documents"
)

func (application *application) createBuildCommand() *cobra.Command {
	var flags settingsFlags

	buildCommand := &cobra.Command{
		Use:     buildUse,
		Aliases: []string{buildAlias},
		Short:   buildShortDescription,
		Long:    buildLongDescription,
		Example: buildUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := application.resolveSettings(command, &flags)
			if err != nil {
				return err
			}
			inputRoot := settings.InputDirectory
			if len(arguments) == 1 {
				inputRoot = arguments[0]
			}
			inputRoot = application.resolvePath(inputRoot)

			documentPaths, err := application.discover(inputRoot, settings)
			if err != nil {
				return err
			}
			options, err := application.pipelineOptions(settings)
			if err != nil {
				return err
			}
			options.InputRoot = inputRoot
			options.WriteOutput = true
			options.Overwrite = settings.Force
			return application.runPipeline(command.Context(), types.CommandBuild, documentPaths, options, settings)
		},
	}

	addInputFlags(buildCommand, &flags)
	addOutputFlags(buildCommand, &flags)
	addRenderFlags(buildCommand, &flags)
	addReportFlags(buildCommand, &flags)
	addStyleFlag(buildCommand, &flags)
	return buildCommand
}

func (application *application) createValidateCommand() *cobra.Command {
	var flags settingsFlags

	validateCommand := &cobra.Command{
		Use:     validateUse,
		Aliases: []string{validateAlias},
		Short:   validateShortDescription,
		Long:    validateLongDescription,
		Example: validateUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := application.resolveSettings(command, &flags)
			if err != nil {
				return err
			}
			if len(arguments) == 0 {
				arguments = []string{settings.InputDirectory}
			}
			resolvedArguments := make([]string, 0, len(arguments))
			for _, argument := range arguments {
				resolvedArguments = append(resolvedArguments, application.resolvePath(argument))
			}
			validatedPaths, err := resolveAndValidatePaths(resolvedArguments)
			if err != nil {
				return err
			}

			var documentPaths []string
			for _, validatedPath := range validatedPaths {
				if !validatedPath.IsDir {
					documentPaths = append(documentPaths, validatedPath.AbsolutePath)
					continue
				}
				discovered, discoverError := application.discover(validatedPath.AbsolutePath, settings)
				if discoverError != nil {
					return discoverError
				}
				documentPaths = append(documentPaths, discovered...)
			}

			options, err := application.pipelineOptions(settings)
			if err != nil {
				return err
			}
			options.InputRoot, err = application.workingDirectory()
			if err != nil {
				return err
			}
			return application.runPipeline(command.Context(), types.CommandValidate, utils.DeduplicatePatterns(documentPaths), options, settings)
		},
	}

	addInputFlags(validateCommand, &flags)
	addRenderFlags(validateCommand, &flags)
	addReportFlags(validateCommand, &flags)
	return validateCommand
}

func (application *application) discover(inputRoot string, settings config.Settings) ([]string, error) {
	exclusionPatterns, err := config.LoadRecursiveIgnorePatterns(inputRoot, settings.Exclude, settings.UseIgnoreFile)
	if err != nil {
		return nil, err
	}
	return build.Discover(inputRoot, settings.InputExtensions, exclusionPatterns, settings.Recursive)
}

// runPipeline processes documentPaths, emitting diagnostics as each document
// completes, and writes the sorted report once all are done.
func (application *application) runPipeline(
	ctx context.Context,
	commandName string,
	documentPaths []string,
	options build.Options,
	settings config.Settings,
) (err error) {
	logger := application.dependencies.Logger
	if len(documentPaths) == 0 {
		logger.Warn(noDocumentsMessage, zap.String(logFieldRoot, options.InputRoot))
	}
	logger.Debug(processingDocumentsMessage, zap.Int(logFieldDocuments, len(documentPaths)))

	renderer, err := output.NewReportRenderer(settings.ReportFormat, application.dependencies.Stdout, commandName, settings.Threshold)
	if err != nil {
		return err
	}
	defer func() {
		if flushErr := renderer.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	invalidDocuments := 0
	erroredDocuments := 0
	runError := build.Run(ctx, documentPaths, options, func(result build.DocumentResult) error {
		application.emit(result, settings.Threshold)
		if !result.Valid {
			invalidDocuments++
		}
		if result.Log.Has(diagnostics.SeverityError) {
			erroredDocuments++
		}
		return renderer.Handle(result)
	})
	if runError != nil {
		return runError
	}

	if invalidDocuments > 0 {
		return fmt.Errorf(invalidDocumentsFormat, invalidDocuments, len(documentPaths))
	}
	if settings.Strict && erroredDocuments > 0 {
		return fmt.Errorf(strictFailureFormat, erroredDocuments)
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
