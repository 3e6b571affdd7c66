// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codepages/internal/build"
	"github.com/temirov/codepages/internal/config"
	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/highlight"
	"github.com/temirov/codepages/internal/schema"
	"github.com/temirov/codepages/internal/services/clipboard"
	"github.com/temirov/codepages/internal/structure"
	"github.com/temirov/codepages/internal/utils"
)

const (
	configFlagName        = "config"
	configFlagDescription = "configuration file (default: ./" + utils.ConfigFileName + ")"
	versionTemplate       = "codepages version: {{.Version}}\n"
	rootUse               = "codepages"
	rootShortDescription  = "codepages renders YAML code walkthroughs into linked HTML pages"
	rootLongDescription   = `codepages turns YAML documents describing annotated code sections into
syntax-highlighted HTML fragments with cross-document links.
Every document is checked against a reference structure before rendering.
Settings come from ~/.codepages/config.yaml, ./config.yaml (or --config) and flags, in that order.`

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	unknownSyntaxErrorFormat    = "default syntax %q is not a language known to the highlighter"
	loadSchemaErrorFormat       = "load reference schema: %w"
)

// Dependencies are the process resources used by the commands.
type Dependencies struct {
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	Clipboard        clipboard.Copier
	WorkingDirectory string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	return dependencies
}

// Execute runs the codepages application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	application := &application{dependencies: dependencies}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&application.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		application.createBuildCommand(),
		application.createValidateCommand(),
		application.createRenderCommand(),
		application.createStylesCommand(),
		application.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// application carries state shared by the subcommands of one invocation.
type application struct {
	dependencies Dependencies
	configPath   string
}

func (application *application) workingDirectory() (string, error) {
	if application.dependencies.WorkingDirectory != "" {
		return application.dependencies.WorkingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// resolveSettings layers configuration files and explicit flags and validates the result.
func (application *application) resolveSettings(command *cobra.Command, flags *settingsFlags) (config.Settings, error) {
	workingDirectory, err := application.workingDirectory()
	if err != nil {
		return config.Settings{}, err
	}
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: application.configPath,
	})
	if err != nil {
		return config.Settings{}, err
	}
	return flags.apply(command, configuration).Resolve()
}

// pipelineOptions prepares the highlighter and reference schema shared by every document.
func (application *application) pipelineOptions(settings config.Settings) (build.Options, error) {
	highlighter, err := highlight.NewChroma(settings.Style)
	if err != nil {
		return build.Options{}, err
	}
	if !highlighter.IsValidLanguage(settings.DefaultSyntax) {
		return build.Options{}, fmt.Errorf(unknownSyntaxErrorFormat, settings.DefaultSyntax)
	}
	reference, err := application.loadReference(settings.SchemaPath)
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		OutputDirectory:  application.resolvePath(settings.OutputDirectory),
		OutputExtension:  settings.OutputExtension,
		DefaultSyntax:    settings.DefaultSyntax,
		Highlighter:      highlighter,
		Reference:        reference,
		SkipInvalid:      settings.SkipInvalid,
		DropInvalidLinks: settings.DropInvalidLinks,
		CheckLinkTargets: settings.CheckLinkTargets,
		Workers:          settings.Workers,
	}, nil
}

func (application *application) loadReference(schemaPath string) (structure.Value, error) {
	if schemaPath != "" {
		schemaPath = application.resolvePath(schemaPath)
	}
	reference, err := schema.Load(schemaPath)
	if err != nil {
		return structure.Value{}, fmt.Errorf(loadSchemaErrorFormat, err)
	}
	return reference, nil
}

// resolvePath anchors a relative path at the working directory.
func (application *application) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	workingDirectory, err := application.workingDirectory()
	if err != nil {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

// emit writes the diagnostics of one document through the application logger.
func (application *application) emit(result build.DocumentResult, threshold diagnostics.Severity) {
	diagnostics.Emit(application.dependencies.Logger, diagnostics.Scope{Document: result.SourcePath}, result.Log, threshold)
}
