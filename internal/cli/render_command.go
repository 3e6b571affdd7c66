package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/temirov/codepages/internal/build"
	"github.com/temirov/codepages/internal/config"
	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/types"
)

const (
	renderUse              = types.CommandRender + " <file>"
	renderAlias            = "r"
	renderShortDescription = "print the page for one document (" + renderAlias + ")"
	renderLongDescription  = `Render a single document and print the HTML fragment to standard output.
Diagnostics go to standard error. Use --copy to also place the fragment on the clipboard.`
	renderUsageExample = `  # Print the page for a document
  codepages render guide/tour.yaml

  # Copy the page to the clipboard
  codepages render --copy guide/tour.yaml`

	copyFlagName          = "copy"
	copyFlagDescription   = "copy the rendered page to the clipboard"
	renderRejectedFormat  = "document %s could not be rendered"
	copiedToClipboardNote = "page copied to clipboard"
)

func (application *application) createRenderCommand() *cobra.Command {
	var flags settingsFlags
	var copyToClipboard bool

	renderCommand := &cobra.Command{
		Use:     renderUse,
		Aliases: []string{renderAlias},
		Short:   renderShortDescription,
		Long:    renderLongDescription,
		Example: renderUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := application.resolveSettings(command, &flags)
			if err != nil {
				return err
			}
			validatedPaths, err := resolveAndValidatePaths([]string{application.resolvePath(arguments[0])})
			if err != nil {
				return err
			}
			documentPath := validatedPaths[0].AbsolutePath

			options, err := application.pipelineOptions(settings)
			if err != nil {
				return err
			}
			options.InputRoot = filepath.Dir(documentPath)

			result, err := build.ProcessDocument(documentPath, options)
			if err != nil {
				return err
			}
			application.emit(result, settings.Threshold)
			if !result.Valid && result.HTML == "" {
				return fmt.Errorf(renderRejectedFormat, result.SourcePath)
			}

			if _, err := io.WriteString(application.dependencies.Stdout, result.HTML); err != nil {
				return err
			}
			if copyToClipboard {
				if err := application.dependencies.Clipboard.Copy(result.HTML); err != nil {
					return err
				}
				application.dependencies.Logger.Info(copiedToClipboardNote)
			}
			return nil
		},
	}

	addRenderFlags(renderCommand, &flags)
	addStyleFlag(renderCommand, &flags)
	registerSeverityFlag(renderCommand.Flags(), &flags.threshold, thresholdFlagName, diagnostics.SeverityWarning, thresholdFlagDescription)
	registerBooleanFlag(renderCommand.Flags(), &copyToClipboard, copyFlagName, false, copyFlagDescription)
	renderCommand.Flags().StringVar(&flags.outputExtension, outputExtensionFlagName, config.DefaultOutputExtension, outputExtensionFlagDescription)
	return renderCommand
}
