package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temirov/codepages/internal/highlight"
)

const (
	stylesUse              = "styles"
	stylesShortDescription = "write the stylesheet for highlighted code"
	stylesLongDescription  = `Write the CSS rules for the classes emitted by the highlighter.
The style comes from --style or render.style in the configuration. Use --list to see the available styles.`
	stylesUsageExample = `  # Write the default stylesheet next to the pages
  codepages styles -o html/chroma.css

  # List available styles
  codepages styles --list`

	stylesOutputFlagDescription = "write the stylesheet to a file instead of standard output"
	listFlagName                = "list"
	listFlagDescription         = "list available style names"
	createStylesheetErrorFormat = "create stylesheet %s: %w"
	stylesheetFileMode          = 0o644
)

func (application *application) createStylesCommand() *cobra.Command {
	var flags settingsFlags
	var stylesheetPath string
	var listStyles bool

	stylesCommand := &cobra.Command{
		Use:     stylesUse,
		Short:   stylesShortDescription,
		Long:    stylesLongDescription,
		Example: stylesUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) (err error) {
			stdout := application.dependencies.Stdout
			if listStyles {
				for _, name := range highlight.StyleNames() {
					if _, err := fmt.Fprintln(stdout, name); err != nil {
						return err
					}
				}
				return nil
			}

			settings, err := application.resolveSettings(command, &flags)
			if err != nil {
				return err
			}
			highlighter, err := highlight.NewChroma(settings.Style)
			if err != nil {
				return err
			}
			if stylesheetPath == "" {
				return highlighter.WriteCSS(stdout)
			}

			resolvedPath := application.resolvePath(stylesheetPath)
			stylesheet, err := os.OpenFile(resolvedPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, stylesheetFileMode)
			if err != nil {
				return fmt.Errorf(createStylesheetErrorFormat, resolvedPath, err)
			}
			defer func() {
				if closeErr := stylesheet.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()
			return highlighter.WriteCSS(stylesheet)
		},
	}

	addStyleFlag(stylesCommand, &flags)
	stylesCommand.Flags().StringVarP(&stylesheetPath, outputFlagName, outputShorthand, "", stylesOutputFlagDescription)
	registerBooleanFlag(stylesCommand.Flags(), &listStyles, listFlagName, false, listFlagDescription)
	return stylesCommand
}
