package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/codepages/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./config.yaml, or to
~/.codepages/config.yaml with --global. An existing file is kept unless --force is given.`
	globalFlagName           = "global"
	globalFlagDescription    = "write the global configuration"
	initForceFlagDescription = "overwrite an existing configuration file"
	configurationWritten     = "configuration written to %s\n"
)

func (application *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := application.workingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(application.dependencies.Stdout, configurationWritten, destination)
			return err
		},
	}

	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, initForceFlagDescription)
	return initCommand
}
