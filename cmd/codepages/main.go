package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/codepages/internal/cli"
	"github.com/temirov/codepages/internal/utils"
)

// main is the entry point for the codepages command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if applicationExecutionError := cli.Execute(ctx, loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
