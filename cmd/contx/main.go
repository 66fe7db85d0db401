package main

import (
	"fmt"
	"os"

	"github.com/bethington/contx/internal/cli"
	"github.com/bethington/contx/internal/utils"
)

// main is the entry point for the contx command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		os.Exit(1)
	}
}
