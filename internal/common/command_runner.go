package common

import (
	"context"
	"fmt"

	"resumescreen/internal/errors"
)

// CreateInputFunc builds the engine input from the documents read off disk,
// in the same order as the command arguments.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs what is about to run, before the engine is invoked.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// EngineOperationFunc is the engine call a command wraps.
type EngineOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunEngineCommand is the shared skeleton for file-in, formatted-result-out
// commands: read and validate the documents, build the input, run the
// operation, and hand the result to the output handler.
func RunEngineCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation EngineOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
