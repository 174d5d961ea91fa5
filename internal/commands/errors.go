package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving the command layer. Hosts route on
// these when deciding whether a failed build or resolution is retryable.
const (
	codeValidationFailed = "QUOTES_COMMAND_VALIDATION_FAILED"
	codeCanceled         = "QUOTES_COMMAND_CANCELED"
	codeDeadlineExceeded = "QUOTES_COMMAND_DEADLINE_EXCEEDED"
	codeContextFailed    = "QUOTES_COMMAND_CONTEXT_FAILED"
	codeExecutionFailed  = "QUOTES_COMMAND_EXECUTION_FAILED"
)

// tag wraps err once with a category and text code. Errors already wrapped
// upstream keep their original classification; the pipeline tags selector
// failures before they reach a handler.
func tag(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tag(err, goerrors.CategoryValidation,
		"quotes command rejected by validation", codeValidationFailed)
}

func wrapContextError(err error) error {
	switch err {
	case nil:
		return nil
	case context.Canceled:
		return tag(err, goerrors.CategoryCommand,
			"quotes command canceled", codeCanceled)
	case context.DeadlineExceeded:
		return tag(err, goerrors.CategoryCommand,
			"quotes command deadline exceeded", codeDeadlineExceeded)
	default:
		return tag(err, goerrors.CategoryCommand,
			"quotes command context failed", codeContextFailed)
	}
}

func wrapExecuteError(err error) error {
	return tag(err, goerrors.CategoryCommand,
		"quotes command execution failed", codeExecutionFailed)
}
