package publish

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	lineTerminatorConstant = "\n"
)

// Prompter asks the operator questions and relays short notices.
type Prompter interface {
	Prompt(executionContext context.Context, label string) (string, error)
	PromptSecret(executionContext context.Context, label string) (string, error)
	Notify(message string) error
}

// SecretReader reads a value without echoing it.
type SecretReader interface {
	// Available reports whether the reader is attached to an interactive terminal.
	Available() bool
	ReadSecret(executionContext context.Context) (string, error)
}

// IOPrompter reads answers line by line from an io.Reader and writes labels to an io.Writer.
type IOPrompter struct {
	reader       *bufio.Reader
	writer       io.Writer
	secretReader SecretReader
}

// NewIOPrompter constructs a prompter. When secretReader is nil or unavailable, secrets are read as plain lines.
func NewIOPrompter(input io.Reader, output io.Writer, secretReader SecretReader) *IOPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOPrompter{reader: bufio.NewReader(input), writer: output, secretReader: secretReader}
}

// Prompt writes label and returns the trimmed answer.
func (prompter *IOPrompter) Prompt(executionContext context.Context, label string) (string, error) {
	if _, writeError := io.WriteString(prompter.writer, label); writeError != nil {
		return "", writeError
	}
	return prompter.readLine(executionContext)
}

// PromptSecret writes label and reads the answer without echo when a terminal is attached.
func (prompter *IOPrompter) PromptSecret(executionContext context.Context, label string) (string, error) {
	if prompter.secretReader == nil || !prompter.secretReader.Available() {
		return prompter.Prompt(executionContext, label)
	}

	if _, writeError := io.WriteString(prompter.writer, label); writeError != nil {
		return "", writeError
	}
	secret, readError := prompter.secretReader.ReadSecret(executionContext)
	_, _ = io.WriteString(prompter.writer, lineTerminatorConstant)
	if readError != nil {
		return "", readError
	}
	return strings.TrimSpace(secret), nil
}

// Notify writes message followed by a newline.
func (prompter *IOPrompter) Notify(message string) error {
	_, writeError := fmt.Fprintln(prompter.writer, message)
	return writeError
}

type lineReadResult struct {
	line      string
	readError error
}

// readLine returns ErrInputClosed when input ends before any text is read, and the context error when cancelled first.
func (prompter *IOPrompter) readLine(executionContext context.Context) (string, error) {
	results := make(chan lineReadResult, 1)
	go func() {
		line, readError := prompter.reader.ReadString('\n')
		results <- lineReadResult{line: line, readError: readError}
	}()

	select {
	case <-executionContext.Done():
		return "", executionContext.Err()
	case result := <-results:
		if result.readError != nil {
			if !errors.Is(result.readError, io.EOF) {
				return "", result.readError
			}
			if len(result.line) == 0 {
				return "", ErrInputClosed
			}
		}
		return strings.TrimSpace(result.line), nil
	}
}
