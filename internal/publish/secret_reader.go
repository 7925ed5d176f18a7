package publish

import (
	"context"

	"golang.org/x/term"
)

// TerminalSecretReader reads secrets from a terminal file descriptor with echo disabled.
type TerminalSecretReader struct {
	fileDescriptor int
}

// NewTerminalSecretReader constructs a reader for the provided file descriptor, typically os.Stdin.Fd().
func NewTerminalSecretReader(fileDescriptor uintptr) *TerminalSecretReader {
	return &TerminalSecretReader{fileDescriptor: int(fileDescriptor)}
}

// Available reports whether the descriptor is a terminal.
func (reader *TerminalSecretReader) Available() bool {
	return reader != nil && term.IsTerminal(reader.fileDescriptor)
}

type secretReadResult struct {
	secret    []byte
	readError error
}

// ReadSecret reads one line without echo. Cancelling the context restores the terminal state and returns the context error.
func (reader *TerminalSecretReader) ReadSecret(executionContext context.Context) (string, error) {
	originalState, stateError := term.GetState(reader.fileDescriptor)
	if stateError != nil {
		return "", stateError
	}

	results := make(chan secretReadResult, 1)
	go func() {
		secret, readError := term.ReadPassword(reader.fileDescriptor)
		results <- secretReadResult{secret: secret, readError: readError}
	}()

	select {
	case <-executionContext.Done():
		_ = term.Restore(reader.fileDescriptor, originalState)
		return "", executionContext.Err()
	case result := <-results:
		if result.readError != nil {
			return "", result.readError
		}
		return string(result.secret), nil
	}
}
