package publish

import (
	"errors"
	"fmt"
	"strings"
)

const (
	gitUnavailableMessageConstant         = "git is not installed or not available on PATH; install it from https://git-scm.com/downloads"
	tokenRequiredMessageConstant          = "a GitHub personal access token is required"
	repositoryNameRequiredMessageConstant = "a repository name is required"
	inputClosedMessageConstant            = "input closed before all answers were provided"
	projectPathErrorTemplateConstant      = "project path %s does not exist or is not a directory"
	pushErrorTemplateConstant             = "unable to publish branch %s to remote %s: %v; verify you have write access to the repository"
)

// Visibility selects who can see the created repository.
type Visibility string

// Supported visibilities.
const (
	VisibilityPublic  Visibility = Visibility("public")
	VisibilityPrivate Visibility = Visibility("private")
)

var visibilitySynonyms = map[string]Visibility{
	"public":  VisibilityPublic,
	"publico": VisibilityPublic,
	"público": VisibilityPublic,
	"private": VisibilityPrivate,
	"privado": VisibilityPrivate,
}

// ParseVisibility normalizes an operator answer. Empty answers select VisibilityPublic.
func ParseVisibility(answer string) (Visibility, bool) {
	normalizedAnswer := strings.ToLower(strings.TrimSpace(answer))
	if len(normalizedAnswer) == 0 {
		return VisibilityPublic, true
	}
	visibility, known := visibilitySynonyms[normalizedAnswer]
	return visibility, known
}

// IsPrivate reports whether the repository should be private.
func (visibility Visibility) IsPrivate() bool {
	return visibility == VisibilityPrivate
}

// Configuration holds the operator answers for a single publish run. The token is never logged.
type Configuration struct {
	Token          string
	RepositoryName string
	Description    string
	Visibility     Visibility
	ProjectPath    string
}

// Result summarizes a completed publish run.
type Result struct {
	RepositoryName string
	Visibility     Visibility
	BranchName     string
	CloneURL       string
	HTMLURL        string
	Committed      bool
	AlreadyExisted bool
}

var (
	// ErrGitUnavailable indicates git --version could not be executed successfully.
	ErrGitUnavailable = errors.New(gitUnavailableMessageConstant)
	// ErrTokenRequired indicates the operator supplied an empty token.
	ErrTokenRequired = errors.New(tokenRequiredMessageConstant)
	// ErrRepositoryNameRequired indicates the operator supplied an empty repository name.
	ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)
	// ErrInputClosed indicates input ended before a required answer was read.
	ErrInputClosed = errors.New(inputClosedMessageConstant)
)

// ProjectPathError reports a project path that is missing or not a directory.
type ProjectPathError struct {
	Path  string
	Cause error
}

// Error describes the invalid path.
func (pathError ProjectPathError) Error() string {
	return fmt.Sprintf(projectPathErrorTemplateConstant, pathError.Path)
}

// Unwrap exposes the underlying stat failure, if any.
func (pathError ProjectPathError) Unwrap() error {
	return pathError.Cause
}

// PushError reports a failure while linking the remote or pushing the branch.
type PushError struct {
	RemoteName string
	BranchName string
	Cause      error
}

// Error describes the push failure.
func (pushError PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.BranchName, pushError.RemoteName, pushError.Cause)
}

// Unwrap exposes the underlying git failure.
func (pushError PushError) Unwrap() error {
	return pushError.Cause
}
