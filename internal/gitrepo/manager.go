package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/temirov/ghpublish/internal/execshell"
)

const (
	requiredValueMessageConstant          = "value required"
	executorNotConfiguredMessageConstant  = "git executor not configured"
	repositoryPathRequiredMessageConstant = "repository path required"
	remoteNameRequiredMessageConstant     = "remote name required"
	remoteURLRequiredMessageConstant      = "remote url required"
	branchNameRequiredMessageConstant     = "branch name required"
	commitMessageRequiredMessageConstant  = "commit message required"
	repositoryOpenErrorTemplateConstant   = "unable to inspect repository at %s: %w"
	gitVersionFlagConstant                = "--version"
	gitInitSubcommandConstant             = "init"
	gitAddSubcommandConstant              = "add"
	gitAllFilesPathspecConstant           = "."
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitCommitSubcommandConstant           = "commit"
	gitMessageFlagConstant                = "-m"
	gitBranchSubcommandConstant           = "branch"
	gitShowCurrentFlagConstant            = "--show-current"
	gitCheckoutSubcommandConstant         = "checkout"
	gitCreateBranchFlagConstant           = "-b"
	gitRemoteSubcommandConstant           = "remote"
	gitGetURLSubcommandConstant           = "get-url"
	gitSetURLSubcommandConstant           = "set-url"
	gitAddRemoteSubcommandConstant        = "add"
	gitPushSubcommandConstant             = "push"
	gitSetUpstreamFlagConstant            = "-u"
)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryOpener opens an existing repository at the provided path.
type RepositoryOpener func(repositoryPath string) error

var (
	// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an operation received an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrRemoteNameRequired indicates an operation received an empty remote name.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrRemoteURLRequired indicates an operation received an empty remote URL.
	ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)
	// ErrBranchNameRequired indicates an operation received an empty branch name.
	ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)
	// ErrCommitMessageRequired indicates a commit was requested without a message.
	ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)
)

// RepositoryManager performs the git operations used while publishing a directory.
type RepositoryManager struct {
	executor         GitExecutor
	repositoryOpener RepositoryOpener
}

// NewRepositoryManagerWithOpener constructs a RepositoryManager. A nil opener detects repositories with go-git.
func NewRepositoryManagerWithOpener(executor GitExecutor, opener RepositoryOpener) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if opener == nil {
		opener = openWithGoGit
	}
	return &RepositoryManager{executor: executor, repositoryOpener: opener}, nil
}

func openWithGoGit(repositoryPath string) error {
	_, openError := git.PlainOpen(repositoryPath)
	return openError
}

// CheckInstallation runs git --version and returns the reported version line.
func (manager *RepositoryManager) CheckInstallation(executionContext context.Context) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitVersionFlagConstant},
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// IsRepository reports whether git metadata exists directly at repositoryPath.
func (manager *RepositoryManager) IsRepository(repositoryPath string) (bool, error) {
	trimmedPath, validationError := requireValue(repositoryPath, ErrRepositoryPathRequired)
	if validationError != nil {
		return false, validationError
	}

	openError := manager.repositoryOpener(trimmedPath)
	switch {
	case openError == nil:
		return true, nil
	case errors.Is(openError, git.ErrRepositoryNotExists):
		return false, nil
	default:
		return false, fmt.Errorf(repositoryOpenErrorTemplateConstant, trimmedPath, openError)
	}
}

// Initialize runs git init in repositoryPath.
func (manager *RepositoryManager) Initialize(executionContext context.Context, repositoryPath string) error {
	return manager.run(executionContext, repositoryPath, gitInitSubcommandConstant)
}

// StageAll stages every change in the working tree.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	return manager.run(executionContext, repositoryPath, gitAddSubcommandConstant, gitAllFilesPathspecConstant)
}

// HasChanges reports whether git status --porcelain lists any entry.
func (manager *RepositoryManager) HasChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	statusOutput, statusError := manager.output(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if statusError != nil {
		return false, statusError
	}
	return len(strings.TrimSpace(statusOutput)) > 0, nil
}

// Commit records staged changes with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	trimmedMessage, validationError := requireValue(message, ErrCommitMessageRequired)
	if validationError != nil {
		return validationError
	}
	return manager.run(executionContext, repositoryPath, gitCommitSubcommandConstant, gitMessageFlagConstant, trimmedMessage)
}

// CurrentBranch returns the checked-out branch name, or an empty string when HEAD is detached or unborn without a name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	branchOutput, branchError := manager.output(executionContext, repositoryPath, gitBranchSubcommandConstant, gitShowCurrentFlagConstant)
	if branchError != nil {
		return "", branchError
	}
	return strings.TrimSpace(branchOutput), nil
}

// CreateBranch creates and checks out branchName.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedBranch, validationError := requireValue(branchName, ErrBranchNameRequired)
	if validationError != nil {
		return validationError
	}
	return manager.run(executionContext, repositoryPath, gitCheckoutSubcommandConstant, gitCreateBranchFlagConstant, trimmedBranch)
}

// GetRemoteURL returns the URL configured for remoteName. A missing remote yields an execshell.CommandFailedError.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	trimmedRemote, validationError := requireValue(remoteName, ErrRemoteNameRequired)
	if validationError != nil {
		return "", validationError
	}
	remoteOutput, remoteError := manager.output(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, trimmedRemote)
	if remoteError != nil {
		return "", remoteError
	}
	return strings.TrimSpace(remoteOutput), nil
}

// SetRemoteURL points an existing remote at remoteURL.
func (manager *RepositoryManager) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	return manager.configureRemote(executionContext, repositoryPath, gitSetURLSubcommandConstant, remoteName, remoteURL)
}

// AddRemote registers a new remote pointing at remoteURL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	return manager.configureRemote(executionContext, repositoryPath, gitAddRemoteSubcommandConstant, remoteName, remoteURL)
}

// Push uploads branchName to remoteName and records it as the upstream.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRemote, remoteValidationError := requireValue(remoteName, ErrRemoteNameRequired)
	if remoteValidationError != nil {
		return remoteValidationError
	}
	trimmedBranch, branchValidationError := requireValue(branchName, ErrBranchNameRequired)
	if branchValidationError != nil {
		return branchValidationError
	}
	return manager.run(executionContext, repositoryPath, gitPushSubcommandConstant, gitSetUpstreamFlagConstant, trimmedRemote, trimmedBranch)
}

func (manager *RepositoryManager) configureRemote(executionContext context.Context, repositoryPath string, subcommand string, remoteName string, remoteURL string) error {
	trimmedRemote, remoteValidationError := requireValue(remoteName, ErrRemoteNameRequired)
	if remoteValidationError != nil {
		return remoteValidationError
	}
	trimmedURL, urlValidationError := requireValue(remoteURL, ErrRemoteURLRequired)
	if urlValidationError != nil {
		return urlValidationError
	}
	return manager.run(executionContext, repositoryPath, gitRemoteSubcommandConstant, subcommand, trimmedRemote, trimmedURL)
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, arguments ...string) error {
	_, executionError := manager.output(executionContext, repositoryPath, arguments...)
	return executionError
}

func (manager *RepositoryManager) output(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	trimmedPath, validationError := requireValue(repositoryPath, ErrRepositoryPathRequired)
	if validationError != nil {
		return "", validationError
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func requireValue(value string, missingValueError error) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", missingValueError
	}
	return trimmedValue, nil
}
