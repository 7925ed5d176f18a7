package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghpublish/internal/filesystem"
	"github.com/temirov/ghpublish/internal/gitrepo"
)

const (
	repositoryManagerMissingMessageConstant  = "git repository manager not configured"
	collectorMissingMessageConstant          = "configuration collector not configured"
	clientFactoryMissingMessageConstant      = "repository client factory not configured"
	gitUnavailableErrorTemplateConstant      = "%w: %w"
	workingDirectoryErrorTemplateConstant    = "unable to determine working directory: %w"
	enterProjectErrorTemplateConstant        = "unable to enter project path %s: %w"
	inspectRepositoryErrorTemplateConstant   = "unable to inspect project path for git metadata: %w"
	initializeErrorTemplateConstant          = "unable to initialize git repository: %w"
	stageErrorTemplateConstant               = "unable to stage changes: %w"
	statusErrorTemplateConstant              = "unable to inspect working tree: %w"
	commitErrorTemplateConstant              = "unable to create commit: %w"
	clientErrorTemplateConstant              = "unable to configure GitHub client: %w"
	provisionErrorTemplateConstant           = "unable to create GitHub repository %s: %w"
	gitAvailableLogMessageConstant           = "git available"
	repositoryInitializedLogMessageConstant  = "initialized git repository"
	repositoryExistingLogMessageConstant     = "repository already initialized"
	nothingToCommitLogMessageConstant        = "nothing to commit"
	commitCreatedLogMessageConstant          = "created commit"
	branchCreationFailedLogMessageConstant   = "unable to create branch, continuing with default branch name"
	branchSelectedLogMessageConstant         = "using branch"
	remoteUpdatedLogMessageConstant          = "remote already exists, updating url"
	remoteAddedLogMessageConstant            = "adding remote"
	remoteRetargetedLogMessageConstant       = "remote points at a different repository, replacing it"
	pushCompletedLogMessageConstant          = "pushed branch"
	restoreDirectoryFailedLogMessageConstant = "unable to restore working directory"
	logFieldVersionConstant                  = "version"
	logFieldPathConstant                     = "path"
	logFieldBranchConstant                   = "branch"
	logFieldRemoteConstant                   = "remote"
	logFieldMessageConstant                  = "message"
	logFieldPreviousOwnerConstant            = "previous_owner"
	logFieldPreviousRepositoryConstant       = "previous_repository"
	apiHostPrefixConstant                    = "api."
)

var (
	// ErrRepositoryManagerNotConfigured indicates the service was constructed without a repository manager.
	ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)
	// ErrCollectorNotConfigured indicates the service was constructed without a configuration collector.
	ErrCollectorNotConfigured = errors.New(collectorMissingMessageConstant)
	// ErrRepositoryClientFactoryNotConfigured indicates the service cannot build a GitHub client.
	ErrRepositoryClientFactoryNotConfigured = errors.New(clientFactoryMissingMessageConstant)
)

// GitRepositoryManager exposes the git operations used by the publish workflow.
type GitRepositoryManager interface {
	CheckInstallation(executionContext context.Context) (string, error)
	IsRepository(repositoryPath string) (bool, error)
	Initialize(executionContext context.Context, repositoryPath string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	HasChanges(executionContext context.Context, repositoryPath string) (bool, error)
	Commit(executionContext context.Context, repositoryPath string, message string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// ConfigurationCollector gathers the operator answers for a run.
type ConfigurationCollector interface {
	Collect(executionContext context.Context) (Configuration, error)
}

// RepositoryClientFactory builds a GitHub client for the collected token.
type RepositoryClientFactory func(token string) (RepositoryClient, error)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Logger                  *zap.Logger
	RepositoryManager       GitRepositoryManager
	Collector               ConfigurationCollector
	FileSystem              filesystem.FileSystem
	RepositoryClientFactory RepositoryClientFactory
}

// Service publishes a local directory as a GitHub repository.
type Service struct {
	logger            *zap.Logger
	repositoryManager GitRepositoryManager
	collector         ConfigurationCollector
	fileSystem        filesystem.FileSystem
	clientFactory     RepositoryClientFactory
	settings          CommandConfiguration
}

// NewService constructs a Service from the provided dependencies and settings.
func NewService(dependencies ServiceDependencies, settings CommandConfiguration) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Collector == nil {
		return nil, ErrCollectorNotConfigured
	}
	if dependencies.RepositoryClientFactory == nil {
		return nil, ErrRepositoryClientFactoryNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}

	return &Service{
		logger:            logger,
		repositoryManager: dependencies.RepositoryManager,
		collector:         dependencies.Collector,
		fileSystem:        fileSystem,
		clientFactory:     dependencies.RepositoryClientFactory,
		settings:          settings.Sanitize(),
	}, nil
}

// Publish runs the workflow once: environment check, configuration, initialization, commit,
// branch resolution, remote provisioning and push. The first failure stops the run.
func (service *Service) Publish(executionContext context.Context) (Result, error) {
	gitVersion, installationError := service.repositoryManager.CheckInstallation(executionContext)
	if installationError != nil {
		if executionContext.Err() != nil {
			return Result{}, executionContext.Err()
		}
		return Result{}, fmt.Errorf(gitUnavailableErrorTemplateConstant, ErrGitUnavailable, installationError)
	}
	service.logger.Info(gitAvailableLogMessageConstant, zap.String(logFieldVersionConstant, gitVersion))

	configuration, collectionError := service.collector.Collect(executionContext)
	if collectionError != nil {
		return Result{}, collectionError
	}

	originalDirectory, workingDirectoryError := service.fileSystem.Getwd()
	if workingDirectoryError != nil {
		return Result{}, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	if chdirError := service.fileSystem.Chdir(configuration.ProjectPath); chdirError != nil {
		return Result{}, fmt.Errorf(enterProjectErrorTemplateConstant, configuration.ProjectPath, chdirError)
	}
	defer service.restoreWorkingDirectory(originalDirectory)

	projectPath := configuration.ProjectPath
	if initializationError := service.ensureRepository(executionContext, projectPath); initializationError != nil {
		return Result{}, initializationError
	}

	committed, commitError := service.commitChanges(executionContext, projectPath, configuration.RepositoryName)
	if commitError != nil {
		return Result{}, commitError
	}

	branchName, branchError := service.resolveBranch(executionContext, projectPath)
	if branchError != nil {
		return Result{}, branchError
	}

	provisioned, provisionError := service.provisionRemote(executionContext, configuration)
	if provisionError != nil {
		return Result{}, provisionError
	}

	if pushError := service.linkAndPush(executionContext, projectPath, provisioned.CloneURL, branchName); pushError != nil {
		return Result{}, pushError
	}

	return Result{
		RepositoryName: configuration.RepositoryName,
		Visibility:     configuration.Visibility,
		BranchName:     branchName,
		CloneURL:       provisioned.CloneURL,
		HTMLURL:        provisioned.HTMLURL,
		Committed:      committed,
		AlreadyExisted: provisioned.AlreadyExisted,
	}, nil
}

func (service *Service) ensureRepository(executionContext context.Context, projectPath string) error {
	isRepository, inspectionError := service.repositoryManager.IsRepository(projectPath)
	if inspectionError != nil {
		return fmt.Errorf(inspectRepositoryErrorTemplateConstant, inspectionError)
	}
	if isRepository {
		service.logger.Info(repositoryExistingLogMessageConstant, zap.String(logFieldPathConstant, projectPath))
		return nil
	}

	if initializeError := service.repositoryManager.Initialize(executionContext, projectPath); initializeError != nil {
		return fmt.Errorf(initializeErrorTemplateConstant, initializeError)
	}
	service.logger.Info(repositoryInitializedLogMessageConstant, zap.String(logFieldPathConstant, projectPath))
	return nil
}

func (service *Service) commitChanges(executionContext context.Context, projectPath string, repositoryName string) (bool, error) {
	if stageError := service.repositoryManager.StageAll(executionContext, projectPath); stageError != nil {
		return false, fmt.Errorf(stageErrorTemplateConstant, stageError)
	}

	hasChanges, statusError := service.repositoryManager.HasChanges(executionContext, projectPath)
	if statusError != nil {
		return false, fmt.Errorf(statusErrorTemplateConstant, statusError)
	}
	if !hasChanges {
		service.logger.Info(nothingToCommitLogMessageConstant, zap.String(logFieldPathConstant, projectPath))
		return false, nil
	}

	commitMessage := renderRepositoryTemplate(service.settings.CommitMessageTemplate, repositoryName)
	if len(commitMessage) == 0 {
		commitMessage = defaultCommitMessageTemplateConstant
	}
	if commitError := service.repositoryManager.Commit(executionContext, projectPath, commitMessage); commitError != nil {
		return false, fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	service.logger.Info(commitCreatedLogMessageConstant, zap.String(logFieldMessageConstant, commitMessage))
	return true, nil
}

// resolveBranch never returns an empty branch name; only cancellation is reported as an error.
func (service *Service) resolveBranch(executionContext context.Context, projectPath string) (string, error) {
	currentBranch, branchError := service.repositoryManager.CurrentBranch(executionContext, projectPath)
	if executionContext.Err() != nil {
		return "", executionContext.Err()
	}
	if branchError == nil && len(currentBranch) > 0 {
		service.logger.Info(branchSelectedLogMessageConstant, zap.String(logFieldBranchConstant, currentBranch))
		return currentBranch, nil
	}

	defaultBranch := service.settings.DefaultBranch
	if createError := service.repositoryManager.CreateBranch(executionContext, projectPath, defaultBranch); createError != nil {
		if executionContext.Err() != nil {
			return "", executionContext.Err()
		}
		service.logger.Warn(branchCreationFailedLogMessageConstant, zap.String(logFieldBranchConstant, defaultBranch), zap.Error(createError))
	}
	service.logger.Info(branchSelectedLogMessageConstant, zap.String(logFieldBranchConstant, defaultBranch))
	return defaultBranch, nil
}

func (service *Service) provisionRemote(executionContext context.Context, configuration Configuration) (ProvisionResult, error) {
	client, clientError := service.clientFactory(configuration.Token)
	if clientError != nil {
		return ProvisionResult{}, fmt.Errorf(clientErrorTemplateConstant, clientError)
	}

	provisioner, provisionerError := NewProvisioner(client, service.logger, service.settings.FallbackOwner, service.remoteHost())
	if provisionerError != nil {
		return ProvisionResult{}, fmt.Errorf(clientErrorTemplateConstant, provisionerError)
	}

	description := strings.TrimSpace(configuration.Description)
	if len(description) == 0 {
		description = renderRepositoryTemplate(service.settings.DescriptionTemplate, configuration.RepositoryName)
	}

	provisioned, provisionError := provisioner.Provision(executionContext, configuration, description)
	if provisionError != nil {
		return ProvisionResult{}, fmt.Errorf(provisionErrorTemplateConstant, configuration.RepositoryName, provisionError)
	}
	return provisioned, nil
}

func (service *Service) linkAndPush(executionContext context.Context, projectPath string, cloneURL string, branchName string) error {
	remoteName := service.settings.RemoteName
	wrapFailure := func(cause error) error {
		return PushError{RemoteName: remoteName, BranchName: branchName, Cause: cause}
	}

	existingURL, lookupError := service.repositoryManager.GetRemoteURL(executionContext, projectPath, remoteName)
	if executionContext.Err() != nil {
		return wrapFailure(executionContext.Err())
	}

	if lookupError == nil {
		service.reportRetargetedRemote(remoteName, existingURL, cloneURL)
		service.logger.Info(remoteUpdatedLogMessageConstant, zap.String(logFieldRemoteConstant, remoteName))
		if setError := service.repositoryManager.SetRemoteURL(executionContext, projectPath, remoteName, cloneURL); setError != nil {
			return wrapFailure(setError)
		}
	} else {
		service.logger.Info(remoteAddedLogMessageConstant, zap.String(logFieldRemoteConstant, remoteName))
		if addError := service.repositoryManager.AddRemote(executionContext, projectPath, remoteName, cloneURL); addError != nil {
			return wrapFailure(addError)
		}
	}

	if pushError := service.repositoryManager.Push(executionContext, projectPath, remoteName, branchName); pushError != nil {
		return wrapFailure(pushError)
	}
	service.logger.Info(pushCompletedLogMessageConstant, zap.String(logFieldRemoteConstant, remoteName), zap.String(logFieldBranchConstant, branchName))
	return nil
}

// reportRetargetedRemote warns when an existing remote belongs to another repository.
// Remotes that cannot be parsed are replaced silently.
func (service *Service) reportRetargetedRemote(remoteName string, existingURL string, cloneURL string) {
	existingRemote, existingParseError := gitrepo.ParseRemoteURL(existingURL)
	if existingParseError != nil {
		return
	}
	targetRemote, targetParseError := gitrepo.ParseRemoteURL(cloneURL)
	if targetParseError != nil {
		return
	}
	if strings.EqualFold(existingRemote.Host, targetRemote.Host) &&
		strings.EqualFold(existingRemote.Owner, targetRemote.Owner) &&
		strings.EqualFold(existingRemote.Repository, targetRemote.Repository) {
		return
	}
	service.logger.Warn(
		remoteRetargetedLogMessageConstant,
		zap.String(logFieldRemoteConstant, remoteName),
		zap.String(logFieldPreviousOwnerConstant, existingRemote.Owner),
		zap.String(logFieldPreviousRepositoryConstant, existingRemote.Repository),
		zap.String(logFieldCloneURLConstant, cloneURL),
	)
}

// remoteHost derives the web host from api_base_url; api.<host> maps to <host>.
func (service *Service) remoteHost() string {
	if len(service.settings.APIBaseURL) == 0 {
		return defaultGitHubHostConstant
	}
	parsedURL, parseError := url.Parse(service.settings.APIBaseURL)
	if parseError != nil || len(parsedURL.Hostname()) == 0 {
		return defaultGitHubHostConstant
	}
	host := strings.ToLower(parsedURL.Host)
	if webHost, isAPIHost := strings.CutPrefix(host, apiHostPrefixConstant); isAPIHost && len(webHost) > 0 {
		return webHost
	}
	return host
}

func (service *Service) restoreWorkingDirectory(originalDirectory string) {
	if restoreError := service.fileSystem.Chdir(originalDirectory); restoreError != nil {
		service.logger.Warn(restoreDirectoryFailedLogMessageConstant, zap.String(logFieldPathConstant, originalDirectory), zap.Error(restoreError))
	}
}
