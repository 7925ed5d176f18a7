package publish

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ghpublish/internal/githubapi"
	"github.com/temirov/ghpublish/internal/gitrepo"
)

const (
	defaultGitHubHostConstant                    = "github.com"
	repositoryClientNotConfiguredMessageConstant = "repository client not configured"
	repositoryCreatedLogMessageConstant          = "repository created"
	repositoryExistsLogMessageConstant           = "repository already exists, reusing it"
	loginLookupFailedLogMessageConstant          = "unable to resolve authenticated login, using fallback owner"
	repositoryLookupFailedLogMessageConstant     = "unable to fetch existing repository, synthesizing clone url"
	synthesizedCloneURLLogMessageConstant        = "using synthesized clone url"
	logFieldRepositoryConstant                   = "repository"
	logFieldOwnerConstant                        = "owner"
	logFieldCloneURLConstant                     = "clone_url"
	logFieldHTMLURLConstant                      = "html_url"
	logFieldVisibilityConstant                   = "visibility"
)

// ErrRepositoryClientNotConfigured indicates the provisioner was constructed without an API client.
var ErrRepositoryClientNotConfigured = errors.New(repositoryClientNotConfiguredMessageConstant)

// RepositoryClient exposes the GitHub API calls used to provision the remote repository.
type RepositoryClient interface {
	CreateRepository(executionContext context.Context, repository githubapi.Repository) (githubapi.RepositoryLocation, error)
	GetRepository(executionContext context.Context, owner string, name string) (githubapi.RepositoryLocation, error)
	AuthenticatedLogin(executionContext context.Context) (string, error)
}

// ProvisionResult identifies the remote repository to push to.
type ProvisionResult struct {
	CloneURL       string
	HTMLURL        string
	AlreadyExisted bool
}

// Provisioner creates the remote repository or recovers the location of an existing one.
type Provisioner struct {
	client        RepositoryClient
	logger        *zap.Logger
	fallbackOwner string
	host          string
}

// NewProvisioner constructs a Provisioner. fallbackOwner names the owner used when the login cannot be resolved.
func NewProvisioner(client RepositoryClient, logger *zap.Logger, fallbackOwner string, host string) (*Provisioner, error) {
	if client == nil {
		return nil, ErrRepositoryClientNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{
		client:        client,
		logger:        logger,
		fallbackOwner: valueOrDefault(fallbackOwner, defaultFallbackOwnerConstant),
		host:          valueOrDefault(host, defaultGitHubHostConstant),
	}, nil
}

// Provision creates the repository. When the name already exists it always returns a usable clone URL.
func (provisioner *Provisioner) Provision(executionContext context.Context, configuration Configuration, description string) (ProvisionResult, error) {
	location, createError := provisioner.client.CreateRepository(executionContext, githubapi.Repository{
		Name:        configuration.RepositoryName,
		Description: description,
		Private:     configuration.Visibility.IsPrivate(),
	})
	if createError == nil {
		provisioner.logger.Info(repositoryCreatedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, configuration.RepositoryName),
			zap.String(logFieldVisibilityConstant, string(configuration.Visibility)),
			zap.String(logFieldHTMLURLConstant, location.HTMLURL),
		)
		return ProvisionResult{CloneURL: location.CloneURL, HTMLURL: location.HTMLURL}, nil
	}

	var existsError githubapi.RepositoryExistsError
	if !errors.As(createError, &existsError) {
		return ProvisionResult{}, createError
	}

	provisioner.logger.Warn(repositoryExistsLogMessageConstant, zap.String(logFieldRepositoryConstant, configuration.RepositoryName))
	return provisioner.resolveExisting(executionContext, configuration.RepositoryName)
}

func (provisioner *Provisioner) resolveExisting(executionContext context.Context, repositoryName string) (ProvisionResult, error) {
	owner := provisioner.fallbackOwner
	login, loginError := provisioner.client.AuthenticatedLogin(executionContext)
	switch {
	case executionContext.Err() != nil:
		return ProvisionResult{}, executionContext.Err()
	case loginError != nil || len(strings.TrimSpace(login)) == 0:
		provisioner.logger.Warn(loginLookupFailedLogMessageConstant, zap.String(logFieldOwnerConstant, owner), zap.Error(loginError))
	default:
		owner = login
		location, lookupError := provisioner.client.GetRepository(executionContext, owner, repositoryName)
		if executionContext.Err() != nil {
			return ProvisionResult{}, executionContext.Err()
		}
		if lookupError == nil && len(location.CloneURL) > 0 {
			return ProvisionResult{CloneURL: location.CloneURL, HTMLURL: location.HTMLURL, AlreadyExisted: true}, nil
		}
		provisioner.logger.Warn(repositoryLookupFailedLogMessageConstant, zap.String(logFieldOwnerConstant, owner), zap.Error(lookupError))
	}

	remote := gitrepo.RemoteURL{
		Protocol:   gitrepo.RemoteProtocolHTTPS,
		Host:       provisioner.host,
		Owner:      owner,
		Repository: repositoryName,
	}
	cloneURL, formatError := gitrepo.FormatRemoteURL(remote)
	if formatError != nil {
		return ProvisionResult{}, formatError
	}

	provisioner.logger.Info(synthesizedCloneURLLogMessageConstant, zap.String(logFieldCloneURLConstant, cloneURL))
	return ProvisionResult{CloneURL: cloneURL, HTMLURL: remote.WebURL(), AlreadyExisted: true}, nil
}
