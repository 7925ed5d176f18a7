package githubapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
)

const (
	tokenRequiredMessageConstant          = "github token required"
	repositoryNameRequiredMessageConstant = "repository name required"
	ownerRequiredMessageConstant          = "repository owner required"
	createRepositoryOperationConstant     = OperationName("CreateRepository")
	getRepositoryOperationConstant        = OperationName("GetRepository")
	authenticatedUserOperationConstant    = OperationName("GetAuthenticatedUser")
	defaultRequestTimeoutConstant         = 30 * time.Second
)

var (
	// ErrTokenRequired indicates the client was constructed without a token.
	ErrTokenRequired = errors.New(tokenRequiredMessageConstant)
	// ErrRepositoryNameRequired indicates an operation received an empty repository name.
	ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)
	// ErrOwnerRequired indicates a lookup received an empty owner login.
	ErrOwnerRequired = errors.New(ownerRequiredMessageConstant)
)

// ClientConfiguration describes how to reach the GitHub REST API.
type ClientConfiguration struct {
	Token          string
	BaseURL        string
	RequestTimeout time.Duration
}

// Repository describes the repository to create.
type Repository struct {
	Name        string
	Description string
	Private     bool
}

// RepositoryLocation identifies a hosted repository.
type RepositoryLocation struct {
	Owner    string
	Name     string
	CloneURL string
	HTMLURL  string
	Private  bool
}

// Client calls the GitHub REST API on behalf of the authenticated user.
type Client struct {
	client *github.Client
}

// NewClient constructs a token-authenticated client. A non-empty BaseURL targets a GitHub Enterprise host.
func NewClient(configuration ClientConfiguration) (*Client, error) {
	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	requestTimeout := configuration.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeoutConstant
	}

	apiClient := github.NewClient(&http.Client{Timeout: requestTimeout}).WithAuthToken(trimmedToken)

	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) > 0 {
		enterpriseClient, enterpriseError := apiClient.WithEnterpriseURLs(trimmedBaseURL, trimmedBaseURL)
		if enterpriseError != nil {
			return nil, enterpriseError
		}
		apiClient = enterpriseClient
	}

	return &Client{client: apiClient}, nil
}

// CreateRepository creates a repository owned by the authenticated user.
// A name conflict is reported as RepositoryExistsError.
func (client *Client) CreateRepository(executionContext context.Context, repository Repository) (RepositoryLocation, error) {
	trimmedName := strings.TrimSpace(repository.Name)
	if len(trimmedName) == 0 {
		return RepositoryLocation{}, ErrRepositoryNameRequired
	}

	createdRepository, response, createError := client.client.Repositories.Create(executionContext, "", &github.Repository{
		Name:        github.Ptr(trimmedName),
		Description: github.Ptr(repository.Description),
		Private:     github.Ptr(repository.Private),
	})
	if createError != nil {
		return RepositoryLocation{}, classifyError(createRepositoryOperationConstant, trimmedName, response, createError)
	}
	if response == nil || response.StatusCode != http.StatusCreated {
		return RepositoryLocation{}, unexpectedSuccessStatus(createRepositoryOperationConstant, response, createdRepository)
	}

	return toRepositoryLocation(createdRepository), nil
}

// GetRepository fetches an existing repository.
func (client *Client) GetRepository(executionContext context.Context, owner string, name string) (RepositoryLocation, error) {
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return RepositoryLocation{}, ErrOwnerRequired
	}
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return RepositoryLocation{}, ErrRepositoryNameRequired
	}

	existingRepository, response, getError := client.client.Repositories.Get(executionContext, trimmedOwner, trimmedName)
	if getError != nil {
		return RepositoryLocation{}, classifyError(getRepositoryOperationConstant, trimmedName, response, getError)
	}

	return toRepositoryLocation(existingRepository), nil
}

// AuthenticatedLogin returns the login of the token owner.
func (client *Client) AuthenticatedLogin(executionContext context.Context) (string, error) {
	user, response, userError := client.client.Users.Get(executionContext, "")
	if userError != nil {
		return "", classifyError(authenticatedUserOperationConstant, "", response, userError)
	}
	return user.GetLogin(), nil
}

func toRepositoryLocation(repository *github.Repository) RepositoryLocation {
	return RepositoryLocation{
		Owner:    repository.GetOwner().GetLogin(),
		Name:     repository.GetName(),
		CloneURL: repository.GetCloneURL(),
		HTMLURL:  repository.GetHTMLURL(),
		Private:  repository.GetPrivate(),
	}
}
