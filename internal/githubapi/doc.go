// Package githubapi wraps go-github for the three REST calls ghpublish makes:
// creating a repository for the authenticated user, fetching an existing
// repository and resolving the authenticated login.
//
// Failures are classified by HTTP status into AuthenticationError,
// RepositoryExistsError, ValidationError and UnexpectedStatusError, and
// requests that never receive a response surface as NetworkError.
package githubapi
