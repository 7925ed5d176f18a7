package githubapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/go-github/v68/github"
)

const (
	authenticationErrorTemplateConstant   = "%s rejected the token (HTTP 401): %s; verify the token is valid and has the repo scope"
	repositoryExistsErrorTemplateConstant = "repository %q already exists"
	validationErrorTemplateConstant       = "%s failed validation (HTTP 422): %s"
	unexpectedStatusErrorTemplateConstant = "%s returned unexpected status %d: %s"
	networkErrorTemplateConstant          = "%s failed before a response was received: %s"
	nameAlreadyExistsMarkerConstant       = "name already exists"
	payloadIndentPrefixConstant           = ""
	payloadIndentConstant                 = "  "
	emptyPayloadPlaceholderConstant       = "<empty response>"
)

// OperationName identifies a GitHub API call made by the client.
type OperationName string

// AuthenticationError reports a token the API refused.
type AuthenticationError struct {
	Operation OperationName
	Message   string
}

// Error describes the authentication failure.
func (authenticationError AuthenticationError) Error() string {
	return fmt.Sprintf(authenticationErrorTemplateConstant, authenticationError.Operation, authenticationError.Message)
}

// RepositoryExistsError reports that the authenticated account already owns a repository with the requested name.
type RepositoryExistsError struct {
	Name string
}

// Error describes the conflict.
func (existsError RepositoryExistsError) Error() string {
	return fmt.Sprintf(repositoryExistsErrorTemplateConstant, existsError.Name)
}

// ValidationError reports a 422 response other than a name conflict.
type ValidationError struct {
	Operation OperationName
	Payload   string
}

// Error describes the validation failure.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Operation, validationError.Payload)
}

// UnexpectedStatusError reports any other non-success HTTP status.
type UnexpectedStatusError struct {
	Operation  OperationName
	StatusCode int
	Body       string
}

// Error describes the unexpected status.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusErrorTemplateConstant, statusError.Operation, statusError.StatusCode, statusError.Body)
}

// NetworkError reports a request that produced no HTTP response.
type NetworkError struct {
	Operation OperationName
	Cause     error
}

// Error describes the network failure.
func (networkError NetworkError) Error() string {
	return fmt.Sprintf(networkErrorTemplateConstant, networkError.Operation, networkError.Cause)
}

// Unwrap exposes the underlying cause.
func (networkError NetworkError) Unwrap() error {
	return networkError.Cause
}

// classifyError maps a go-github failure onto the package error types.
func classifyError(operation OperationName, repositoryName string, response *github.Response, requestError error) error {
	if response == nil || response.Response == nil {
		return NetworkError{Operation: operation, Cause: requestError}
	}

	payload := formatPayload(response.Response, requestError)
	switch response.StatusCode {
	case http.StatusUnauthorized:
		return AuthenticationError{Operation: operation, Message: errorMessage(requestError)}
	case http.StatusUnprocessableEntity:
		if reportsExistingName(requestError) {
			return RepositoryExistsError{Name: repositoryName}
		}
		return ValidationError{Operation: operation, Payload: payload}
	default:
		return UnexpectedStatusError{Operation: operation, StatusCode: response.StatusCode, Body: payload}
	}
}

// unexpectedSuccessStatus reports a 2xx reply other than the one the operation expects.
// go-github has already consumed the body, so the decoded value is re-encoded instead.
func unexpectedSuccessStatus(operation OperationName, response *github.Response, decodedValue any) error {
	statusCode := 0
	if response != nil {
		statusCode = response.StatusCode
	}

	body := emptyPayloadPlaceholderConstant
	if encodedValue, encodeError := json.MarshalIndent(decodedValue, payloadIndentPrefixConstant, payloadIndentConstant); encodeError == nil && len(encodedValue) > 0 {
		body = string(encodedValue)
	}
	return UnexpectedStatusError{Operation: operation, StatusCode: statusCode, Body: body}
}

func reportsExistingName(requestError error) bool {
	var errorResponse *github.ErrorResponse
	if !errors.As(requestError, &errorResponse) {
		return false
	}
	candidates := []string{errorResponse.Message}
	for _, fieldError := range errorResponse.Errors {
		candidates = append(candidates, fieldError.Message, fieldError.Code)
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), nameAlreadyExistsMarkerConstant) {
			return true
		}
	}
	return false
}

func errorMessage(requestError error) string {
	var errorResponse *github.ErrorResponse
	if errors.As(requestError, &errorResponse) && len(errorResponse.Message) > 0 {
		return errorResponse.Message
	}
	return requestError.Error()
}

// formatPayload renders the response body as indented JSON, falling back to the raw text.
func formatPayload(httpResponse *http.Response, requestError error) string {
	var rawBody []byte
	if httpResponse.Body != nil {
		rawBody, _ = io.ReadAll(httpResponse.Body)
	}

	trimmedBody := bytes.TrimSpace(rawBody)
	if len(trimmedBody) == 0 {
		if requestError != nil {
			return requestError.Error()
		}
		return emptyPayloadPlaceholderConstant
	}

	var indentedBody bytes.Buffer
	if indentError := json.Indent(&indentedBody, trimmedBody, payloadIndentPrefixConstant, payloadIndentConstant); indentError != nil {
		return string(trimmedBody)
	}
	return indentedBody.String()
}
