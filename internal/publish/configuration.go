package publish

import (
	"strings"
	"time"
)

const (
	defaultRemoteNameConstant            = "origin"
	defaultBranchNameConstant            = "main"
	defaultCommitMessageTemplateConstant = "Initial commit"
	defaultDescriptionTemplateConstant   = "Repository {{repository}}"
	defaultFallbackOwnerConstant         = "user"
	defaultRequestTimeoutConstant        = 30 * time.Second

	remoteNameKeyConstant             = "remote_name"
	defaultBranchKeyConstant          = "default_branch"
	commitMessageTemplateKeyConstant  = "commit_message_template"
	descriptionTemplateKeyConstant    = "description_template"
	fallbackOwnerKeyConstant          = "fallback_owner"
	apiBaseURLKeyConstant             = "api_base_url"
	requestTimeoutKeyConstant         = "request_timeout"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures the persistent settings of the publish command.
type CommandConfiguration struct {
	RemoteName            string        `mapstructure:"remote_name"`
	DefaultBranch         string        `mapstructure:"default_branch"`
	CommitMessageTemplate string        `mapstructure:"commit_message_template"`
	DescriptionTemplate   string        `mapstructure:"description_template"`
	FallbackOwner         string        `mapstructure:"fallback_owner"`
	APIBaseURL            string        `mapstructure:"api_base_url"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
}

// DefaultCommandConfiguration returns the built-in publish settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:            defaultRemoteNameConstant,
		DefaultBranch:         defaultBranchNameConstant,
		CommitMessageTemplate: defaultCommitMessageTemplateConstant,
		DescriptionTemplate:   defaultDescriptionTemplateConstant,
		FallbackOwner:         defaultFallbackOwnerConstant,
		RequestTimeout:        defaultRequestTimeoutConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := strings.TrimSpace(rootKey)
	if len(prefix) > 0 {
		prefix += configurationKeySeparatorConstant
	}
	return map[string]any{
		prefix + remoteNameKeyConstant:            defaults.RemoteName,
		prefix + defaultBranchKeyConstant:         defaults.DefaultBranch,
		prefix + commitMessageTemplateKeyConstant: defaults.CommitMessageTemplate,
		prefix + descriptionTemplateKeyConstant:   defaults.DescriptionTemplate,
		prefix + fallbackOwnerKeyConstant:         defaults.FallbackOwner,
		prefix + apiBaseURLKeyConstant:            defaults.APIBaseURL,
		prefix + requestTimeoutKeyConstant:        defaults.RequestTimeout.String(),
	}
}

// Sanitize trims values and replaces empty ones with defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		RemoteName:            valueOrDefault(configuration.RemoteName, defaults.RemoteName),
		DefaultBranch:         valueOrDefault(configuration.DefaultBranch, defaults.DefaultBranch),
		CommitMessageTemplate: valueOrDefault(configuration.CommitMessageTemplate, defaults.CommitMessageTemplate),
		DescriptionTemplate:   valueOrDefault(configuration.DescriptionTemplate, defaults.DescriptionTemplate),
		FallbackOwner:         valueOrDefault(configuration.FallbackOwner, defaults.FallbackOwner),
		APIBaseURL:            strings.TrimSpace(configuration.APIBaseURL),
		RequestTimeout:        configuration.RequestTimeout,
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
