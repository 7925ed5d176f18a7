package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/ghpublish/internal/filesystem"
	pathutils "github.com/temirov/ghpublish/internal/utils/path"
)

const (
	configurationHeaderConstant          = "GitHub repository configuration"
	tokenPromptConstant                  = "GitHub personal access token: "
	repositoryNamePromptConstant         = "Repository name: "
	descriptionPromptConstant            = "Description (optional): "
	visibilityPromptConstant             = "Visibility (public/private) [public]: "
	invalidVisibilityMessageConstant     = "Invalid option. Enter 'public' or 'private'."
	projectPathPromptTemplateConstant    = "Project path [%s]: "
	prompterNotConfiguredMessageConstant = "prompter not configured"
)

// ErrPrompterNotConfigured indicates the collector was constructed without a prompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessageConstant)

// CollectorDependencies enumerates collaborators used by Collector.
type CollectorDependencies struct {
	Prompter     Prompter
	FileSystem   filesystem.FileSystem
	HomeExpander *pathutils.HomeExpander
}

// Collector gathers a Configuration interactively.
type Collector struct {
	prompter     Prompter
	fileSystem   filesystem.FileSystem
	homeExpander *pathutils.HomeExpander
}

// NewCollector constructs a Collector, defaulting the filesystem and home expander to OS-backed implementations.
func NewCollector(dependencies CollectorDependencies) (*Collector, error) {
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	return &Collector{prompter: dependencies.Prompter, fileSystem: fileSystem, homeExpander: homeExpander}, nil
}

// Collect asks for the token, repository name, description, visibility and project path in that order.
// Invalid visibility answers are asked again until a recognized value is given.
func (collector *Collector) Collect(executionContext context.Context) (Configuration, error) {
	if notifyError := collector.prompter.Notify(configurationHeaderConstant); notifyError != nil {
		return Configuration{}, notifyError
	}

	token, tokenError := collector.prompter.PromptSecret(executionContext, tokenPromptConstant)
	if tokenError != nil {
		return Configuration{}, tokenError
	}
	if len(token) == 0 {
		return Configuration{}, ErrTokenRequired
	}

	repositoryName, nameError := collector.prompter.Prompt(executionContext, repositoryNamePromptConstant)
	if nameError != nil {
		return Configuration{}, nameError
	}
	if len(repositoryName) == 0 {
		return Configuration{}, ErrRepositoryNameRequired
	}

	description, descriptionError := collector.optionalAnswer(executionContext, descriptionPromptConstant)
	if descriptionError != nil {
		return Configuration{}, descriptionError
	}

	visibility, visibilityError := collector.collectVisibility(executionContext)
	if visibilityError != nil {
		return Configuration{}, visibilityError
	}

	projectPath, pathError := collector.collectProjectPath(executionContext)
	if pathError != nil {
		return Configuration{}, pathError
	}

	return Configuration{
		Token:          token,
		RepositoryName: repositoryName,
		Description:    description,
		Visibility:     visibility,
		ProjectPath:    projectPath,
	}, nil
}

func (collector *Collector) collectVisibility(executionContext context.Context) (Visibility, error) {
	for {
		answer, answerError := collector.optionalAnswer(executionContext, visibilityPromptConstant)
		if answerError != nil {
			return "", answerError
		}
		if visibility, known := ParseVisibility(answer); known {
			return visibility, nil
		}
		if notifyError := collector.prompter.Notify(invalidVisibilityMessageConstant); notifyError != nil {
			return "", notifyError
		}
	}
}

func (collector *Collector) collectProjectPath(executionContext context.Context) (string, error) {
	workingDirectory, workingDirectoryError := collector.fileSystem.Getwd()
	if workingDirectoryError != nil {
		return "", workingDirectoryError
	}

	answer, answerError := collector.optionalAnswer(executionContext, fmt.Sprintf(projectPathPromptTemplateConstant, workingDirectory))
	if answerError != nil {
		return "", answerError
	}

	projectPath := collector.homeExpander.Resolve(workingDirectory, answer)
	fileInfo, statError := collector.fileSystem.Stat(projectPath)
	if statError != nil {
		return "", ProjectPathError{Path: projectPath, Cause: statError}
	}
	if !fileInfo.IsDir() {
		return "", ProjectPathError{Path: projectPath}
	}
	return projectPath, nil
}

// optionalAnswer treats closed input as an empty answer so defaults apply.
func (collector *Collector) optionalAnswer(executionContext context.Context, label string) (string, error) {
	answer, answerError := collector.prompter.Prompt(executionContext, label)
	if errors.Is(answerError, ErrInputClosed) {
		return "", nil
	}
	return answer, answerError
}
