package publish

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghpublish/internal/execshell"
	"github.com/temirov/ghpublish/internal/filesystem"
	"github.com/temirov/ghpublish/internal/githubapi"
	"github.com/temirov/ghpublish/internal/gitrepo"
	"github.com/temirov/ghpublish/internal/utils"
	pathutils "github.com/temirov/ghpublish/internal/utils/path"
)

const (
	commandUseConstant                 = "publish"
	commandShortDescriptionConstant    = "Publish a local directory as a new GitHub repository"
	commandLongDescriptionConstant     = "publish asks for a token, repository name, description, visibility and project path, then initializes git, commits, creates the GitHub repository and pushes the current branch."
	unexpectedArgumentsMessageConstant = "publish does not accept positional arguments"
	bannerHeaderConstant               = "Repository published"
	bannerLineTemplateConstant         = "  %-11s %s\n"
	bannerRepositoryLabelConstant      = "Repository:"
	bannerVisibilityLabelConstant      = "Visibility:"
	bannerBranchLabelConstant          = "Branch:"
	bannerCommitLabelConstant          = "Commit:"
	bannerURLLabelConstant             = "URL:"
	bannerStatusLabelConstant          = "Status:"
	bannerStatusCreatedConstant        = "created"
	bannerStatusReusedConstant         = "existing repository reused"
	bannerCommitCreatedConstant        = "created"
	bannerCommitSkippedConstant        = "nothing to commit"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current publish configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	RepositoryOpener             gitrepo.RepositoryOpener
	FileSystem                   filesystem.FileSystem
	RepositoryClientFactory      RepositoryClientFactory
	SecretReader                 SecretReader
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.Run,
	}
	return command, nil
}

// Run executes the publish workflow for the provided command. The root command reuses it as its default action.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration().Sanitize()
	logger := builder.resolveLogger()

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManagerWithOpener(gitExecutor, builder.RepositoryOpener)
	if managerError != nil {
		return managerError
	}

	fileSystem := builder.resolveFileSystem()
	output := utils.NewFlushingWriter(command.OutOrStdout())
	prompter := NewIOPrompter(command.InOrStdin(), output, builder.resolveSecretReader(command.InOrStdin()))

	collector, collectorError := NewCollector(CollectorDependencies{
		Prompter:     prompter,
		FileSystem:   fileSystem,
		HomeExpander: pathutils.NewHomeExpander(),
	})
	if collectorError != nil {
		return collectorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:                  logger,
		RepositoryManager:       repositoryManager,
		Collector:               collector,
		FileSystem:              fileSystem,
		RepositoryClientFactory: builder.resolveRepositoryClientFactory(configuration),
	}, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, publishError := service.Publish(command.Context())
	if publishError != nil {
		return publishError
	}

	return writeBanner(output, result)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return execshell.NewHumanReadableShellExecutor(logger, commandRunner)
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

func (builder *CommandBuilder) resolveFileSystem() filesystem.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.OSFileSystem{}
}

func (builder *CommandBuilder) resolveSecretReader(input io.Reader) SecretReader {
	if builder.SecretReader != nil {
		return builder.SecretReader
	}
	inputFile, isFile := input.(*os.File)
	if !isFile {
		return nil
	}
	return NewTerminalSecretReader(inputFile.Fd())
}

func (builder *CommandBuilder) resolveRepositoryClientFactory(configuration CommandConfiguration) RepositoryClientFactory {
	if builder.RepositoryClientFactory != nil {
		return builder.RepositoryClientFactory
	}
	return func(token string) (RepositoryClient, error) {
		client, clientError := githubapi.NewClient(githubapi.ClientConfiguration{
			Token:          token,
			BaseURL:        configuration.APIBaseURL,
			RequestTimeout: configuration.RequestTimeout,
		})
		if clientError != nil {
			return nil, clientError
		}
		return client, nil
	}
}

func writeBanner(output io.Writer, result Result) error {
	status := bannerStatusCreatedConstant
	if result.AlreadyExisted {
		status = bannerStatusReusedConstant
	}
	commitOutcome := bannerCommitSkippedConstant
	if result.Committed {
		commitOutcome = bannerCommitCreatedConstant
	}

	if _, writeError := fmt.Fprintln(output, bannerHeaderConstant); writeError != nil {
		return writeError
	}
	bannerLines := [][2]string{
		{bannerRepositoryLabelConstant, result.RepositoryName},
		{bannerVisibilityLabelConstant, string(result.Visibility)},
		{bannerBranchLabelConstant, result.BranchName},
		{bannerCommitLabelConstant, commitOutcome},
		{bannerURLLabelConstant, result.HTMLURL},
		{bannerStatusLabelConstant, status},
	}
	for _, bannerLine := range bannerLines {
		if _, writeError := fmt.Fprintf(output, bannerLineTemplateConstant, bannerLine[0], bannerLine[1]); writeError != nil {
			return writeError
		}
	}
	return nil
}
