package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghpublish/internal/execshell"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\n  log_format: structured\npublish:\n  remote_name: upstream\n  default_branch: trunk\n  request_timeout: 45s\n"
	testEnvironmentLogLevelName       = "GHPUBLISH_COMMON_LOG_LEVEL"
	testEnvironmentFallbackOwnerName  = "GHPUBLISH_PUBLISH_FALLBACK_OWNER"
	testPublishCommandNameConstant    = "publish"
)

type cancellingGitExecutor struct {
	invocations int
}

func (executor *cancellingGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations++
	return execshell.ExecutionResult{}, executionContext.Err()
}

func TestNewApplicationRegistersCommandsAndFlags(testInstance *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand

	require.Equal(testInstance, applicationNameConstant, rootCommand.Use)
	for _, flagName := range []string{configFileFlagNameConstant, logLevelFlagNameConstant, logFormatFlagNameConstant} {
		require.NotNil(testInstance, rootCommand.PersistentFlags().Lookup(flagName), flagName)
	}

	publishCommand, _, findError := rootCommand.Find([]string{testPublishCommandNameConstant})
	require.NoError(testInstance, findError)
	require.Equal(testInstance, testPublishCommandNameConstant, publishCommand.Name())
}

func TestInitializeConfigurationLayersSources(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o600))

	testCases := []struct {
		name                   string
		arguments              []string
		environment            map[string]string
		expectedLogLevel       string
		expectedLogFormat      string
		expectedRemoteName     string
		expectedDefaultBranch  string
		expectedFallbackOwner  string
		expectedRequestTimeout time.Duration
		expectedHumanReadable  bool
	}{
		{
			name:                   "embedded_defaults",
			expectedLogLevel:       "info",
			expectedLogFormat:      "console",
			expectedRemoteName:     "origin",
			expectedDefaultBranch:  "main",
			expectedFallbackOwner:  "user",
			expectedRequestTimeout: 30 * time.Second,
			expectedHumanReadable:  true,
		},
		{
			name:                   "configuration_file",
			arguments:              []string{"--" + configFileFlagNameConstant, configurationPath},
			expectedLogLevel:       "debug",
			expectedLogFormat:      "structured",
			expectedRemoteName:     "upstream",
			expectedDefaultBranch:  "trunk",
			expectedFallbackOwner:  "user",
			expectedRequestTimeout: 45 * time.Second,
		},
		{
			name:                   "environment_overrides",
			environment:            map[string]string{testEnvironmentLogLevelName: "warn", testEnvironmentFallbackOwnerName: "octocat"},
			expectedLogLevel:       "warn",
			expectedLogFormat:      "console",
			expectedRemoteName:     "origin",
			expectedDefaultBranch:  "main",
			expectedFallbackOwner:  "octocat",
			expectedRequestTimeout: 30 * time.Second,
			expectedHumanReadable:  true,
		},
		{
			name:                   "flags_override_file",
			arguments:              []string{"--" + configFileFlagNameConstant, configurationPath, "--" + logLevelFlagNameConstant, "error", "--" + logFormatFlagNameConstant, "console"},
			expectedLogLevel:       "error",
			expectedLogFormat:      "console",
			expectedRemoteName:     "upstream",
			expectedDefaultBranch:  "trunk",
			expectedFallbackOwner:  "user",
			expectedRequestTimeout: 45 * time.Second,
			expectedHumanReadable:  true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				subTest.Setenv(environmentName, environmentValue)
			}

			application := NewApplication()
			rootCommand := application.rootCommand
			require.NoError(subTest, rootCommand.ParseFlags(testCase.arguments))
			require.NoError(subTest, application.initializeConfiguration(rootCommand))

			require.Equal(subTest, testCase.expectedLogLevel, application.configuration.Common.LogLevel)
			require.Equal(subTest, testCase.expectedLogFormat, application.configuration.Common.LogFormat)
			require.Equal(subTest, testCase.expectedRemoteName, application.configuration.Publish.RemoteName)
			require.Equal(subTest, testCase.expectedDefaultBranch, application.configuration.Publish.DefaultBranch)
			require.Equal(subTest, testCase.expectedFallbackOwner, application.configuration.Publish.FallbackOwner)
			require.Equal(subTest, testCase.expectedRequestTimeout, application.configuration.Publish.RequestTimeout)
			require.Equal(subTest, testCase.expectedHumanReadable, application.humanReadableLoggingEnabled())
			require.NotNil(subTest, application.logger)
		})
	}
}

func TestInitializeConfigurationRejectsUnknownLogLevel(testInstance *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	require.NoError(testInstance, rootCommand.ParseFlags([]string{"--" + logLevelFlagNameConstant, "verbose"}))

	initializationError := application.initializeConfiguration(rootCommand)
	require.Error(testInstance, initializationError)
	require.Contains(testInstance, initializationError.Error(), "unsupported log level")
}

func TestExecuteMapsCancellationToOperationCancelled(testInstance *testing.T) {
	application := NewApplication()
	executor := &cancellingGitExecutor{}
	application.publishBuilder.GitExecutor = executor

	output := &bytes.Buffer{}
	application.rootCommand.SetArgs([]string{"--" + logFormatFlagNameConstant, "structured", "--" + logLevelFlagNameConstant, "error"})
	application.rootCommand.SetIn(strings.NewReader(""))
	application.rootCommand.SetOut(output)

	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	executionError := application.executeWithContext(executionContext)
	require.ErrorIs(testInstance, executionError, ErrOperationCancelled)
	require.Equal(testInstance, 1, executor.invocations)
	require.Empty(testInstance, output.String())
}
