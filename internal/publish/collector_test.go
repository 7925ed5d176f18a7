package publish_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghpublish/internal/filesystem"
	"github.com/temirov/ghpublish/internal/publish"
	pathutils "github.com/temirov/ghpublish/internal/utils/path"
)

const (
	testTokenConstant              = "ghp_collector_token"
	testRepositoryNameConstant     = "site"
	testDescriptionConstant        = "Personal site"
	testProjectDirectoryConstant   = "project"
	testRegularFileNameConstant    = "README.md"
	testMissingDirectoryConstant   = "missing"
	testInvalidVisibilityMessage   = "Invalid option. Enter 'public' or 'private'."
	testConfigurationHeaderMessage = "GitHub repository configuration"
)

type stubFileSystem struct {
	filesystem.OSFileSystem
	workingDirectory      string
	workingDirectoryError error
	chdirFailures         map[string]error
	changedDirectories    []string
}

func (fileSystem *stubFileSystem) Getwd() (string, error) {
	if fileSystem.workingDirectoryError != nil {
		return "", fileSystem.workingDirectoryError
	}
	return fileSystem.workingDirectory, nil
}

func (fileSystem *stubFileSystem) Chdir(path string) error {
	fileSystem.changedDirectories = append(fileSystem.changedDirectories, path)
	if failure, exists := fileSystem.chdirFailures[path]; exists {
		return failure
	}
	fileSystem.workingDirectory = path
	return nil
}

type stubSecretReader struct {
	available bool
	secret    string
	reads     int
}

func (reader *stubSecretReader) Available() bool {
	return reader.available
}

func (reader *stubSecretReader) ReadSecret(executionContext context.Context) (string, error) {
	reader.reads++
	return reader.secret, nil
}

func newTestCollector(testInstance *testing.T, input io.Reader, output io.Writer, workingDirectory string, secretReader publish.SecretReader) *publish.Collector {
	testInstance.Helper()
	collector, creationError := publish.NewCollector(publish.CollectorDependencies{
		Prompter:     publish.NewIOPrompter(input, output, secretReader),
		FileSystem:   &stubFileSystem{workingDirectory: workingDirectory},
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) { return workingDirectory, nil }),
	})
	require.NoError(testInstance, creationError)
	return collector
}

func answers(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestNewCollectorRequiresPrompter(testInstance *testing.T) {
	collector, creationError := publish.NewCollector(publish.CollectorDependencies{})
	require.Nil(testInstance, collector)
	require.ErrorIs(testInstance, creationError, publish.ErrPrompterNotConfigured)
}

func TestCollectorCollectReturnsEnteredAnswers(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	projectDirectory := filepath.Join(workingDirectory, testProjectDirectoryConstant)
	require.NoError(testInstance, os.Mkdir(projectDirectory, 0o755))

	testCases := []struct {
		name                  string
		input                 string
		expectedConfiguration publish.Configuration
		expectedInvalidCount  int
	}{
		{
			name:  "explicit_answers",
			input: answers(testTokenConstant, testRepositoryNameConstant, testDescriptionConstant, "private", projectDirectory),
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Description:    testDescriptionConstant,
				Visibility:     publish.VisibilityPrivate,
				ProjectPath:    projectDirectory,
			},
		},
		{
			name:  "defaults_for_optional_answers",
			input: answers(testTokenConstant, testRepositoryNameConstant, "", "", ""),
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Visibility:     publish.VisibilityPublic,
				ProjectPath:    workingDirectory,
			},
		},
		{
			name:  "spanish_synonym_and_relative_path",
			input: answers(testTokenConstant, testRepositoryNameConstant, "", "Privado", testProjectDirectoryConstant),
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Visibility:     publish.VisibilityPrivate,
				ProjectPath:    projectDirectory,
			},
		},
		{
			name:  "home_relative_path",
			input: answers(testTokenConstant, testRepositoryNameConstant, "", "público", "~/"+testProjectDirectoryConstant),
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Visibility:     publish.VisibilityPublic,
				ProjectPath:    projectDirectory,
			},
		},
		{
			name:  "invalid_visibility_is_asked_again",
			input: answers(testTokenConstant, testRepositoryNameConstant, "", "secret", "internal", " PUBLICO ", ""),
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Visibility:     publish.VisibilityPublic,
				ProjectPath:    workingDirectory,
			},
			expectedInvalidCount: 2,
		},
		{
			name:  "closed_input_after_required_answers",
			input: testTokenConstant + "\n" + testRepositoryNameConstant,
			expectedConfiguration: publish.Configuration{
				Token:          testTokenConstant,
				RepositoryName: testRepositoryNameConstant,
				Visibility:     publish.VisibilityPublic,
				ProjectPath:    workingDirectory,
			},
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			output := &bytes.Buffer{}
			collector := newTestCollector(subTest, strings.NewReader(testCase.input), output, workingDirectory, nil)

			configuration, collectError := collector.Collect(context.Background())
			require.NoError(subTest, collectError)
			require.Equal(subTest, testCase.expectedConfiguration, configuration)
			require.Equal(subTest, testCase.expectedInvalidCount, strings.Count(output.String(), testInvalidVisibilityMessage))
			require.True(subTest, strings.HasPrefix(output.String(), testConfigurationHeaderMessage))
		})
	}
}

func TestCollectorCollectRejectsInvalidAnswers(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	regularFile := filepath.Join(workingDirectory, testRegularFileNameConstant)
	require.NoError(testInstance, os.WriteFile(regularFile, []byte("# site\n"), 0o644))
	missingDirectory := filepath.Join(workingDirectory, testMissingDirectoryConstant)

	testCases := []struct {
		name          string
		input         string
		expectedError error
		expectedPath  string
	}{
		{
			name:          "empty_token",
			input:         answers("", testRepositoryNameConstant),
			expectedError: publish.ErrTokenRequired,
		},
		{
			name:          "no_input",
			input:         "",
			expectedError: publish.ErrInputClosed,
		},
		{
			name:          "empty_repository_name",
			input:         answers(testTokenConstant, "   "),
			expectedError: publish.ErrRepositoryNameRequired,
		},
		{
			name:          "input_closed_before_repository_name",
			input:         answers(testTokenConstant),
			expectedError: publish.ErrInputClosed,
		},
		{
			name:         "missing_project_path",
			input:        answers(testTokenConstant, testRepositoryNameConstant, "", "", missingDirectory),
			expectedPath: missingDirectory,
		},
		{
			name:         "project_path_is_file",
			input:        answers(testTokenConstant, testRepositoryNameConstant, "", "", regularFile),
			expectedPath: regularFile,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			collector := newTestCollector(subTest, strings.NewReader(testCase.input), io.Discard, workingDirectory, nil)

			_, collectError := collector.Collect(context.Background())
			require.Error(subTest, collectError)
			if testCase.expectedError != nil {
				require.ErrorIs(subTest, collectError, testCase.expectedError)
				return
			}

			var pathError publish.ProjectPathError
			require.True(subTest, errors.As(collectError, &pathError))
			require.Equal(subTest, testCase.expectedPath, pathError.Path)
		})
	}
}

func TestCollectorReadsTokenThroughSecretReader(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	secretReader := &stubSecretReader{available: true, secret: "  " + testTokenConstant + "  "}
	output := &bytes.Buffer{}
	collector := newTestCollector(testInstance, strings.NewReader(answers(testRepositoryNameConstant, "", "", "")), output, workingDirectory, secretReader)

	configuration, collectError := collector.Collect(context.Background())
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, testTokenConstant, configuration.Token)
	require.Equal(testInstance, testRepositoryNameConstant, configuration.RepositoryName)
	require.Equal(testInstance, 1, secretReader.reads)
	require.NotContains(testInstance, output.String(), testTokenConstant)
}

func TestCollectorFallsBackToLineInputWithoutTerminal(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	secretReader := &stubSecretReader{available: false, secret: "unused"}
	collector := newTestCollector(testInstance, strings.NewReader(answers(testTokenConstant, testRepositoryNameConstant)), io.Discard, workingDirectory, secretReader)

	configuration, collectError := collector.Collect(context.Background())
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, testTokenConstant, configuration.Token)
	require.Zero(testInstance, secretReader.reads)
}

func TestCollectorStopsWhenContextCancelled(testInstance *testing.T) {
	pipeReader, pipeWriter := io.Pipe()
	testInstance.Cleanup(func() { _ = pipeWriter.Close() })

	collector := newTestCollector(testInstance, pipeReader, io.Discard, testInstance.TempDir(), nil)
	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, collectError := collector.Collect(executionContext)
	require.ErrorIs(testInstance, collectError, context.Canceled)
}

func TestParseVisibility(testInstance *testing.T) {
	testCases := []struct {
		answer             string
		expectedVisibility publish.Visibility
		expectedKnown      bool
	}{
		{answer: "", expectedVisibility: publish.VisibilityPublic, expectedKnown: true},
		{answer: "public", expectedVisibility: publish.VisibilityPublic, expectedKnown: true},
		{answer: "Publico", expectedVisibility: publish.VisibilityPublic, expectedKnown: true},
		{answer: "PÚBLICO", expectedVisibility: publish.VisibilityPublic, expectedKnown: true},
		{answer: " private ", expectedVisibility: publish.VisibilityPrivate, expectedKnown: true},
		{answer: "privado", expectedVisibility: publish.VisibilityPrivate, expectedKnown: true},
		{answer: "internal", expectedKnown: false},
	}

	for _, testCase := range testCases {
		visibility, known := publish.ParseVisibility(testCase.answer)
		require.Equal(testInstance, testCase.expectedKnown, known, testCase.answer)
		if testCase.expectedKnown {
			require.Equal(testInstance, testCase.expectedVisibility, visibility, testCase.answer)
		}
	}
	require.True(testInstance, publish.VisibilityPrivate.IsPrivate())
	require.False(testInstance, publish.VisibilityPublic.IsPrivate())
}
