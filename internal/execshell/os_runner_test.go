package execshell_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghpublish/internal/execshell"
)

func TestOSCommandRunnerReportsExitCodes(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(string(execshell.CommandGit)); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	testInstance.Setenv("GIT_CEILING_DIRECTORIES", "/")

	testCases := []struct {
		name             string
		arguments        []string
		expectedExitCode int
		expectOutput     bool
	}{
		{
			name:             "version",
			arguments:        []string{"--version"},
			expectedExitCode: 0,
			expectOutput:     true,
		},
		{
			name:             "status_outside_repository",
			arguments:        []string{"status", "--porcelain"},
			expectedExitCode: 128,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := execshell.NewOSCommandRunner()
			result, runError := runner.Run(context.Background(), execshell.ShellCommand{
				Name: execshell.CommandGit,
				Details: execshell.CommandDetails{
					Arguments:        testCase.arguments,
					WorkingDirectory: testInstance.TempDir(),
				},
			})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedExitCode, result.ExitCode)
			if testCase.expectOutput {
				require.Contains(testInstance, result.StandardOutput, "git version")
			}
		})
	}
}

func TestOSCommandRunnerHonorsCancelledContext(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(string(execshell.CommandGit)); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(cancelledContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"--version"}},
	})
	require.ErrorIs(testInstance, runError, context.Canceled)
}
