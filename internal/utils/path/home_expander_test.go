package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/ghpublish/internal/utils/path"
)

const (
	testHomeDirectoryConstant    = "/home/octocat"
	testBaseDirectoryConstant    = "/workspace"
	testProjectDirectoryConstant = "site"
)

func TestHomeExpanderResolve(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provider      pathutils.HomeDirectoryProvider
		candidatePath string
		expectedPath  string
	}{
		{
			name:          "empty_uses_base_directory",
			candidatePath: "   ",
			expectedPath:  testBaseDirectoryConstant,
		},
		{
			name:          "tilde_only",
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          "tilde_prefix",
			candidatePath: "~/" + testProjectDirectoryConstant,
			expectedPath:  filepath.Join(testHomeDirectoryConstant, testProjectDirectoryConstant),
		},
		{
			name:          "relative_path",
			candidatePath: testProjectDirectoryConstant,
			expectedPath:  filepath.Join(testBaseDirectoryConstant, testProjectDirectoryConstant),
		},
		{
			name:          "absolute_path",
			candidatePath: "/srv/" + testProjectDirectoryConstant + "/",
			expectedPath:  "/srv/" + testProjectDirectoryConstant,
		},
		{
			name: "home_lookup_failure_keeps_tilde",
			provider: func() (string, error) {
				return "", errors.New("no home")
			},
			candidatePath: "~/" + testProjectDirectoryConstant,
			expectedPath:  filepath.Join(testBaseDirectoryConstant, "~", testProjectDirectoryConstant),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			provider := testCase.provider
			if provider == nil {
				provider = func() (string, error) { return testHomeDirectoryConstant, nil }
			}
			expander := pathutils.NewHomeExpanderWithProvider(provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Resolve(testBaseDirectoryConstant, testCase.candidatePath))
		})
	}
}
