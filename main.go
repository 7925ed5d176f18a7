package main

import (
	"fmt"
	"os"

	"github.com/temirov/ghpublish/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main publishes the current project as a GitHub repository and exits with status 1 on any failure.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
