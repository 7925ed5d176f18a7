// Package publish turns a local directory into a GitHub repository.
//
// A run checks that git is usable, asks the operator for a token, repository name, description,
// visibility and project path, initializes and commits the directory, creates the repository
// through the GitHub API and pushes the current branch. A name conflict on creation is recovered
// by reusing the existing repository; every other failure stops the run.
package publish
