// Package gitrepo drives the git operations needed to publish a local
// directory: installation check, repository initialization, staging and
// committing, branch resolution, remote configuration and push.
//
// RepositoryManager shells out to git through an execshell-compatible
// executor and uses go-git to detect existing repositories. RemoteURL
// helpers parse and format HTTPS and SSH clone URLs.
package gitrepo
