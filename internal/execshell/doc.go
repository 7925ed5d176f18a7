// Package execshell runs the git binary on behalf of ghpublish.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and converts
// non-zero exit codes into CommandFailedError. OSCommandRunner is the default
// runner backed by os/exec, and CommandMessageFormatter renders the
// human-readable sentences used in console logging mode.
package execshell
