// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and defines the abstractions repokeeper
// uses to run git in a testable manner. Credentials embedded in remote URLs
// are redacted before any argument reaches log output.
package execshell
