// Package githubauth resolves GitHub authentication tokens from environment
// variables and token source declarations (env: or file:). Tokens are held
// in memory only.
package githubauth
