// Package removal takes repositories out of an account: owned repositories
// are deleted, collaborations are left. The role is re-checked against the
// platform immediately before each destructive call.
package removal
