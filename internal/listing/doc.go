// Package listing enumerates an account's repositories and renders them as
// terminal tables.
package listing
