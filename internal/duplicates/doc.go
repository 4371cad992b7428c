// Package duplicates finds repositories that exist under the same name in
// two accounts and reconciles them by removing the source account's copy.
// Name equality after trimming and lowercasing is the only matching rule,
// so confirmation guards every removal.
package duplicates
