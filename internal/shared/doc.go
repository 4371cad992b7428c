// Package shared defines the domain types exchanged between repokeeper
// components: repository snapshots, account handles, transfer plans,
// per-item operation outcomes, and confirmation policies.
package shared
