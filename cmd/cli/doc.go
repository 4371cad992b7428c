// Package cli assembles the repokeeper command hierarchy: shared
// configuration and logging setup plus the list, stats, remove, transfer,
// and duplicates subcommands.
package cli
