// Package stats folds repository listings and profile figures into account
// reports suitable for YAML output.
package stats
