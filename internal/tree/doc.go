// Package tree renders a directory on a billy filesystem as a nested,
// lexicographically ordered listing for display after scaffolding.
package tree
