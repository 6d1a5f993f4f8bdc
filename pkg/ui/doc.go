// Package ui renders the user-facing side of a run: the per-file
// "Downloaded:" lines, the final count and the interactive username prompt.
//
// Colours are on only when stdout is a terminal and the configuration
// allows them. Structured logs never go through this package.
package ui
