// Package viz renders trajectories and sweep progress in the terminal.
//
//   - [Plot]: asciigraph line chart of several species over minutes
//   - [Summary]: lipgloss table of sampled concentrations with sparklines
//   - [Progress]: Bubble Tea model tracking a running sweep
//
// # Key Bindings (Progress)
//
//	q, ctrl+c - stop waiting and cancel the remaining cases
package viz
