// Package viz renders recorded runs in the terminal: braille dot canvases
// for xy trajectories and asciigraph line plots for scalar series such as
// the relative energy error.
package viz
