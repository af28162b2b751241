// Package viz provides a terminal live view of a running network.
//
// [Model] is a Bubble Tea program model that steps a network graph on every
// frame and plots each probe channel with asciigraph.
//
// # Key Bindings
//
//	Space/P - Pause/Resume simulation
//	R       - Rebuild the network and start over
//	+/-     - Double/halve steps per frame
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q       - Quit
package viz
