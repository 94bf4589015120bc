// Package viz renders three-body simulations in the terminal using the
// Bubble Tea framework.
//
//   - [LiveModel]: interactive mode, driving a live.Loop from ticks
//   - [PlaybackModel]: 3D replay of a recorded trajectory
//   - [Canvas]: braille pixel canvas with one color per body
//
// # Key Bindings
//
//	W/S A/D I/K - Push the controlled body along y, x and z (live)
//	Space       - Pause/Resume
//	R           - Reset (live) or restart (playback)
//	X/Y/Z       - Rotate the camera (playback)
//	[ ]         - Seek (playback)
package viz
