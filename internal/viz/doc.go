// Package viz renders motors in the terminal.
//
// [Canvas] is a braille pixel canvas; [FitProjection] maps coil and magnet
// segments onto it in the xy plane. [Explorer] is a Bubble Tea model that
// turns the rotor and the drive vector from the keyboard and recomputes the
// torque in the background:
//
//	←/→  rotor angle
//	↑/↓  drive vector angle
//	+/-  drive current
//	r    reset
//	c    clear torque history
//	q    quit
package viz
