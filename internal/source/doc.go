// Package source holds the current-carrying bodies of a motor model.
//
//   - [Coil]: a helical stator winding whose current is set by the phase
//     controller
//   - [Dipole]: one closed current loop, the elementary magnet
//   - [Magnet]: a volumetric lattice of dipoles approximating one pole
//
// Geometry is generated once at construction. A coil only changes its
// scalar current afterwards; a magnet only changes by regenerating its whole
// lattice. None of these types is safe for concurrent mutation; the motor
// package serializes writers against readers.
package source
