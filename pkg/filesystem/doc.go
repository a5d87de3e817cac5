// Package filesystem provides filesystem implementations for aka.
//
// This package contains implementations of the types.FS interface:
// the OS filesystem used at runtime and an afero-backed one used by tests
// that need deterministic directory trees and modification times.
package filesystem
