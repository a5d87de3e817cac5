// Package guard bounds alias chains and repairs self-referential
// resolutions.
//
// The depth of the current chain travels in the AKA_DEPTH variable of the
// environment block handed to each spawned child; nothing in this process's
// own environment is mutated.
package guard
