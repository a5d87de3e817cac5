// Package paths provides centralized path handling for aka.
//
// aka keeps two user files in the profile directory, next to each other:
//
//   - .alias     the alias configuration (line-oriented directive language)
//   - .alias.db  the resolution cache (embedded SQLite)
//
// Launcher settings follow the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/aka/aka.toml
//   - State:  $XDG_STATE_HOME/aka (log file)
//
// # Environment Variables
//
//   - AKA_PROFILE_DIR: override the profile directory (default: the user's home)
//   - AKA_CONFIG_DIR: override the settings directory
package paths
