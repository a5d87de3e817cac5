// Package config loads the launcher's own settings. It is unrelated to the
// alias file, which is parsed by package directive.
//
// Settings are layered with koanf: embedded defaults, then the optional
// settings file, then AKA_* environment variables. A double underscore in an
// environment variable name separates sections, so AKA_RELAY__CHUNK_SIZE
// sets relay.chunk_size.
package config
