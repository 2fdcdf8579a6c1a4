// Package config holds the dirtwin configuration: defaults, the flat
// Config struct populated from CLI flags, validation, the optional
// .dirtwin YAML file with per-root profiles, and the XDG directory
// helpers.
//
// Design decision: Configuration is passed explicitly through the
// application via dependency injection rather than global state. There are
// no singletons; each component receives the values it needs at
// construction time.
package config
