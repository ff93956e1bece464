// Package config loads and validates scorevault configuration.
//
// Configuration lives in a TOML file (default ~/.config/scorevault/config.toml)
// and supplies the library root for sheet-music assets, the catalog database
// path, the identity salt for public file identifiers, the daemon socket, and
// logging options. A commented sample config is embedded for `scorevault
// config init`. Missing files fall back to defaults; validation rejects
// configurations the daemon cannot safely run with.
package config
