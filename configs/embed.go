// Package configs embeds the configuration file template written by
// `cjkfts config init` at ~/.config/cjkfts/config.yaml (or under
// $XDG_CONFIG_HOME).
//
// The template sets every key to its built-in default, with comments, so
// that a freshly created file changes nothing until it is edited.
// Configuration hierarchy (see internal/config Load):
//  1. Built-in defaults (internal/config NewConfig)
//  2. User config
//  3. --config file
//  4. Environment variables (CJKFTS_*)
package configs

import _ "embed"

// UserConfigTemplate is the commented user configuration.
//
//go:embed config.example.yaml
var UserConfigTemplate string
