// Package config holds all configuration for pinzine.
//
// Configuration comes from three layers, later layers overriding
// earlier ones:
//  1. Compile-time defaults (NewConfig)
//  2. The .pinzine YAML file, discovered in the current directory and
//     then the user's home directory (LoadFile / FindFile)
//  3. Command-line flags, applied by the cmd package
//
// The Config struct is passed through the application by dependency
// injection; there is no package-level state.
package config
