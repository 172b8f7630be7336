// Package confloader loads dictcore configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults already present in the target struct
//  2. A YAML configuration file
//  3. Environment variables (DICTCORE_SECTION_KEY)
//  4. Command-line flags, passed in as a map
//
// Watcher reports changes to the configuration file so long-running
// commands can pick up a new log level.
package confloader
