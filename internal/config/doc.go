// Package config defines the dictcore-cli configuration structure.
//
// Configuration is layered: Default() values, then the YAML file, then
// DICTCORE_* environment variables, then command-line flags.
//
// Example file:
//
//	log:
//	  level: info
//	  format: text
//	dict:
//	  initial_capacity: 0
//	bench:
//	  keys: 100000
//	  ops_per_sec: 0
//	  timeout: 5m
//	metrics:
//	  enabled: false
//	  addr: 127.0.0.1:9464
package config
