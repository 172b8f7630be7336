// Package output renders command results for dictcore-cli.
//
// Results are rendered as an aligned table (the default), JSON or YAML.
// Tables are built from structs, slices of structs and maps; struct fields
// tagged `table:"wide"` only appear with --wide, and `table:"-"` never.
//
// ProgressBar reports the progress of a benchmark run on stderr.
package output
