// Package config reads and writes the bookfinder YAML configuration file.
//
// A missing file is not an error: Load returns Default(). Keys absent from
// the file keep their default values.
package config
