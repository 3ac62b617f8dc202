// Package constants provides shared constants used throughout the tablespec codebase.
// The layout defaults are expressed in logical units (points) and are divided by
// the document scale factor before use.
package constants

// Layout defaults
const (
	// ContinuationGap is the vertical gap left between a table and the previous
	// table it continues below on the same page
	ContinuationGap = 20.0

	// DefaultMargin is the inset used on every side when no margin is given
	DefaultMargin = 40.0

	// DefaultTableLineWidth is the outer table border width (0 draws no border)
	DefaultTableLineWidth = 0.0

	// DefaultTableLineColor is the outer table border grey level
	DefaultTableLineColor = 200

	// DefaultScaleFactor is used when a document reports a non-positive scale factor
	DefaultScaleFactor = 1.0
)

// ElementField is the reserved row field carrying the element a markup-sourced
// row was scraped from. It never becomes a column.
const ElementField = "_element"

// FilePermissions is the permission for created log files (rw-r--r--)
const FilePermissions = 0644

// Application constants
const (
	// AppName is the CLI binary name
	AppName = "tablespec"

	// ConfigFileName is the config file name searched in $HOME and the working directory
	ConfigFileName = ".tablespec"

	// EnvPrefix is the environment variable prefix read by the CLI
	EnvPrefix = "TABLESPEC"
)
