// Package cli implements the habitmosaic command-line interface.
//
// Chains live in the store named by the config file; rendered layouts and
// artifacts are cached per the [cache] section. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - chain: Create, list, edit and toggle habit chains, import and export them
//   - render: Render a chain's month (or whole year) to SVG, PNG or JSON
//   - mosaic: Render a blank month of N days, useful for previewing layouts
//   - serve: Run the HTTP API
//   - tui: Toggle days interactively in the terminal
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli
