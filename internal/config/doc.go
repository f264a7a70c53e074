// Package config loads and validates server configuration.
//
// Precedence is defaults, then an optional JSON or YAML file, then FLOWFI_*
// environment variables. Validation happens once after all layers are
// applied, so a bad file value can still be corrected from the environment.
package config
