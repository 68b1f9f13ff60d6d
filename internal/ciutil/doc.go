// Package ciutil detects the execution environment (CI or local) and locates
// the project root. Tests and the migration command use it so that paths and
// database settings resolve the same way on a laptop and in CI.
package ciutil
