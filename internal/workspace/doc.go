// Package workspace resolves a monorepo root and scans its package directories.
// Scan returns one Package per directory under the packages dir that holds a
// manifest, with the manifest already parsed.
package workspace
