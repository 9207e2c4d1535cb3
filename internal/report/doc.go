// Package report handles parsing and writing of update reports.
// A report records which internal dependencies a run rewrote, from which
// specifier to which, so a release can be audited after the fact.
package report
