// Package report renders aggregated rows as a LaTeX table.
//
// One row is printed per (experiment, property). Times are shown in the
// configured unit and every value that was never observed is printed as
// Missing. With Options.Solutions the winning-set sizes of the family variant
// are appended as two extra columns.
package report
