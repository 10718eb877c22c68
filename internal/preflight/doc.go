// Package preflight provides readiness checks for the directories a run
// depends on.
//
// The CLI "orgsort config validate" command runs every check and prints the
// results. Checks never create the source or target roots.
package preflight
