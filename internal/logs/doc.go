// Package logs locates run log files and reads them with bounded memory.
//
// It powers `orgsort logs`, which prints the tail of the newest run log and
// optionally follows it while a watch session keeps writing.
package logs
