// Package alias derives organization aliases from target directory names and
// classifies file names against them.
//
// Normalize strips numeric ordering prefixes ("2.", "4、") and "原：" rename
// annotations from a directory name. Build lists the immediate subdirectories
// of the target root and produces a read-only Table whose match order is
// longest alias first, so a short alias contained in a longer one never
// pre-empts it.
package alias
