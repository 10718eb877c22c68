package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"orgsort/internal/audit"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderStatus(status audit.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	if color := statusColor(status); color != "" {
		return color + label + ansiReset
	}
	return label
}

func statusColor(status audit.Status) string {
	switch status {
	case audit.StatusSuccess:
		return ansiGreen
	case audit.StatusSkipped:
		return ansiYellow
	case audit.StatusFailed:
		return ansiRed
	case audit.StatusFiltered:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
