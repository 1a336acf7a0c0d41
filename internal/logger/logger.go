// Package logger provides the small, tagged console logger used during
// Catalog/PriceIndex construction and by cmd/planroute. Colorized when
// stdout is a terminal.
package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

const (
	colorReset  = "\033[0m"
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

func colorize(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

func line(tagColor, level, tag, msg string) {
	fmt.Printf("%s %s %s\n", colorize(tagColor, "["+tag+"]"), level, msg)
}

// Info logs a neutral status message.
func Info(tag, msg string) {
	line(colorBlue, "INFO ", tag, msg)
}

// Success logs a completed-action message.
func Success(tag, msg string) {
	line(colorGreen, "OK   ", tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(colorYellow, "WARN ", tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(colorRed, "ERROR", tag, msg)
}

// Banner prints the startup banner with the given version string.
func Banner(version string) {
	title := "tradewinds"
	if version != "" {
		title += " " + version
	}
	fmt.Println(colorize(colorBold, title))
}

// Section prints a section header, used to delimit load phases.
func Section(title string) {
	fmt.Println()
	fmt.Println(colorize(colorBold, "== "+title+" =="))
}

// Stats prints a "key: n" statistics line under a Section.
func Stats(key string, n int) {
	fmt.Printf("  %-16s %d\n", key+":", n)
}
