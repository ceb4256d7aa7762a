// Package logger prints tagged, optionally colored status lines to stdout.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// colorEnabled reports whether stdout is an interactive terminal.
// Checked on every call so redirected stdout (tests, pipes) stays plain.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(color, s string) string {
	if !colorEnabled() {
		return s
	}
	return color + s + colorReset
}

func line(color, level, tag, msg string) {
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
		paint(colorGray, ts),
		paint(color, fmt.Sprintf("%-4s", level)),
		paint(colorBold, "["+tag+"]"),
		msg,
	)
}

// Info logs a neutral message.
func Info(tag, msg string) { line(colorCyan, "INFO", tag, msg) }

// Success logs a completed step.
func Success(tag, msg string) { line(colorGreen, "OK", tag, msg) }

// Warn logs a recoverable problem.
func Warn(tag, msg string) { line(colorYellow, "WARN", tag, msg) }

// Error logs a failure.
func Error(tag, msg string) { line(colorRed, "ERR", tag, msg) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	rule := strings.Repeat("_", 60)
	fmt.Fprintln(os.Stdout, paint(colorGray, rule))
	fmt.Fprintln(os.Stdout, paint(colorBold, "  bazaar-flipper ")+paint(colorCyan, version))
	fmt.Fprintln(os.Stdout, paint(colorGray, "  crafting profit scanner for the SkyBlock bazaar"))
	fmt.Fprintln(os.Stdout, paint(colorGray, rule))
}

// Section prints a heading for a block of Stats lines.
func Section(title string) {
	fmt.Fprintln(os.Stdout, paint(colorBold, "== "+title+" =="))
}

// Stats prints one aligned key/value statistic.
func Stats(key string, value int) {
	fmt.Fprintf(os.Stdout, "   %-22s %s\n", key+":", paint(colorCyan, humanize.Comma(int64(value))))
}

// Server announces the HTTP listen address.
func Server(addr string) {
	Success("HTTP", fmt.Sprintf("Listening on http://%s", addr))
}
