package ui

import (
	"fmt"
	"sync"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═══════════════════════════════════════════════════════════════╗
    ║ ██████╗ ███████╗██████╗ ███████╗ ██████╗██████╗  █████╗ ██████╗ ║
    ║ ██╔══██╗██╔════╝██╔══██╗██╔════╝██╔════╝██╔══██╗██╔══██╗██╔══██╗║
    ║ ██████╔╝█████╗  ██║  ██║███████╗██║     ██████╔╝███████║██████╔╝║
    ║ ██╔══██╗██╔══╝  ██║  ██║╚════██║██║     ██╔══██╗██╔══██║██╔═══╝ ║
    ║ ██║  ██║███████╗██████╔╝███████║╚██████╗██║  ██║██║  ██║██║     ║
    ║ ╚═╝  ╚═╝╚══════╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ║
    ║            SCROLL-DRIVEN SUBREDDIT FEED EXTRACTOR               ║
    ╚═══════════════════════════════════════════════════════════════╝
`

// Output mode state shared by the whole ui package. Quiet suppresses
// everything except errors; progress-only keeps the progress line and
// essential info but drops the logo and decoration.
var (
	modeMu           sync.RWMutex
	quietMode        bool
	progressOnlyMode bool
	colorsDisabled   bool
)

// SetQuietMode suppresses all output except errors.
func SetQuietMode(enabled bool) {
	modeMu.Lock()
	defer modeMu.Unlock()
	quietMode = enabled
}

// IsQuietMode reports whether quiet mode is active.
func IsQuietMode() bool {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return quietMode
}

// SetProgressOnlyMode keeps progress output but drops decoration.
func SetProgressOnlyMode(enabled bool) {
	modeMu.Lock()
	defer modeMu.Unlock()
	progressOnlyMode = enabled
}

// IsProgressOnlyMode reports whether progress-only mode is active.
func IsProgressOnlyMode() bool {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return progressOnlyMode
}

// DisableColors strips ANSI codes from all subsequent output.
func DisableColors() {
	modeMu.Lock()
	defer modeMu.Unlock()
	colorsDisabled = true
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		modeMu.RLock()
		plain := colorsDisabled
		modeMu.RUnlock()
		if plain {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if IsQuietMode() || IsProgressOnlyMode() {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red. Errors print even in
// quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if IsQuietMode() || IsProgressOnlyMode() {
		return
	}
	fmt.Println(Magenta(msg))
}
