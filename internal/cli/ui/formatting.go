package ui

import (
	"fmt"
	"io"
)

// FormatStatus returns the icon, color and label for a run status.
func FormatStatus(status string) (icon, color, text string) {
	switch status {
	case "passed":
		return IconCheckmark, ColorGreen, "passed"
	case "failed":
		return IconCross, ColorRed, "failed"
	case "running":
		return IconPlay, ColorCyan, "running"
	default:
		return IconTime, ColorYellow, status
	}
}

func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ColorGreen+IconCheckmark+" "+format+ColorReset+"\n", args...)
}

func Failure(w io.Writer, msg string, err error) {
	if err == nil {
		fmt.Fprintln(w, ColorRed+IconCross+" "+msg+ColorReset)
		return
	}
	fmt.Fprintf(w, ColorRed+IconCross+" %s:"+ColorReset+" %v\n", msg, err)
}

// ClearScreen clears the terminal
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
