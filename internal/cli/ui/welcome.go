package ui

import (
	"fmt"
	"io"
	"os"
)

// PrintWelcome prints the logo, the browser in use and the command list.
func PrintWelcome(w io.Writer, browserName string) {
	logoBytes, err := os.ReadFile("logo.txt")
	if err == nil {
		fmt.Fprintln(w, ColorCyan+string(logoBytes)+ColorReset)
	}
	fmt.Fprintln(w, ColorBold+IconTarget+" pageobject shell"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Probe selectors against a live page. Browser: "+browserName+ColorReset)
	fmt.Fprintln(w)
	PrintHelp(w)
	fmt.Fprintln(w, ColorGray+"⬆️ ⬇️"+ColorReset+" Use the arrow keys to browse command history")
	fmt.Fprintln(w)
}

func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, ColorYellow+IconList+" Commands:"+ColorReset)
	fmt.Fprintln(w, "  "+ColorGreen+"open"+ColorReset+" <url>          - Navigate to a URL")
	fmt.Fprintln(w, "  "+ColorGreen+"css"+ColorReset+" <selector>      - Find elements by CSS and target the first")
	fmt.Fprintln(w, "  "+ColorGreen+"xpath"+ColorReset+" <expr>        - Find elements by XPath and target the first")
	fmt.Fprintln(w, "  "+ColorGreen+"text"+ColorReset+"                - Text of the target")
	fmt.Fprintln(w, "  "+ColorGreen+"own"+ColorReset+"                 - Own text of the target, without children")
	fmt.Fprintln(w, "  "+ColorGreen+"attr"+ColorReset+" <name>         - Attribute of the target")
	fmt.Fprintln(w, "  "+ColorGreen+"click"+ColorReset+"               - Click the target")
	fmt.Fprintln(w, "  "+ColorGreen+"screenshot"+ColorReset+" <name>   - Save a screenshot")
	fmt.Fprintln(w, "  "+ColorGreen+"runs"+ColorReset+"                - Recorded runs")
	fmt.Fprintln(w, "  "+ColorGreen+"run"+ColorReset+" <id>            - Interactions of a run")
	fmt.Fprintln(w, "  "+ColorGreen+"clear"+ColorReset+"               - Clear the screen")
	fmt.Fprintln(w, "  "+ColorGreen+"exit"+ColorReset+"                - Quit")
	fmt.Fprintln(w)
}
