package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"pageObject/internal/cli/commands"
	"pageObject/internal/cli/ui"
	"pageObject/internal/component"
	"pageObject/internal/logger"
	"pageObject/internal/recording"
	"pageObject/internal/selector"
)

type CLI struct {
	session *component.Session
	log     *logger.Zap
	out     io.Writer
	in      *bufio.Reader
	rl      *readline.Instance

	browserName  string
	probeHandler *commands.ProbeHandler
	runsHandler  *commands.RunsHandler
}

func New(session *component.Session, store recording.Store, log *logger.Zap, browserName string) *CLI {
	cli := newCLI(session, store, log, os.Stdout)
	cli.browserName = browserName

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "po> ",
		HistoryFile:     ".pageobject-history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("readline unavailable, falling back to plain input")
	} else {
		cli.rl = rl
	}
	return cli
}

func newCLI(session *component.Session, store recording.Store, log *logger.Zap, out io.Writer) *CLI {
	return &CLI{
		session:      session,
		log:          log,
		out:          out,
		in:           bufio.NewReader(os.Stdin),
		probeHandler: commands.NewProbeHandler(session, log.Logger, out),
		runsHandler:  commands.NewRunsHandler(store, log.Logger, out),
	}
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	fmt.Fprint(c.out, ui.ColorCyan+"po> "+ui.ColorReset)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) closeReadline() {
	if c.rl != nil {
		c.rl.Close()
	}
}

// Run reads commands until exit, EOF or ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome(c.out, c.browserName)
	defer c.closeReadline()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\n"+ui.ColorCyan+ui.IconWave+" Shutting down..."+ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !c.handleCommand(ctx, line) {
			return
		}
	}
}

// splitCommand splits a line into the command word and the rest, trimmed.
func splitCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// handleCommand runs one line and reports whether the shell keeps going.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	cmd, arg := splitCommand(line)
	switch {
	case cmd == "exit" || cmd == "quit":
		fmt.Fprintln(c.out, ui.ColorCyan+ui.IconWave+" Bye!"+ui.ColorReset)
		return false

	case cmd == "clear":
		ui.ClearScreen(c.out)

	case cmd == "open" && arg != "":
		c.probeHandler.Open(ctx, arg)

	case cmd == "css" && arg != "":
		c.probeHandler.Find(ctx, selector.CSS.Raw(arg))

	case cmd == "xpath" && arg != "":
		c.probeHandler.Find(ctx, selector.XPath.Raw(arg))

	case cmd == "text":
		c.probeHandler.Text(ctx)

	case cmd == "own":
		c.probeHandler.OwnText(ctx)

	case cmd == "attr" && arg != "":
		c.probeHandler.Attr(ctx, arg)

	case cmd == "click":
		c.probeHandler.Click(ctx)

	case cmd == "screenshot":
		if arg == "" {
			arg = "shell"
		}
		c.probeHandler.Screenshot(ctx, arg)

	case cmd == "runs":
		c.runsHandler.List(ctx)

	case cmd == "run" && arg != "":
		c.runsHandler.Show(ctx, arg)

	default:
		ui.PrintHelp(c.out)
	}
	return true
}
