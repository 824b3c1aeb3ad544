package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"pageObject/internal/cli/ui"
	"pageObject/internal/recording"
)

// RunsHandler prints recorded runs.
type RunsHandler struct {
	store recording.Store
	log   *zap.Logger
	out   io.Writer
}

func NewRunsHandler(store recording.Store, log *zap.Logger, out io.Writer) *RunsHandler {
	return &RunsHandler{store: store, log: log, out: out}
}

// List prints the latest runs
func (h *RunsHandler) List(ctx context.Context) {
	runs, err := h.store.ListRuns(ctx, 20, 0)
	if err != nil {
		h.log.Error("list runs", zap.Error(err))
		ui.Failure(h.out, "Could not list runs", err)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"No runs recorded"+ui.ColorReset)
		return
	}
	for _, run := range runs {
		icon, color, text := ui.FormatStatus(run.Status)
		fmt.Fprintf(h.out, "%s%s #%d"+ui.ColorReset+" %s "+ui.ColorGray+"(%s, %s, %s)"+ui.ColorReset+"\n",
			color, icon, run.ID, run.Name, run.Browser, text, run.StartedAt.Format("2006-01-02 15:04:05"))
	}
}

// Show prints a run with its interactions
func (h *RunsHandler) Show(ctx context.Context, idStr string) {
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		ui.Failure(h.out, "Invalid run id", nil)
		return
	}
	run, err := h.store.GetRun(ctx, uint(id))
	if errors.Is(err, recording.ErrNotFound) {
		ui.Failure(h.out, "Run not found", nil)
		return
	}
	if err != nil {
		ui.Failure(h.out, "Could not load run", err)
		return
	}

	_, color, statusText := ui.FormatStatus(run.Status)
	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== Run #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+"Name:"+ui.ColorReset+" %s\n", run.Name)
	fmt.Fprintf(h.out, ui.ColorCyan+"Status:"+ui.ColorReset+" %s%s"+ui.ColorReset+"\n", color, statusText)
	if run.Error != "" {
		fmt.Fprintf(h.out, ui.ColorRed+"Error:"+ui.ColorReset+" %s\n", run.Error)
	}

	ins, err := h.store.ListInteractions(ctx, run.ID)
	if err != nil {
		h.log.Error("list interactions", zap.Uint("run", run.ID), zap.Error(err))
		ui.Failure(h.out, "Could not load interactions", err)
		return
	}
	for _, in := range ins {
		fmt.Fprintf(h.out, ui.ColorGray+"[%s]"+ui.ColorReset+" "+ui.ColorCyan+"%s"+ui.ColorReset, in.At.Format("15:04:05.000"), in.Type)
		if in.Component != "" {
			fmt.Fprintf(h.out, " %s", in.Component)
		}
		if in.Selector != "" {
			fmt.Fprintf(h.out, " → "+ui.ColorYellow+"%s"+ui.ColorReset, in.Selector)
		}
		if in.Text != "" {
			fmt.Fprintf(h.out, " %q", in.Text)
		}
		if in.Screenshot != "" {
			fmt.Fprintf(h.out, " "+ui.IconCamera+" %s", in.Screenshot)
		}
		fmt.Fprintln(h.out)
	}
	fmt.Fprintln(h.out)
}
