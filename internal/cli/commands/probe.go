package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"pageObject/internal/cli/ui"
	"pageObject/internal/component"
	"pageObject/internal/selector"
)

// maxListed caps how many matches a lookup prints.
const maxListed = 10

// ProbeHandler runs selectors against the current page of a session.
type ProbeHandler struct {
	session *component.Session
	log     *zap.Logger
	out     io.Writer
	target  *component.Generic
}

func NewProbeHandler(session *component.Session, log *zap.Logger, out io.Writer) *ProbeHandler {
	return &ProbeHandler{session: session, log: log, out: out}
}

// Target returns the component the last lookup selected, or nil.
func (h *ProbeHandler) Target() *component.Generic { return h.target }

func (h *ProbeHandler) Open(ctx context.Context, url string) {
	if !strings.Contains(url, "://") && url != "about:blank" {
		url = "https://" + url
	}
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconArrow+" Opening %s..."+ui.ColorReset+"\n", url)
	if err := h.session.Open(ctx, url); err != nil {
		ui.Failure(h.out, "Navigation failed", err)
		return
	}
	h.target = nil
	title, err := h.session.Page().Title(ctx)
	if err != nil {
		h.log.Debug("read title", zap.Error(err))
	}
	ui.Success(h.out, "Opened: %s", title)
}

// Find lists the elements sel matches and targets the first one.
func (h *ProbeHandler) Find(ctx context.Context, sel selector.Selector) {
	page := h.session.Page()
	coll := component.NewCollection(page, sel, func(c *component.Component) *component.Generic {
		return &component.Generic{Component: c}
	})

	texts, err := coll.Texts(ctx)
	if err != nil {
		ui.Failure(h.out, "Lookup failed", err)
		return
	}
	if len(texts) == 0 {
		h.target = nil
		ui.Failure(h.out, "No match for "+sel.String(), nil)
		return
	}

	h.target = component.NewGeneric(page, sel)
	ui.Success(h.out, "%d match(es) for %s", len(texts), sel.String())
	for i, text := range texts {
		if i == maxListed {
			fmt.Fprintf(h.out, ui.ColorGray+"  ... %d more"+ui.ColorReset+"\n", len(texts)-maxListed)
			break
		}
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"[%d]"+ui.ColorReset+" %s\n", i, text)
	}
}

func (h *ProbeHandler) needTarget() bool {
	if h.target == nil {
		ui.Failure(h.out, "No target, use css or xpath first", nil)
		return false
	}
	return true
}

func (h *ProbeHandler) Text(ctx context.Context) {
	if !h.needTarget() {
		return
	}
	text, err := h.target.Text(ctx)
	if err != nil {
		ui.Failure(h.out, "Text failed", err)
		return
	}
	fmt.Fprintln(h.out, text)
}

func (h *ProbeHandler) OwnText(ctx context.Context) {
	if !h.needTarget() {
		return
	}
	text, err := h.target.OwnText(ctx)
	if err != nil {
		ui.Failure(h.out, "Own text failed", err)
		return
	}
	fmt.Fprintln(h.out, text)
}

func (h *ProbeHandler) Attr(ctx context.Context, name string) {
	if !h.needTarget() {
		return
	}
	v, ok, err := h.target.Attr(ctx, name)
	if err != nil {
		ui.Failure(h.out, "Attribute failed", err)
		return
	}
	if !ok {
		fmt.Fprintf(h.out, ui.ColorGray+"%s is absent"+ui.ColorReset+"\n", name)
		return
	}
	fmt.Fprintf(h.out, "%s=%q\n", name, v)
}

func (h *ProbeHandler) Click(ctx context.Context) {
	if !h.needTarget() {
		return
	}
	if err := h.target.Click(ctx); err != nil {
		ui.Failure(h.out, "Click failed", err)
		return
	}
	ui.Success(h.out, "Clicked %s", h.target.Selector().String())
}

func (h *ProbeHandler) Screenshot(ctx context.Context, name string) {
	path, err := h.session.Screenshot(ctx, name)
	if err != nil {
		ui.Failure(h.out, "Screenshot failed", err)
		return
	}
	fmt.Fprintln(h.out, ui.ColorCyan+ui.IconCamera+" "+path+ui.ColorReset)
}
