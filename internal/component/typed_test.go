package component

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageObject/internal/browser"
	"pageObject/internal/browser/browsertest"
	"pageObject/internal/selector"
)

func TestButton(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	submit := browsertest.NewNode("input", "", "type", "submit", "value", "Save")
	d.Doc().Add("input[type='submit']", submit)
	d.Doc().Add("button", browsertest.NewNode("button", " Cancel "))
	d.Doc().Add("input[type='text']", browsertest.NewNode("input", "", "type", "text"))

	save := NewButton(s.Page(), selector.CSS.Descendant("input", selector.TypeAttr().Is("submit")))
	text, err := save.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Save", text)
	require.NoError(t, save.Click(ctx))
	assert.Equal(t, 1, submit.Clicks())

	text, err = NewButton(s.Page(), selector.CSS.Descendant("button")).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cancel", text)

	_, err = NewButton(s.Page(), selector.CSS.Descendant("input", selector.TypeAttr().Is("text"))).Text(ctx)
	var rulesErr *RulesError
	require.ErrorAs(t, err, &rulesErr)
	assert.Equal(t, "component.Button", rulesErr.Component)
}

func TestDisabledButtonIsNotClicked(t *testing.T) {
	d, s, _ := newSession(t)
	node := browsertest.NewNode("button", "Save")
	node.SetDisabled(true)
	d.Doc().Add("button", node)
	b := NewButton(s.Page(), selector.CSS.Descendant("button"))

	enabled, err := b.IsEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)

	var waitErr *WaitError
	require.ErrorAs(t, b.Click(context.Background()), &waitErr)
	assert.Equal(t, "component is not enabled", waitErr.Failure)
	assert.Zero(t, node.Clicks())

	require.ErrorAs(t, b.DoubleClick(context.Background()), &waitErr)
	assert.Zero(t, node.DoubleClicks())
	require.ErrorAs(t, b.ClickAt(context.Background(), 3, 4), &waitErr)
	assert.Empty(t, node.ClickedAt())

	node.SetDisabled(false)
	require.NoError(t, b.DoubleClick(context.Background()))
	assert.Equal(t, 1, node.DoubleClicks())
}

func TestLinkAndImage(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	d.Doc().Add("a", browsertest.NewNode("a", "Docs", "href", "/docs"))
	d.Doc().Add("img", browsertest.NewNode("img", "", "src", "/logo.png", "alt", "Logo"))

	link := NewLink(s.Page(), selector.CSS.Descendant("a"))
	href, err := link.Href(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/docs", href)
	enabled, err := link.IsEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	img := NewImage(s.Page(), selector.CSS.Descendant("img"))
	src, err := img.Source(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/logo.png", src)
	alt, err := img.Alt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Logo", alt)
}

func TestImageTextIsSource(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	d.Doc().Add("img.thumb",
		browsertest.NewNode("img", "", "class", "thumb", "src", "/a.png"),
		browsertest.NewNode("img", "", "class", "thumb", "src", "/b.png"),
	)

	thumbs := NewCollection(s.Page(), selector.CSS.Descendant("img", selector.Classes("thumb")), func(c *Component) *Image {
		return &Image{c}
	})
	keys, err := thumbs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.png", "/b.png"}, keys)

	b, err := thumbs.Entry(ctx, "/b.png")
	require.NoError(t, err)
	text, err := b.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/b.png", text)
}

func TestTextbox(t *testing.T) {
	d, s, rec := newSession(t)
	ctx := context.Background()
	node := browsertest.NewNode("input", "", "name", "q", "value", "old")
	d.Doc().Add("input[name='q']", node)
	d.Doc().Add("textarea", browsertest.NewNode("textarea", ""))
	d.Doc().Add("input[type='checkbox']", browsertest.NewNode("input", "", "type", "checkbox"))

	box := NewTextbox(s.Page(), selector.CSS.Descendant("input", selector.NameAttr().Is("q")))
	text, err := box.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", text)

	require.NoError(t, box.EnterText(ctx, "golang"))
	assert.Equal(t, "golang", node.Value())
	assert.Equal(t, 1, node.Clicks())
	require.NotEmpty(t, rec.interactions)
	last := rec.interactions[len(rec.interactions)-1]
	assert.Equal(t, InteractionTextEntry, last.Type)
	assert.Equal(t, "golang", last.Text)

	require.NoError(t, box.Clear(ctx))
	assert.Equal(t, "", node.Value())

	_, err = NewTextbox(s.Page(), selector.CSS.Descendant("textarea")).Text(ctx)
	assert.NoError(t, err)

	_, err = NewTextbox(s.Page(), selector.CSS.Descendant("input", selector.TypeAttr().Is("checkbox"))).Text(ctx)
	var rulesErr *RulesError
	assert.ErrorAs(t, err, &rulesErr)
}

func TestDateTextbox(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	node := browsertest.NewNode("input", "", "type", "date")
	d.Doc().Add("input", node)
	box := NewDateTextbox(s.Page(), selector.CSS.Descendant("input"))
	day := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)

	require.NoError(t, box.EnterDate(ctx, day))
	assert.Equal(t, "03072024", node.Value())

	d.SetBrowserName(browser.BrowserFirefox)
	require.NoError(t, box.EnterDate(ctx, day))
	assert.Equal(t, "2024-03-07", node.Value())

	got, err := box.Date(ctx)
	require.NoError(t, err)
	assert.True(t, day.Equal(got))
}

func TestCheckbox(t *testing.T) {
	d, s, rec := newSession(t)
	ctx := context.Background()
	node := browsertest.NewNode("input", "", "type", "checkbox", "id", "terms")
	node.OnClick = func() { node.SetSelected(!mustSelected(node)) }
	d.Doc().Add("input#terms", node)
	d.Doc().Add("label[for='terms']", browsertest.NewNode("label", " Accept terms "))

	box := NewCheckbox(s.Page(), selector.CSS.Descendant("input", selector.ID("terms")))
	text, err := box.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Accept terms", text)

	require.NoError(t, box.Select(ctx))
	require.NoError(t, box.Select(ctx))
	assert.Equal(t, 1, node.Clicks())
	selected, err := box.IsSelected(ctx)
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, InteractionSelect, rec.interactions[len(rec.interactions)-1].Type)

	require.NoError(t, box.Deselect(ctx))
	assert.Equal(t, 2, node.Clicks())
}

func TestCheckboxSelectReportsLabelError(t *testing.T) {
	d, s, rec := newSession(t)
	ctx := context.Background()
	node := browsertest.NewNode("input", "", "type", "checkbox", "id", "terms")
	node.OnClick = node.Detach
	d.Doc().Add("input#terms", node)

	box := NewCheckbox(s.Page(), selector.CSS.Descendant("input", selector.ID("terms")))
	var notFound *ElementNotFoundError
	require.ErrorAs(t, box.Select(ctx), &notFound)
	assert.Equal(t, 1, node.Clicks())
	assert.Equal(t, InteractionClick, rec.interactions[len(rec.interactions)-1].Type)
}

func mustSelected(n *browsertest.Node) bool {
	ok, _ := n.IsSelected(context.Background())
	return ok
}

func TestRadioGroup(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()

	small := browsertest.NewNode("input", "", "type", "radio", "value", "s")
	small.Add("./parent::label", browsertest.NewNode("label", "Small"))
	large := browsertest.NewNode("input", "", "type", "radio", "value", "l")
	large.Add("./parent::label", browsertest.NewNode("label", "Large"))
	bare := browsertest.NewNode("input", "", "type", "radio", "value", "xl")
	for _, n := range []*browsertest.Node{small, large, bare} {
		n := n
		n.OnClick = func() { n.SetSelected(true) }
	}
	d.Doc().Add("input[name='size']", small, large, bare)

	group := NewRadioGroup(s.Page(), selector.CSS.Descendant("input", selector.NameAttr().Is("size")))
	texts, err := group.Texts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Small", "Large", "xl"}, texts)

	_, ok, err := group.Selected(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, group.Select(ctx, "Large"))
	selected, ok, err := group.Selected(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Large", selected)

	var notFound *EntryNotFoundError
	assert.ErrorAs(t, group.Select(ctx, "Medium"), &notFound)
}

func fakeSelect(d *browsertest.Driver, options []string) *[]any {
	selected := []any{}
	var calls []any
	d.HandleScript("arguments[0].options).map", func(args []any) (any, error) {
		out := make([]any, len(options))
		for i, o := range options {
			out[i] = o
		}
		return out, nil
	})
	d.HandleScript("selectedOptions", func(args []any) (any, error) { return selected, nil })
	d.HandleScript("o.selected = on", func(args []any) (any, error) {
		texts := args[1].([]string)
		on := args[2].(bool)
		calls = append(calls, args[1])
		for _, t := range texts {
			if on {
				selected = append(selected, t)
				continue
			}
			for i, s := range selected {
				if s == t {
					selected = append(selected[:i], selected[i+1:]...)
					break
				}
			}
		}
		return nil, nil
	})
	return &calls
}

func TestDropdown(t *testing.T) {
	d, s, rec := newSession(t)
	ctx := context.Background()
	d.Doc().Add("select", browsertest.NewNode("select", ""))
	calls := fakeSelect(d, []string{"Red", "Green", "Blue"})

	dd := NewDropdown(s.Page(), selector.CSS.Descendant("select"))
	options, err := dd.OptionTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, options)

	require.NoError(t, dd.Select(ctx, "Green"))
	text, err := dd.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Green", text)
	assert.Equal(t, InteractionSelect, rec.interactions[len(rec.interactions)-1].Type)

	var notFound *EntryNotFoundError
	assert.ErrorAs(t, dd.Select(ctx, "Purple"), &notFound)
	assert.ErrorAs(t, dd.SelectMatching(ctx, regexp.MustCompile(`^P`)), &notFound)
	assert.ErrorAs(t, dd.SelectMatching(ctx, regexp.MustCompile(`B`)), &notFound)
	require.NoError(t, dd.SelectMatching(ctx, regexp.MustCompile(`B\w+`)))
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"Blue"}, (*calls)[1])
}

func TestSelectMatchingWholeOption(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	d.Doc().Add("select", browsertest.NewNode("select", ""))
	calls := fakeSelect(d, []string{"Apple pie", "Apple"})

	dd := NewDropdown(s.Page(), selector.CSS.Descendant("select"))
	require.NoError(t, dd.SelectMatching(ctx, regexp.MustCompile(`Apple`)))
	require.NoError(t, dd.SelectMatching(ctx, regexp.MustCompile(`Apple|Apple pie`)))
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"Apple"}, (*calls)[0])
	assert.Equal(t, []string{"Apple pie"}, (*calls)[1])
}

func TestDropdownRejectsMultiple(t *testing.T) {
	d, s, _ := newSession(t)
	d.Doc().Add("select", browsertest.NewNode("select", "", "multiple", ""))

	_, err := NewDropdown(s.Page(), selector.CSS.Descendant("select")).OptionTexts(context.Background())
	var rulesErr *RulesError
	assert.ErrorAs(t, err, &rulesErr)
}

func TestMultiSelect(t *testing.T) {
	d, s, _ := newSession(t)
	ctx := context.Background()
	d.Doc().Add("select", browsertest.NewNode("select", "", "multiple", ""))
	fakeSelect(d, []string{"Go", "Rust", "Zig"})

	ms := NewMultiSelect(s.Page(), selector.CSS.Descendant("select"))
	require.NoError(t, ms.Select(ctx, "Go", "Zig"))
	text, err := ms.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go, Zig", text)

	require.NoError(t, ms.DeselectMatching(ctx, regexp.MustCompile(`Z.g`)))
	selected, err := ms.SelectedTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, selected)

	var notFound *EntryNotFoundError
	assert.ErrorAs(t, ms.SelectMatching(ctx, regexp.MustCompile(`u`)), &notFound)
	require.NoError(t, ms.SelectMatching(ctx, regexp.MustCompile(`R.*`)))
	selected, err = ms.SelectedTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, selected)

	require.NoError(t, ms.Clear(ctx))
	selected, err = ms.SelectedTexts(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)

	assert.ErrorAs(t, ms.Deselect(ctx, "Go", "Java"), &notFound)
}

func TestDraggable(t *testing.T) {
	d, s, _ := newSession(t)
	card := browsertest.NewNode("div", "card")
	lane := browsertest.NewNode("section", "done")
	d.Doc().Add("div", card)
	d.Doc().Add("section", lane)

	drag := NewDraggable(s.Page(), selector.CSS.Descendant("div"))
	target := NewGeneric(s.Page(), selector.CSS.Descendant("section"))
	require.NoError(t, drag.DragTo(context.Background(), target, 5, 10))

	dst, offset := card.DraggedTo()
	assert.Same(t, lane, dst)
	assert.Equal(t, [2]int{5, 10}, offset)
}
