package component

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageObject/internal/browser/browsertest"
	"pageObject/internal/selector"
)

type userRow struct {
	*Component
}

func (userRow) Rules(r *Rule) { r.Tag().Is("tr") }

func (u userRow) Key(ctx context.Context) (string, error) {
	v, _, err := u.Attr(ctx, "data-user")
	return v, err
}

func newRow(c *Component) *userRow { return &userRow{c} }

func usersTable(t *testing.T) (*browsertest.Driver, *Session, []*browsertest.Node) {
	t.Helper()
	d, s, _ := newSession(t)
	table := browsertest.NewNode("table", "")
	rows := []*browsertest.Node{
		browsertest.NewNode("tr", "Alice Admin", "data-user", "alice"),
		browsertest.NewNode("tr", "Bob Viewer", "data-user", "bob"),
		browsertest.NewNode("tr", "Carol Viewer", "data-user", "carol"),
	}
	table.Add("./child::tbody/child::tr", rows...)
	d.Doc().Add("table", table)
	return d, s, rows
}

func usersCollection(s *Session) *Collection[*userRow] {
	table := NewGeneric(s.Page(), selector.CSS.Descendant("table"))
	return NewCollection(table, selector.XPath.Child("tbody").Child("tr"), newRow)
}

func TestCollectionEntries(t *testing.T) {
	_, s, _ := usersTable(t)
	rows := usersCollection(s)
	ctx := context.Background()

	n, err := rows.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := rows.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, keys)

	texts, err := rows.Texts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Admin", "Bob Viewer", "Carol Viewer"}, texts)

	bob, err := rows.Entry(ctx, "bob")
	require.NoError(t, err)
	text, err := bob.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob Viewer", text)

	last, err := rows.Last(ctx)
	require.NoError(t, err)
	text, err = last.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Carol Viewer", text)

	ok, err := rows.ContainsKey(ctx, "dave")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = rows.Entry(ctx, "dave")
	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "unable to find entry with key: dave", err.Error())

	_, err = rows.Entry(ctx, "")
	require.ErrorAs(t, err, &notFound)
	assert.True(t, notFound.ByKey)
	assert.Equal(t, "unable to find entry with key: ", err.Error())

	m, err := rows.EntryMatching(ctx, regexp.MustCompile(`^c`))
	require.NoError(t, err)
	text, err = m.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Carol Viewer", text)

	_, err = rows.At(ctx, 5)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "unable to find entry with index: 5", err.Error())
}

func TestCollectionFilter(t *testing.T) {
	_, s, _ := usersTable(t)
	viewers, err := usersCollection(s).Filter(context.Background(), func(ctx context.Context, r *userRow) (bool, error) {
		text, err := r.Text(ctx)
		return regexp.MustCompile(`Viewer$`).MatchString(text), err
	})
	require.NoError(t, err)
	assert.Len(t, viewers, 2)
}

func TestCollectionEntryKeepsIndexWhenStale(t *testing.T) {
	d, s, rows := usersTable(t)
	ctx := context.Background()

	second, err := usersCollection(s).At(ctx, 1)
	require.NoError(t, err)

	rows[1].Detach()
	table, err := d.FindElement(ctx, selector.Locator{Syntax: selector.SyntaxCSS, Expression: "table"})
	require.NoError(t, err)
	replacement := []*browsertest.Node{rows[0], browsertest.NewNode("tr", "Bob Editor", "data-user", "bob"), rows[2]}
	fresh := browsertest.NewNode("table", "")
	fresh.Add("./child::tbody/child::tr", replacement...)
	d.Doc().Set("table", fresh)
	table.(*browsertest.Node).Detach()

	text, err := second.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob Editor", text)
}

func TestCollectionMissingParentIsEmpty(t *testing.T) {
	_, s, _ := newSession(t)
	rows := usersCollection(s)

	empty, err := rows.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)

	var waitErr *WaitError
	assert.ErrorAs(t, rows.WaitForEntries(context.Background()), &waitErr)
}

func TestCollectionEntryRules(t *testing.T) {
	d, s, _ := newSession(t)
	d.Doc().Add("li", browsertest.NewNode("li", "x"))
	rows := NewCollection(s.Page(), selector.CSS.Descendant("li"), newRow)

	first, err := rows.First(context.Background())
	require.NoError(t, err)
	_, err = first.Text(context.Background())
	var rulesErr *RulesError
	assert.ErrorAs(t, err, &rulesErr)
}
