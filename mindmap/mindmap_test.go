package mindmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leafText    = "leaf text"
	leafRawPath = "this/is/a/leaf"
)

func TestInsertSingleSegment(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("test")
	root.Insert("leaf", leafText)

	assert.Equal(1, len(root.Children))
	assert.Equal("leaf", root.Children[0].Name)
	assert.Equal(leafText, root.Children[0].TextValue())
	assert.Nil(root.Text)
}

func TestInsertNestedPath(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("a/b/c", "T")

	assert.Equal(4, root.Count())
	a := root.Children[0]
	b := a.Children[0]
	c := b.Children[0]
	assert.Equal("a", a.Name)
	assert.Equal("b", b.Name)
	assert.Equal("c", c.Name)
	assert.Nil(a.Text)
	assert.Nil(b.Text)
	assert.Equal("T", c.TextValue())

	leaf, ok := root.Lookup("c")
	assert.True(ok)
	assert.Equal("r/a/b/c", leaf.Path)
	assert.Equal("T", *leaf.Text)
}

func TestInsertIdempotent(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert(leafRawPath, leafText)
	before := root.Count()
	root.Insert(leafRawPath, leafText)
	assert.Equal(before, root.Count())
	assert.Equal(root.Render(), func() string {
		fresh := NewNode("r")
		fresh.Insert(leafRawPath, leafText)
		return fresh.Render()
	}())
}

func TestInsertOverwritesTextOnReusedNode(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("a/b", "first")
	root.Insert("a/b", "second")

	assert.Equal(3, root.Count())
	leaf, ok := root.Lookup("b")
	assert.True(ok)
	assert.Equal("second", *leaf.Text)
}

func TestInsertFirstBranchOnly(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("x", "")
	root.Insert("y", "")
	assert.Equal(3, root.Count())

	// "y" is the second child of the root, so the search (which only follows
	// first children) does not find it and a duplicate is appended
	root.Insert("y/z", "zz")
	assert.Equal(5, root.Count())
	assert.Equal(3, len(root.Children))
	assert.Equal("y", root.Children[2].Name)
	assert.Equal("z", root.Children[2].Children[0].Name)

	// "x" is on the first branch, so it is reused
	root.Insert("x/w", "ww")
	assert.Equal(6, root.Count())
	assert.Equal("w", root.Children[0].Children[0].Name)
}

func TestInsertReusesNodeOffPath(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("a/b/c", "")

	// "c" is found at the end of the first-child chain below "a", even
	// though the path asks for it directly under "a"
	root.Insert("a/c", "deep")
	assert.Equal(4, root.Count())
	leaf, ok := root.Lookup("c")
	assert.True(ok)
	assert.Equal("r/a/b/c", leaf.Path)
	assert.Equal("deep", *leaf.Text)
}

func TestInsertMatchesCurrentNode(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("r", "root text")
	assert.Equal(1, root.Count())
	assert.Equal("root text", root.TextValue())
}

func TestInsertEmptySegments(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("/a", "t")
	assert.Equal(3, root.Count())
	assert.Equal("", root.Children[0].Name)
	assert.Equal("a", root.Children[0].Children[0].Name)

	other := NewNode("r")
	other.Insert("", "t")
	assert.Equal(2, other.Count())
	assert.Equal("", other.Children[0].Name)
	assert.Equal("t", other.Children[0].TextValue())
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("test")
	root.Insert(leafRawPath, leafText)

	leaf, ok := root.Lookup("leaf")
	assert.True(ok)
	assert.Equal("test/this/is/a/leaf", leaf.Path)
	assert.Equal(leafText, *leaf.Text)
	assert.Equal(leafRawPath, leaf.RelativePath("test"))

	leaf, ok = root.Lookup("is")
	assert.True(ok)
	assert.Equal("test/this/is", leaf.Path)
	assert.Nil(leaf.Text)

	_, ok = root.Lookup("leaf2")
	assert.False(ok)
}

func TestLookupRoot(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("test")
	root.Insert(leafRawPath, leafText)

	leaf, ok := root.Lookup("test")
	assert.True(ok)
	assert.Equal("test", leaf.Path)
	assert.Nil(leaf.Text)
	assert.Equal("test", leaf.RelativePath("test"))

	root.SetText("about")
	leaf, ok = root.Lookup("test")
	assert.True(ok)
	assert.Equal("about", *leaf.Text)
}

func TestLookupBreadthFirst(t *testing.T) {
	assert := assert.New(t)

	// two nodes named "t": one at depth 3 on the first branch, one at depth 1
	root := &Node{Name: "r", Children: []*Node{
		{Name: "a", Children: []*Node{
			{Name: "b", Children: []*Node{
				{Name: "t", Text: strPtr("deep")},
			}},
		}},
		{Name: "t", Text: strPtr("shallow")},
	}}

	leaf, ok := root.Lookup("t")
	assert.True(ok)
	assert.Equal("r/t", leaf.Path)
	assert.Equal("shallow", *leaf.Text)
}

func TestLookupVisitedByName(t *testing.T) {
	assert := assert.New(t)

	// the second "a" is never enqueued, so "hidden" is unreachable
	root := &Node{Name: "r", Children: []*Node{
		{Name: "a"},
		{Name: "a", Children: []*Node{
			{Name: "hidden", Text: strPtr("h")},
		}},
	}}

	_, ok := root.Lookup("hidden")
	assert.False(ok)

	leaf, ok := root.Lookup("a")
	assert.True(ok)
	assert.Equal("r/a", leaf.Path)
}

func TestRelativePathOnlyStripsLeadingRoot(t *testing.T) {
	assert := assert.New(t)

	leaf := Leaf{Path: "m/x/m/y"}
	assert.Equal("x/m/y", leaf.RelativePath("m"))
}

func TestRender(t *testing.T) {
	assert := assert.New(t)

	expected := "test\\\n  this\\\n    is\\\n      a\\\n        leaf\\\n          leaf text\n"
	root := NewNode("test")
	root.Insert(leafRawPath, leafText)
	assert.Equal(expected, root.Render())
}

func TestRenderSiblingOrderReversed(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert("x", "")
	root.Insert("y", "")

	assert.Equal("r\\\n  y\\\n  x\\\n", root.Render())
}

func TestRenderPreOrderWithText(t *testing.T) {
	assert := assert.New(t)

	root := &Node{Name: "r", Text: strPtr("root"), Children: []*Node{
		{Name: "a", Children: []*Node{
			{Name: "a1", Text: strPtr("one")},
		}},
		{Name: "b", Text: strPtr("")},
	}}

	expected := "r\\\n" +
		"  root\n" +
		"  b\\\n" +
		"  a\\\n" +
		"    a1\\\n" +
		"      one\n"
	assert.Equal(expected, root.Render())
}

func TestDepth(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	assert.Equal(1, root.Depth())

	root.Insert("a", "")
	assert.Equal(2, root.Depth())
	root.Insert("b/c/d", "t")
	assert.Equal(4, root.Depth())
	assert.Equal(1, root.Children[0].Depth())
	assert.Equal(3, root.Children[1].Depth())
}

// deepPath returns n distinct slash-separated segments
func deepPath(n int) string {
	segs := make([]string, n)
	for i := range segs {
		segs[i] = fmt.Sprintf("n%d", i)
	}
	return strings.Join(segs, PathSeparator)
}

func TestMarshalDocumentDepthLimit(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("r")
	root.Insert(deepPath(MaxDepth-1), "bottom")
	assert.Equal(MaxDepth, root.Depth())

	b, err := MarshalDocument(root)
	require.NoError(t, err)
	out, err := UnmarshalDocument(b)
	require.NoError(t, err)
	assert.Equal(MaxDepth, out.Depth())

	// one level more is refused rather than written undecodable
	root = NewNode("r")
	root.Insert(deepPath(MaxDepth), "bottom")
	_, err = MarshalDocument(root)
	assert.ErrorIs(err, ErrTooDeep)
	assert.ErrorIs(err, ErrInvalidDocument)
}

func TestDocumentRoundTrip(t *testing.T) {
	assert := assert.New(t)

	root := NewNode("test")
	root.Insert(leafRawPath, leafText)

	b, err := MarshalDocument(root)
	assert.NoError(err)
	assert.Contains(string(b), `"childs":[]`)
	assert.Contains(string(b), `"text":null`)

	out, err := UnmarshalDocument(b)
	assert.NoError(err)
	assert.Equal(root, out)

	out, err = UnmarshalDocument([]byte(`{"name":"m","text":null,"childs":null}`))
	assert.NoError(err)
	assert.NotNil(out.Children)

	_, err = UnmarshalDocument([]byte(`{"name":`))
	assert.ErrorIs(err, ErrInvalidDocument)

	_, err = MarshalDocument(nil)
	assert.ErrorIs(err, ErrInvalidDocument)
}

func strPtr(s string) *string {
	return &s
}
