package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup_RemovesTags(t *testing.T) {
	assert.Equal(t, "hello world", StripMarkup("<b>hello</b> <i>world</i>"))
}

func TestStripMarkup_LineBreakTagsBecomeNewlines(t *testing.T) {
	assert.Equal(t, "one\ntwo", StripMarkup("one<br>two"))
	assert.Equal(t, "para\n", StripMarkup("<p>para</p>"))
	assert.Equal(t, "a\nb\n", StripMarkup("<table><tr><td>a</td></tr><tr><td>b</td></tr></table>"))
	assert.Equal(t, "x\ny", StripMarkup("x<BR>y"), "tag matching is case-insensitive")
}

func TestStripMarkup_SelfClosingBreakIsJustDropped(t *testing.T) {
	// Only the exact <br>, </p> and </tr> forms map to a newline.
	assert.Equal(t, "ab", StripMarkup("a<br/>b"))
}

func TestStripMarkup_ResolvesNamedEntity(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", StripMarkup("Tom &amp; Jerry"))
}

func TestStripMarkup_ResolvesDecimalEntity(t *testing.T) {
	assert.Equal(t, "A", StripMarkup("&#65;"))
}

func TestStripMarkup_ResolvesHexEntity(t *testing.T) {
	assert.Equal(t, "A", StripMarkup("&#x41;"))
	assert.Equal(t, "A", StripMarkup("&#X41;"))
}

func TestStripMarkup_UnknownReferenceIsDropped(t *testing.T) {
	assert.Equal(t, "", StripMarkup("&notareal;"))
	assert.Equal(t, "ab", StripMarkup("a&notareal;b"))
}

func TestStripMarkup_NoMarkupIsUnchanged(t *testing.T) {
	assert.Equal(t, "plain text", StripMarkup("plain text"))
}

func TestStripMarkup_NestedTagAttributes(t *testing.T) {
	assert.Equal(t, "link", StripMarkup(`<a href="http://example.com">link</a>`))
}
