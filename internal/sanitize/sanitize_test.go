package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLKeepsInlineFormatting(t *testing.T) {
	in := "This is <b>bold</b> and <em>emphasized</em> text"
	assert.Equal(t, in, HTML(in))
}

func TestHTMLStripsScripts(t *testing.T) {
	got := HTML(`before <script>alert("xss")</script> after`)
	assert.NotContains(t, got, "<script")
	assert.Contains(t, got, "before")
	assert.Contains(t, got, "after")
}

func TestHTMLStripsEmbeds(t *testing.T) {
	for _, in := range []string{
		`<iframe src="https://evil.example"></iframe>nice recipe`,
		`<object data="x"></object>nice recipe`,
		`<img src=x onerror=alert(1)>nice recipe`,
	} {
		got := HTML(in)
		assert.NotContains(t, got, "<", "input %q", in)
		assert.Contains(t, got, "nice recipe", "input %q", in)
	}
}

func TestHTMLStripsAttributesFromAllowedTags(t *testing.T) {
	got := HTML(`<b onclick="alert(1)">bold</b>`)
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<b>bold</b>")
}

func TestTextStripsAllMarkup(t *testing.T) {
	assert.Equal(t, "Spicy Noodles", Text("<b>Spicy</b> <i>Noodles</i>"))
}
