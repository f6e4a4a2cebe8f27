package trusted

import (
	"strings"
	"testing"
)

func TestAuthoredRendersVerbatim(t *testing.T) {
	h := Authored(`<p class="lead">Hi</p>`)
	var b strings.Builder
	if err := h.Render(&b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b.String() != `<p class="lead">Hi</p>` {
		t.Errorf("Render = %q", b.String())
	}
}

func TestTextEscapes(t *testing.T) {
	if got := Text(`<script>x</script>`).String(); got != "&lt;script&gt;x&lt;/script&gt;" {
		t.Errorf("Text = %q", got)
	}
}

func TestZeroAndMap(t *testing.T) {
	var h HTML
	if !h.IsZero() {
		t.Error("zero value should be empty")
	}
	up := Authored("<b>x</b>").Map(strings.ToUpper)
	if up.String() != "<B>X</B>" {
		t.Errorf("Map = %q", up)
	}
}
