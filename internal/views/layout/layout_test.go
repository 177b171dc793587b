package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	nav := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<nav>links</nav>"))
		return err
	})
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>content</section>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Dashboard & GP", nav, content, false).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Dashboard &amp; GP</title>") {
		t.Fatalf("expected escaped document title to be rendered: %s", out)
	}
	if !strings.Contains(out, "links") || !strings.Contains(out, "content") {
		t.Fatalf("expected nav and content sections in output: %s", out)
	}
}

func TestLayoutWithoutNav(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("Sign in", nil, nil, true).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if !strings.Contains(buf.String(), `<main data-width="narrow">`) {
		t.Fatalf("expected narrow main element: %s", buf.String())
	}
}

func TestMainWidthReflectsLayout(t *testing.T) {
	if mainWidth(true) == mainWidth(false) {
		t.Fatal("expected different main class depending on width")
	}
}
