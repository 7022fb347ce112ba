package layout

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cricketreg/internal/model"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	return doc
}

func TestBaseWrapsContent(t *testing.T) {
	content := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="body">Hello</p>`)
		return err
	})

	doc := renderDoc(t, Base(PageData{Title: "Register"}, content))

	assert.Equal(t, "Register | Cricket Tournament", doc.Find("title").Text())
	assert.Equal(t, "Hello", doc.Find("main #body").Text())
	assert.Equal(t, 1, doc.Find(`nav a[href="/admin"]`).Length())
	assert.Equal(t, 0, doc.Find("#sign-out").Length())
	assert.Equal(t, 0, doc.Find(".flash").Length())
}

func TestHeaderForSignedInAdmin(t *testing.T) {
	doc := renderDoc(t, Header(&model.AdminIdentity{Username: "captain<b>", IsAdmin: true}))

	assert.Equal(t, "captain<b>", doc.Find(".admin-name").Text())
	assert.Equal(t, 1, doc.Find(`nav a[href="/admin/dashboard"]`).Length())
	assert.Equal(t, 1, doc.Find(`form[action="/admin/logout"] #sign-out`).Length())
}

func TestFlashEscapesMessage(t *testing.T) {
	doc := renderDoc(t, Flash(&FlashMessage{Type: FlashError, Message: `<script>alert("x")</script>`}))

	flash := doc.Find(".flash-error")
	require.Equal(t, 1, flash.Length())
	assert.Equal(t, `<script>alert("x")</script>`, flash.Text())
	assert.Equal(t, 0, doc.Find("script").Length())
}

func TestFlashNilRendersNothing(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Flash(nil).Render(context.Background(), &b))
	assert.Empty(t, b.String())
}
