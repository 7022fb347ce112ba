package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/cricketreg/internal/model"
)

// Base renders the page shell around content
func Base(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`+templ.EscapeString(data.Title)+` | Cricket Tournament</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
`); err != nil {
			return err
		}
		if err := Header(data.Admin).Render(ctx, w); err != nil {
			return err
		}
		if err := Flash(data.Flash).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<main>\n"); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

// Header renders the site navigation; admin links show once signed in
func Header(admin *model.AdminIdentity) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		nav := `<a href="/admin">Admin</a>`
		if admin != nil {
			nav = `<a href="/admin/dashboard">Dashboard</a>
    <form class="inline" method="post" action="/admin/logout">
      <span class="admin-name">` + templ.EscapeString(admin.Username) + `</span>
      <button type="submit" id="sign-out">Sign out</button>
    </form>`
		}
		_, err := io.WriteString(w, `<header class="site-header">
  <a class="brand" href="/">Cricket Tournament</a>
  <nav>
    <a href="/register">Register</a>
    `+nav+`
  </nav>
</header>
`)
		return err
	})
}

// Flash renders a one-shot notice, or nothing
func Flash(flash *FlashMessage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if flash == nil {
			return nil
		}
		_, err := io.WriteString(w, `<div class="flash flash-`+templ.EscapeString(flash.Type)+`" role="alert">`+
			templ.EscapeString(flash.Message)+"</div>\n")
		return err
	})
}
