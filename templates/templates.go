// Package templates embeds the HTML views.
package templates

import "embed"

// BaseTemplate is parsed together with every page.
const BaseTemplate = "base.html"

//go:embed *.html
var FS embed.FS
