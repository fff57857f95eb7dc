// Package locales embeds the message catalogs for validation failures.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
