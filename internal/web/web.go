// Package web は埋め込みの HTML テンプレートを提供します。
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates はすべてのページテンプレートをパースします。
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}
