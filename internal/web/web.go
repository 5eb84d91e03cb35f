// Package web はサーバーサイドレンダリング用のHTMLテンプレートを提供します。
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates はgin.Engine.SetHTMLTemplate に渡すテンプレート集合を返します。
func Templates() *template.Template {
	return template.Must(
		template.New("").
			Funcs(template.FuncMap{"formatTime": formatTime}).
			ParseFS(templateFS, "templates/*.html"),
	)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
