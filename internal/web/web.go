// Package web встраивает статический фронтенд сервиса.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static возвращает файлы фронтенда с корнем в каталоге static.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
