package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var staticFiles embed.FS

// ControlPage returns the embedded control page assets (index.html, app.js,
// style.css) rooted at the static directory.
func ControlPage() (fs.FS, error) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("web: static fs: %w", err)
	}
	return sub, nil
}
