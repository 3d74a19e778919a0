// Package assets embeds the default word catalog, its hints and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt words_with_hints.txt sql/*.sql
var FS embed.FS

// Words opens the embedded "[CATEGORY:DIFFICULTY]" word file.
func Words() (fs.File, error) {
	return FS.Open("words.txt")
}

// Hints opens the embedded "[CATEGORY]" / "WORD: hint" file.
func Hints() (fs.File, error) {
	return FS.Open("words_with_hints.txt")
}

// Migrations returns the embedded migrations rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
