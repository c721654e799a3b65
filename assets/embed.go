// Package assets embeds the default word corpus and the SQL migrations so the
// server binary runs without any files next to it.
package assets

import (
	"embed"
	"io"
	"io/fs"
)

//go:embed words.txt
var wordsFS embed.FS

//go:embed sql
var sqlFS embed.FS

// Words opens the embedded word list. The caller closes it.
func Words() (io.ReadCloser, error) {
	return wordsFS.Open("words.txt")
}

// Migrations returns the migration files for one dialect subdirectory
// ("sqlite", "postgres", "mysql").
func Migrations(dialect string) (fs.FS, error) {
	return fs.Sub(sqlFS, "sql/"+dialect)
}
