// Package assets embeds the SQL migrations and the puzzle generation prompt.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql prompt.txt
var FS embed.FS

// Migrations returns the embedded migration paths in lexical order.
func Migrations() ([]string, error) {
	var files []string
	err := fs.WalkDir(FS, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// ReadMigration returns the text of one migration.
func ReadMigration(path string) (string, error) {
	b, err := FS.ReadFile(path)
	return string(b), err
}

// Prompt returns the raw text/template source of the generation prompt.
func Prompt() string {
	b, err := FS.ReadFile("prompt.txt")
	if err != nil {
		// embedded at build time; a read failure is a packaging bug
		panic(err)
	}
	return string(b)
}
