package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/ogcards/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	SiteTitle string
	Author    string
	Today     string
}

var (
	initTitle  string
	initAuthor string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter configuration and sample post",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runInit(cmd.OutOrStdout(), dir)
	},
}

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "", "Site title (default: directory name)")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Site author")
}

func runInit(out io.Writer, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	data := scaffoldData{
		SiteTitle: initTitle,
		Author:    initAuthor,
		Today:     time.Now().Format("2006-01-02"),
	}
	if data.SiteTitle == "" {
		data.SiteTitle = toTitle(filepath.Base(abs))
	}

	fmt.Fprintf(out, "Creating ogcards project in %s\n\n", dir)

	root := "templates"
	err = fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Compute the relative path from the template root.
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Compute the output path, stripping the .tmpl suffix.
		outPath := filepath.Join(dir, relPath)
		outPath = strings.TrimSuffix(outPath, ".tmpl")

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(out, "  skipped %s (exists)\n", outPath)
			return nil
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}

		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  put a TrueType font at the font_path in ogcards.yaml")
	fmt.Fprintln(out, "  ogcards paths")
	fmt.Fprintln(out, "  ogcards serve")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
