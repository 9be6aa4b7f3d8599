package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/ogcards"
	"github.com/eringen/ogcards/markup"
)

var (
	pathsJSON   bool
	pathsMarkup string
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the cards the site produces",
	Long:  "List every card slug with its props. --markup prints the card tree for one slug as HTML.",
	RunE:  runPaths,
}

func init() {
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "Print paths as JSON")
	pathsCmd.Flags().StringVar(&pathsMarkup, "markup", "", "Print the card markup for `slug`")
	pathsCmd.MarkFlagsMutuallyExclusive("json", "markup")
}

func runPaths(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	paths, err := app.StaticPaths(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case pathsMarkup != "":
		p, err := ogcards.FindPath(paths, pathsMarkup)
		if err != nil {
			return err
		}
		pres, err := app.Presentation()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, markup.HTML(ogcards.ComposeCard(p.Props, pres)))
		return nil
	case pathsJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(paths)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tDATE\tTITLE\tAUTHOR")
	for _, p := range paths {
		date := "-"
		if p.Props.PubDate != nil {
			date = *p.Props.PubDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Slug, date, p.Props.Title, p.Props.Author)
	}
	return tw.Flush()
}
