package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio/internal/blog"
	"portfolio/internal/client"
	"portfolio/internal/config"
)

// postsFlags are shared by every "posts" subcommand.
type postsFlags struct {
	url   string
	token string
}

func (f *postsFlags) client() (*client.Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	if f.url != "" {
		cfg.URL = f.url
	}
	if f.token != "" {
		cfg.Token = f.token
	}
	if cfg.Token == "" {
		return nil, errors.New("no operator token: set OPERATOR_TOKEN or pass --token")
	}
	return client.New(cfg.URL, cfg.Token), nil
}

func newPostsCmd() *cobra.Command {
	flags := &postsFlags{}
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage the blog posts of a running server",
		Long: `Manage the blog posts of a running server through its operator API.

Examples:
  portfolio posts list
  portfolio posts add --title "Hello" --excerpt "First post"
  portfolio posts remove hello`,
	}
	cmd.PersistentFlags().StringVar(&flags.url, "url", "", "server URL (default $PORTFOLIO_URL or http://localhost:8080)")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "operator token (default $OPERATOR_TOKEN)")

	cmd.AddCommand(newPostsListCmd(flags), newPostsAddCmd(flags), newPostsRemoveCmd(flags))
	return cmd
}

func newPostsListCmd(flags *postsFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List posts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			entries, err := c.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No posts yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSLUG\tTITLE")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Date, e.Slug, e.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newPostsAddCmd(flags *postsFlags) *cobra.Command {
	var (
		post blog.Post
		date string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a post; date defaults to today and slug to one derived from the title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				d, err := blog.ParseDate(date)
				if err != nil {
					return err
				}
				post.Date = d
			}
			c, err := flags.client()
			if err != nil {
				return err
			}
			created, err := c.Add(cmd.Context(), post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q (slug %s, %s)\n", created.Title, created.Slug, created.Date)
			return nil
		},
	}
	cmd.Flags().StringVarP(&post.Title, "title", "t", "", "post title (required)")
	cmd.Flags().StringVarP(&post.Excerpt, "excerpt", "e", "", "post excerpt (required)")
	cmd.Flags().StringVar(&post.Slug, "slug", "", "post slug")
	cmd.Flags().StringVar(&post.Content, "content", "", "post body")
	cmd.Flags().StringVarP(&date, "date", "d", "", "publication date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("excerpt")
	return cmd
}

func newPostsRemoveCmd(flags *postsFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <slug-or-title>",
		Aliases: []string{"rm"},
		Short:   "Remove the first post whose slug, or title when it has none, matches",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			res, err := c.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no post matches %q\n", res.Key)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", res.Key)
			return nil
		},
	}
}
