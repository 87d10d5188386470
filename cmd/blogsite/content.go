package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dankservices/blog-site/internal/content"
)

var (
	contentDir   string
	renderAsPost bool
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect the static post tree",
	Long:  `Enumerate and render the <slug>/<id>.md documents served under /series/{slug}/{id}.`,
}

var contentPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List every static post address",
	Args:  cobra.NoArgs,
	RunE:  runContentPaths,
}

var contentRenderCmd = &cobra.Command{
	Use:   "render [slug] [id]",
	Short: "Render one document as JSON",
	Long:  `Render one document as JSON. With --as-post the output uses the API post shape.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runContentRender,
}

func init() {
	def := os.Getenv("BLOG_CONTENT_DIR")
	if def == "" {
		def = "./posts"
	}
	contentCmd.PersistentFlags().StringVarP(&contentDir, "dir", "d", def, "Content root directory")

	contentRenderCmd.Flags().BoolVar(&renderAsPost, "as-post", false, "Print the document in the API post shape")

	contentCmd.AddCommand(contentPathsCmd)
	contentCmd.AddCommand(contentRenderCmd)
	rootCmd.AddCommand(contentCmd)
}

// runContentPaths loads every document, so a broken file fails the command.
func runContentPaths(cmd *cobra.Command, _ []string) error {
	docs, err := content.NewLoader(contentDir).LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	for _, d := range docs {
		fmt.Fprintln(cmd.OutOrStdout(), d.Address.String())
	}
	return nil
}

func runContentRender(cmd *cobra.Command, args []string) error {
	addr := content.Address{Slug: args[0], ID: args[1]}
	if err := addr.Validate(); err != nil {
		return err
	}

	doc, err := content.NewLoader(contentDir).Load(addr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if renderAsPost {
		return enc.Encode(doc.Post())
	}
	return enc.Encode(doc)
}
