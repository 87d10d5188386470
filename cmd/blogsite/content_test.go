package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, root, slug, id, body string) {
	t.Helper()
	dir := filepath.Join(root, slug)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".md"), []byte(body), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestContentPaths(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "rust", "2", "---\ntitle: Two\n---\nbody")
	writePost(t, root, "rust", "1", "---\ntitle: One\n---\nbody")
	writePost(t, root, "go", "7", "no front-matter")

	out, err := execute(t, "content", "paths", "--dir", root)

	require.NoError(t, err)
	assert.Equal(t, "go/7\nrust/1\nrust/2\n", out)
}

func TestContentPaths_BrokenDocumentFails(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "rust", "1", "---\ntitle: [unclosed\n---\nbody")

	_, err := execute(t, "content", "paths", "--dir", root)
	assert.Error(t, err)
}

func TestContentRender(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "rust", "3", "---\ntitle: Ownership\nshortDescription: Borrowing\n---\n# Hello\n")

	out, err := execute(t, "content", "render", "rust", "3", "--dir", root)
	require.NoError(t, err)

	var doc struct {
		Slug  string `json:"slug"`
		ID    string `json:"id"`
		Title string `json:"title"`
		HTML  string `json:"contentHtml"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "rust", doc.Slug)
	assert.Equal(t, "3", doc.ID)
	assert.Equal(t, "Ownership", doc.Title)
	assert.Contains(t, doc.HTML, "Hello</h1>")
}

func TestContentRender_AsPost(t *testing.T) {
	t.Cleanup(func() { renderAsPost = false })
	root := t.TempDir()
	writePost(t, root, "rust", "3", "---\ntitle: Ownership\nshortDescription: Borrowing\ndate: \"2024-02-01\"\n---\nbody\n")

	out, err := execute(t, "content", "render", "rust", "3", "--as-post", "--dir", root)
	require.NoError(t, err)

	var post struct {
		ID               int    `json:"id"`
		Title            string `json:"title"`
		ShortDescription string `json:"short_description"`
		Date             string `json:"date"`
		Content          string `json:"content"`
		Slug             string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &post))
	assert.Equal(t, 3, post.ID)
	assert.Equal(t, "Ownership", post.Title)
	assert.Equal(t, "Borrowing", post.ShortDescription)
	assert.Equal(t, "2024-02-01", post.Date)
	assert.Equal(t, "rust", post.Slug)
	assert.Contains(t, post.Content, "<p>body</p>")
}

func TestContentRender_Missing(t *testing.T) {
	_, err := execute(t, "content", "render", "rust", "404", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestContentRender_RejectsTraversal(t *testing.T) {
	_, err := execute(t, "content", "render", "..", "1", "--dir", t.TempDir())
	assert.Error(t, err)
}
