package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Loader reads post documents from a content tree laid out as
// <root>/<series-slug>/<post-id>.md.
type Loader struct {
	root string
	fsys fs.FS
	md   goldmark.Markdown
}

// NewLoader creates a loader over the directory root.
func NewLoader(root string) *Loader {
	return NewLoaderFS(root, os.DirFS(root))
}

// NewLoaderFS creates a loader over an arbitrary fs. root is only used in
// error messages and by the watcher.
func NewLoaderFS(root string, fsys fs.FS) *Loader {
	return &Loader{
		root: root,
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string { return l.root }

// Load reads one document, parses its front-matter and renders the body.
func (l *Loader) Load(addr Address) (*Document, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, addr.File())
	if err != nil {
		return nil, fmt.Errorf("failed to read post %s: %w", addr, err)
	}

	return l.parse(addr, data)
}

func (l *Loader) parse(addr Address, data []byte) (*Document, error) {
	fm, body, err := parseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", addr, err)
	}

	var html bytes.Buffer
	if err := l.md.Convert(body, &html); err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", addr, err)
	}

	return &Document{Address: addr, FrontMatter: fm, HTML: html.String()}, nil
}

// Paths enumerates every (slug, id) pair in the content tree, sorted by
// slug then file name. Hidden entries and non-.md files are skipped.
func (l *Loader) Paths() ([]Address, error) {
	slugs, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read content root %s: %w", l.root, err)
	}

	var out []Address
	for _, s := range slugs {
		if !s.IsDir() || hidden(s.Name()) {
			continue
		}
		files, err := fs.ReadDir(l.fsys, s.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read series dir %s: %w", s.Name(), err)
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || hidden(name) || !strings.HasSuffix(name, Ext) {
				continue
			}
			out = append(out, Address{Slug: s.Name(), ID: strings.TrimSuffix(name, Ext)})
		}
	}
	return out, nil
}

// LoadAll loads every document. The first failure aborts the whole load.
func (l *Loader) LoadAll() ([]*Document, error) {
	addrs, err := l.Paths()
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(addrs))
	for _, a := range addrs {
		d, err := l.Load(a)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func hidden(name string) bool { return strings.HasPrefix(name, ".") }
