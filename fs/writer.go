// Package fs exports graph nodes as markdown files.
package fs

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/webgraph"
)

// URLToPath converts a node URL to a relative file path rooted at the host,
// since a graph may span several sites.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", webgraph.Errorf(webgraph.EINVALID, "invalid URL %q", rawURL)
	}
	host := u.Hostname()
	if host == "" {
		return "", webgraph.Errorf(webgraph.EINVALID, "URL has no host: %q", rawURL)
	}
	if port := u.Port(); port != "" {
		host += "_" + port
	}

	if slices.Contains(strings.Split(u.Path, "/"), "..") {
		return "", webgraph.Errorf(webgraph.EINVALID, "path traversal in URL %q", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path += ".md"
	}
	return host + "/" + path, nil
}

// FormatNode formats a node as markdown with YAML front matter.
// The fetched line is omitted for nodes that were never fetched.
func FormatNode(node *webgraph.Node) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(node.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(node.DisplayTitle())
	if !node.FetchedAt.IsZero() {
		b.WriteString("\nfetched: ")
		b.WriteString(node.FetchedAt.Format("2006-01-02"))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(node.Content)
	return b.String()
}

// Ensure Writer implements webgraph.NodeWriter at compile time.
var _ webgraph.NodeWriter = (*Writer)(nil)

// MarkerFile is written into every committed export. A directory holding it
// may be replaced by a later export.
const MarkerFile = ".webgraph-export"

// Writer writes nodes as markdown files. Files are staged in a temporary
// sibling of baseDir/name and moved into place on Commit, so a failed export
// never leaves a half-written directory behind. The old directory is removed
// just before the move.
//
// An existing directory is only replaced when it is empty, holds MarkerFile,
// or Force is set. The filesystem root is never replaced.
type Writer struct {
	baseDir string
	name    string
	tmp     string

	// Force replaces an existing directory that no export wrote.
	Force bool
}

// NewWriter creates a Writer exporting to baseDir/name.
func NewWriter(baseDir, name string) *Writer {
	return &Writer{baseDir: baseDir, name: name}
}

// Dir returns the final export directory.
func (w *Writer) Dir() string {
	return filepath.Join(w.baseDir, w.name)
}

// stage returns the staging directory, creating it on first use.
func (w *Writer) stage() (string, error) {
	if w.tmp != "" {
		return w.tmp, nil
	}
	if err := checkDir(w.Dir()); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.MkdirTemp(w.baseDir, w.name+".tmp-")
	if err != nil {
		return "", err
	}
	w.tmp = tmp
	return tmp, nil
}

// WriteNode stages a node as a markdown file.
func (w *Writer) WriteNode(ctx context.Context, node *webgraph.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(node.URL)
	if err != nil {
		return err
	}

	tmp, err := w.stage()
	if err != nil {
		return err
	}
	fullPath := filepath.Join(tmp, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatNode(node)), 0o644)
}

// Commit replaces the export directory with the staged files. Committing
// with nothing staged leaves a directory holding only MarkerFile. Returns
// ECONFLICT if the directory may not be replaced; the staged files are kept
// for Abort.
func (w *Writer) Commit() error {
	tmp, err := w.stage()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tmp, MarkerFile), nil, 0o644); err != nil {
		return err
	}

	dir := w.Dir()
	if err := w.checkReplace(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.Rename(tmp, dir); err != nil {
		return err
	}
	w.tmp = ""
	return nil
}

// Abort discards the staged files.
func (w *Writer) Abort() error {
	if w.tmp == "" {
		return nil
	}
	err := os.RemoveAll(w.tmp)
	w.tmp = ""
	return err
}

// checkReplace returns ECONFLICT if dir holds files no export wrote.
func (w *Writer) checkReplace(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 || w.Force {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
		return nil
	}
	return webgraph.Errorf(webgraph.ECONFLICT, "%s is not empty and was not written by an export; use --force to replace it", dir)
}

// checkDir rejects directories that are their own parent, such as "/".
func checkDir(dir string) error {
	dir = filepath.Clean(dir)
	if filepath.Dir(dir) == dir {
		return webgraph.Errorf(webgraph.EINVALID, "cannot export to %s; choose a subdirectory", dir)
	}
	return nil
}
