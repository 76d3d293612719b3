// Package discover finds the Erlang sources to scan under a set of roots.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/src-d/enry/v2"
)

const (
	erlangLanguage = "Erlang"
	shebangProbe   = 256
	// binaryProbe matches the null-byte window git uses.
	binaryProbe = 8000
)

// sourceSuffixes are the name endings of Erlang sources.
var sourceSuffixes = []string{".erl", ".hrl", ".escript", ".app.src"}

// skipDirs are never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"_build":       {},
	".rebar3":      {},
	"node_modules": {},
}

// Skip reasons.
const (
	ReasonIgnored  = "ignored"
	ReasonVendored = "vendored"
	ReasonTooLarge = "too large"
	ReasonBinary   = "binary"
)

// ErrNoRoots is returned when Files is called without roots.
var ErrNoRoots = errors.New("no input paths")

// Entry is one discovered source.
type Entry struct {
	// Path joins the root as given with the slash-separated relative path.
	Path string
	Size int64
}

// Skipped is a source left out of the scan.
type Skipped struct {
	Path   string
	Reason string
}

// Options tune discovery.
type Options struct {
	// Exclude holds gitignore-style patterns matched against paths relative to each root.
	Exclude []string
	// MaxFileSize skips larger files. Zero disables the limit.
	MaxFileSize uint64
	Logger      *slog.Logger
}

// Result lists discovered and skipped sources, each sorted by path.
type Result struct {
	Files   []Entry
	Skipped []Skipped
}

// Files walks roots and returns the Erlang sources found. A root may be a
// single file, which is taken as is except for the size limit.
func Files(ctx context.Context, roots []string, opts Options) (*Result, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &walker{opts: opts, logger: logger, seen: make(map[string]struct{}), result: &Result{}}

	for _, root := range roots {
		if err := w.root(ctx, root); err != nil {
			return nil, err
		}
	}

	sort.Slice(w.result.Files, func(i, j int) bool { return w.result.Files[i].Path < w.result.Files[j].Path })
	sort.Slice(w.result.Skipped, func(i, j int) bool { return w.result.Skipped[i].Path < w.result.Skipped[j].Path })

	return w.result, nil
}

type walker struct {
	opts   Options
	logger *slog.Logger
	seen   map[string]struct{}
	result *Result
}

func (w *walker) root(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("discover %s: %w", root, err)
	}

	if !info.IsDir() {
		w.add(filepath.ToSlash(filepath.Clean(root)), info.Size())

		return nil
	}

	gi := w.matcher(root)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}

			if gi != nil && gi.MatchesPath(rel+"/") {
				w.skip(joinPath(root, rel), ReasonIgnored)

				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || !isErlang(path, name) {
			return nil
		}

		full := joinPath(root, rel)

		switch {
		case gi != nil && gi.MatchesPath(rel):
			w.skip(full, ReasonIgnored)
		case enry.IsVendor(rel):
			w.skip(full, ReasonVendored)
		case isBinary(path):
			w.skip(full, ReasonBinary)
		default:
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}

			w.add(full, info.Size())
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("discover %s: %w", root, err)
	}

	return nil
}

// matcher compiles the exclude patterns with the root's .gitignore, if any.
func (w *walker) matcher(root string) *ignore.GitIgnore {
	lines := append([]string(nil), w.opts.Exclude...)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}

	if len(lines) == 0 {
		return nil
	}

	return ignore.CompileIgnoreLines(lines...)
}

func (w *walker) add(path string, size int64) {
	if _, dup := w.seen[path]; dup {
		return
	}

	w.seen[path] = struct{}{}

	if w.opts.MaxFileSize > 0 && uint64(size) > w.opts.MaxFileSize {
		w.logger.Warn("skipping large file", "path", path,
			"size", humanize.IBytes(uint64(size)), "limit", humanize.IBytes(w.opts.MaxFileSize))
		w.skip(path, ReasonTooLarge)

		return
	}

	w.result.Files = append(w.result.Files, Entry{Path: path, Size: size})
}

func (w *walker) skip(path, reason string) {
	w.logger.Debug("skipping path", "path", path, "reason", reason)
	w.result.Skipped = append(w.result.Skipped, Skipped{Path: path, Reason: reason})
}

func joinPath(root, rel string) string {
	return filepath.ToSlash(filepath.Join(root, filepath.FromSlash(rel)))
}

// isErlang reports whether a file holds Erlang forms: by suffix for named
// sources, by an escript shebang for extensionless scripts.
func isErlang(path, name string) bool {
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(name, suffix) {
			return enry.GetLanguage(name, nil) == erlangLanguage
		}
	}

	if filepath.Ext(name) != "" {
		return false
	}

	head, err := readHead(path, shebangProbe)
	if err != nil || len(head) < 2 || string(head[:2]) != "#!" {
		return false
	}

	for _, lang := range enry.GetLanguagesByShebang(name, head, nil) {
		if lang == erlangLanguage {
			return true
		}
	}

	return false
}

// isBinary reports whether the start of the file holds a null byte.
func isBinary(path string) bool {
	head, err := readHead(path, binaryProbe)

	return err == nil && enry.IsBinary(head)
}

func readHead(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, size)

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return buf[:n], nil
}
