package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stash/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer of the kong context in ctx, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer of the kong context in ctx, or os.Stderr.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

type stdinKey struct{}

// WithStdin returns a new context.Context whose standard input source is r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinLabel identifies standard input in diagnostics.
const stdinLabel = "<stdin>"

// source is the complete text of one input and the label used to identify it
// in diagnostics.
type source struct {
	label string
	text  string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources resolves and reads each of names in order.
//
// Names other than "-" are resolved with [pkg.FindSource]. A file named more
// than once, by any path, is read only once. All occurrences of "-" are
// replaced with a single read of standard input, placed last so it follows
// all regular files. No names at all reads standard input.
func readSources(ctx context.Context, names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		srcs     []source
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := pkg.FindSource(name)
		if err != nil {
			return nil, ErrOpenSource.Wrap(err).With(slog.String("name", name))
		}

		if !markUnique(path, seen) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		srcs = append(srcs, source{label: path, text: string(data)})
	}

	if hasStdin {
		data, err := io.ReadAll(stdinFrom(ctx))
		if err != nil {
			return nil, ErrOpenSource.Wrap(pkg.ErrReadInput.Wrap(err))
		}

		srcs = append(srcs, source{label: stdinLabel, text: string(data)})
	}

	return srcs, nil
}

// readSource reads a single named source, or standard input for "" and "-".
func readSource(ctx context.Context, name string) (source, error) {
	if name == "" {
		name = stdinSource
	}

	srcs, err := readSources(ctx, []string{name})
	if err != nil {
		return source{}, err
	}

	return srcs[0], nil
}

// markUnique records path in seen and reports whether it was not already
// present. Paths that cannot be identified are always reported unique.
func markUnique(path string, seen map[fileKey]struct{}) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return true
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return true
	}

	key, ok := makeFileKey(info)
	if !ok {
		return true
	}

	if _, exists := seen[key]; exists {
		return false
	}

	seen[key] = struct{}{}

	return true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
