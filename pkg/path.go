package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// DirMode is the permission mode of directories created by [MkdirAll].
const DirMode os.FileMode = 0o700

// Prefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory path used for transient files such as
// the REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(os.UserCacheDir, ".cache")
	},
)

// userDir joins [Prefix] to the directory reported by lookup. If lookup
// fails, the hidden directory home under the user's home directory is used,
// then the working directory.
func userDir(lookup func() (string, error), home string) string {
	dir, err := lookup()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, home)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigPath returns the path formed by joining [ConfigDir] with elem.
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// CachePath returns the path formed by joining [CacheDir] with elem.
func CachePath(elem ...string) string {
	return filepath.Join(append([]string{CacheDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return ErrMakeDir.Wrap(err)
		}
	}

	return nil
}

// PathEnv returns the name of the environment variable listing additional
// source directories, such as STASH_PATH.
func PathEnv() string {
	return strings.ToUpper(Name) + "_PATH"
}

// SearchPath returns the directories searched for a relative source path:
// the working directory, then each entry of [PathEnv] in order. Empty and
// repeated entries are dropped.
func SearchPath() []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv())),
		mung.WithDelim(sep),
		mung.WithPrefixItems("."),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(joined, sep) {
		if dir = strings.TrimSpace(dir); dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// FindSource resolves name to an existing file. Absolute names and names
// beginning with "./" or "../" are used as given. Other names are tried in
// each directory of [SearchPath], first as given and then with [FileExt]
// appended.
func FindSource(name string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) != FileExt {
		candidates = append(candidates, name+FileExt)
	}

	if filepath.IsAbs(name) || isExplicitlyRelative(name) {
		for _, c := range candidates {
			if isFile(c) {
				return c, nil
			}
		}

		return "", ErrSourceNotFound.Wrapf("%s", name)
	}

	for _, dir := range SearchPath() {
		for _, c := range candidates {
			if path := filepath.Join(dir, c); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrSourceNotFound.Wrapf("%s (searched %s)",
		name, strings.Join(SearchPath(), string(os.PathListSeparator)))
}

func isExplicitlyRelative(name string) bool {
	for _, p := range []string{".", ".."} {
		if name == p || strings.HasPrefix(name, p+string(filepath.Separator)) ||
			strings.HasPrefix(name, p+"/") {
			return true
		}
	}

	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
