// Package walker implements the Walker (C3): a single-threaded, bounded-depth
// directory traversal honoring hidden-file, symlink, depth, and glob filters,
// per spec §4.2.
package walker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jowharshamshiri/refac/internal/matcher"
	"github.com/jowharshamshiri/refac/internal/report"
)

// Kind classifies a Candidate.
type Kind int

const (
	File Kind = iota
	Dir
	Symlink
)

func (k Kind) String() string {
	switch k {
	case Dir:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "file"
	}
}

// Candidate is one filesystem entry emitted by the Walker that passed the
// coarse filters (hidden, depth, glob, symlink policy).
type Candidate struct {
	Path  string
	Kind  Kind
	Depth int
}

// Options configures traversal. It mirrors config.TraversalOptions, with the
// include/exclude globs held as a matcher.GlobFilter; the CLI layer adapts
// one to the other.
type Options struct {
	FollowSymlinks bool
	IncludeHidden  bool
	// MaxDepth of 0 means unlimited. Root is depth 0.
	MaxDepth int
	Globs    matcher.GlobFilter
}

// visitKey identifies a directory for symlink-cycle detection. Path-based
// detection fails under bind mounts, so device+inode is used instead, per
// spec §9.
type visitKey struct {
	dev, ino uint64
}

// Walk traverses root and invokes emit for every Candidate in deterministic
// order: lexicographic, directories before files at each level. Walk itself
// is single-threaded; emit may be called many times before Walk returns.
// Unreadable directories are reported via sink.Warn and their subtree is
// skipped; Walk otherwise continues.
func Walk(root string, opts Options, sink report.Sink, emit func(Candidate)) error {
	if sink == nil {
		sink = report.NopSink{}
	}

	visited := make(map[visitKey]struct{})

	rootInfo, err := os.Lstat(root)
	if err != nil {
		return err
	}
	if key, ok := deviceInode(rootInfo); ok {
		visited[key] = struct{}{}
	}

	return walkDir(root, 0, opts, sink, visited, emit)
}

func walkDir(dir string, depth int, opts Options, sink report.Sink, visited map[visitKey]struct{}, emit func(Candidate)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		sink.Warn("skipping unreadable directory %s: %v", dir, err)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	for _, e := range append(dirs, files...) {
		name := e.Name()
		path := filepath.Join(dir, name)
		childDepth := depth + 1

		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		if opts.MaxDepth != 0 && childDepth > opts.MaxDepth {
			continue
		}

		// Exclude legitimately prunes a whole subtree; Include is a leaf
		// filter and must never block descent (spec §4.1, original_source
		// src/refac/cli.rs:62 documents --include as a file filter).
		if opts.Globs.Excludes(name) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			sink.Warn("skipping unreadable entry %s: %v", path, err)
			continue
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0
		emitAllowed := opts.Globs.Allows(name)

		switch {
		case isSymlink:
			if emitAllowed {
				emit(Candidate{Path: path, Kind: Symlink, Depth: childDepth})
			}
			if opts.FollowSymlinks {
				target, err := os.Stat(path)
				if err != nil || !target.IsDir() {
					continue
				}
				if key, ok := deviceInode(target); ok {
					if _, seen := visited[key]; seen {
						continue
					}
					visited[key] = struct{}{}
				}
				if err := walkDir(path, childDepth, opts, sink, visited, emit); err != nil {
					return err
				}
			}

		case info.IsDir():
			if emitAllowed {
				emit(Candidate{Path: path, Kind: Dir, Depth: childDepth})
			}
			if err := walkDir(path, childDepth, opts, sink, visited, emit); err != nil {
				return err
			}

		default:
			if emitAllowed {
				emit(Candidate{Path: path, Kind: File, Depth: childDepth})
			}
		}
	}

	return nil
}
