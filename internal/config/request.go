package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/jowharshamshiri/refac/internal/refacerr"
)

// MatcherOptions configures how the Matcher compiles pattern/substitute.
type MatcherOptions struct {
	IgnoreCase bool
	UseRegex   bool
}

// TraversalOptions configures the Walker.
type TraversalOptions struct {
	FollowSymlinks bool
	IncludeHidden  bool
	// MaxDepth of 0 means unlimited. Root is depth 0.
	MaxDepth      int
	IncludeGlobs  []string
	ExcludeGlobs  []string
}

// ExecutionOptions configures the Confirmer and Executor.
type ExecutionOptions struct {
	// Threads is the worker pool size for the content-edit phase. 0 means
	// auto (runtime.NumCPU()).
	Threads      int
	Backup       bool
	BinaryNames  bool
	AssumeYes    bool
	Verbose      bool
	ProgressMode ProgressMode
	OutputFormat OutputFormat
}

// ResolvedThreads returns Threads, resolving 0 to the host's available
// parallelism the way the original tool's Args.get_thread_count does.
func (e ExecutionOptions) ResolvedThreads() int {
	if e.Threads != 0 {
		return e.Threads
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}

// Request is the immutable, validated configuration shared read-only with
// every downstream component. Construct it with New; never mutate a Request
// after construction.
type Request struct {
	Root       string
	Pattern    string
	Substitute string
	Mode       Mode
	Matcher    MatcherOptions
	Traversal  TraversalOptions
	Execution  ExecutionOptions
}

// New validates the supplied fields and returns a frozen Request. Every
// failure is wrapped in refacerr.ErrInvalidConfig.
func New(root, pattern, substitute string, mode Mode, matcher MatcherOptions, traversal TraversalOptions, execution ExecutionOptions) (*Request, error) {
	if pattern == "" {
		return nil, invalid("pattern cannot be empty")
	}
	if substitute == "" {
		return nil, invalid("substitute cannot be empty")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, invalid(fmt.Sprintf("root directory does not exist: %s", root))
	}
	if !info.IsDir() {
		return nil, invalid(fmt.Sprintf("root path is not a directory: %s", root))
	}

	if mode.ProcessesNames() && (strings.Contains(substitute, "/") || strings.Contains(substitute, "\\")) {
		return nil, invalid("substitute cannot contain path separators (/ or \\) when processing names")
	}

	if matcher.UseRegex {
		pat := pattern
		if matcher.IgnoreCase {
			pat = "(?i)" + pat
		}
		if _, err := regexp.Compile(pat); err != nil {
			return nil, invalid(fmt.Sprintf("invalid regex pattern: %v", err))
		}
	}

	if execution.Threads > 1000 {
		return nil, invalid("thread count cannot exceed 1000")
	}
	if traversal.MaxDepth > 1000 {
		return nil, invalid("max depth cannot exceed 1000")
	}
	if traversal.MaxDepth < 0 {
		return nil, invalid("max depth cannot be negative")
	}
	if execution.Threads < 0 {
		return nil, invalid("thread count cannot be negative")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, invalid(fmt.Sprintf("failed to resolve root path: %v", err))
	}

	return &Request{
		Root:       absRoot,
		Pattern:    pattern,
		Substitute: substitute,
		Mode:       mode,
		Matcher:    matcher,
		Traversal:  traversal,
		Execution:  execution,
	}, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%s: %w", msg, refacerr.ErrInvalidConfig)
}
