package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/executor"
	"github.com/jowharshamshiri/refac/internal/filelock"
	"github.com/jowharshamshiri/refac/internal/history"
	"github.com/jowharshamshiri/refac/internal/logger"
	"github.com/jowharshamshiri/refac/internal/matcher"
	"github.com/jowharshamshiri/refac/internal/planner"
	"github.com/jowharshamshiri/refac/internal/previewer"
	"github.com/jowharshamshiri/refac/internal/refacerr"
	"github.com/jowharshamshiri/refac/internal/report"
	"github.com/jowharshamshiri/refac/internal/walker"
)

// NewRefacCommand builds the primary rename-and-rewrite command: the engine
// itself, wired onto the root command's positional args and flags per spec §6.
func NewRefacCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refac ROOT_DIR PATTERN SUBSTITUTE",
		Short: "Recursively rename files/directories and rewrite their content",
		Long: `refac walks ROOT_DIR, finds every name and file content that matches
PATTERN, and replaces it with SUBSTITUTE. It previews the resulting plan
before applying it, unless run with --assume-yes.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runRefac,
	}

	registerRefacFlags(cmd)
	return cmd
}

func registerRefacFlags(cmd *cobra.Command) {
	defaults := config.DefaultDefaults()
	if loaded, err := config.LoadDefaults(); err == nil {
		defaults = loaded
	}

	cmd.Flags().BoolP("assume-yes", "y", false, "apply the plan without prompting for confirmation")
	cmd.Flags().BoolP("verbose", "v", false, "print operational trace output")
	cmd.Flags().BoolP("backup", "b", defaults.Backup, "write a .bak copy before editing a file's content")
	cmd.Flags().Bool("follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().Bool("files-only", false, "only rename/rewrite files, skip directory names")
	cmd.Flags().Bool("dirs-only", false, "only rename directories, skip file names and content")
	cmd.Flags().Bool("names-only", false, "rename matching names but never edit file content")
	cmd.Flags().Bool("content-only", false, "edit file content but never rename anything")
	cmd.Flags().Int("max-depth", 0, "maximum traversal depth below ROOT_DIR (0 = unlimited)")
	cmd.Flags().StringArray("include", nil, "only consider basenames matching this glob (repeatable)")
	cmd.Flags().StringArray("exclude", nil, "skip basenames matching this glob (repeatable)")
	cmd.Flags().String("format", defaults.Format, "output format: human, json, plain, markdown, or html")
	cmd.Flags().IntP("threads", "j", defaults.Threads, "content-edit worker count (0 = auto)")
	cmd.Flags().String("progress", defaults.Progress, "progress bar mode: auto, never, or always")
	cmd.Flags().BoolP("ignore-case", "i", false, "case-insensitive matching")
	cmd.Flags().BoolP("regex", "r", false, "treat PATTERN as a regular expression")
	cmd.Flags().Bool("include-hidden", false, "include dotfiles and dot-directories")
	cmd.Flags().Bool("binary-names", defaults.BinaryNames, "allow renaming files mimetype sniffs as binary")
	cmd.Flags().Bool("no-history", false, "don't record this run in the history store")
}

func runRefac(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sink := logger.NewConsoleLogger(cmd.ErrOrStderr(), req.Execution.Verbose)

	m, err := matcher.New(req.Pattern, req.Substitute, matcher.Options{
		IgnoreCase: req.Matcher.IgnoreCase,
		UseRegex:   req.Matcher.UseRegex,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", err, refacerr.ErrInvalidConfig)
	}

	var candidates []walker.Candidate
	walkOpts := walker.Options{
		FollowSymlinks: req.Traversal.FollowSymlinks,
		IncludeHidden:  req.Traversal.IncludeHidden,
		MaxDepth:       req.Traversal.MaxDepth,
		Globs:          matcher.GlobFilter{Include: req.Traversal.IncludeGlobs, Exclude: req.Traversal.ExcludeGlobs},
	}
	if err := walker.Walk(req.Root, walkOpts, sink, func(c walker.Candidate) {
		candidates = append(candidates, c)
	}); err != nil {
		return fmt.Errorf("walk %s: %w", req.Root, err)
	}

	plan, err := planner.Build(req, m, candidates, sink)
	if err != nil {
		return err
	}

	// Advisory lock on the root guards the mutating phase below against a
	// second concurrent refac run touching the same tree (e.g. two --backup
	// writes racing on the same file). Held only across planning's apply,
	// not the read-only walk/plan above.
	runLock := filelock.NewFileLock(filepath.Join(req.Root, ".refac.lock"))
	acquired, err := runLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return refacerr.ErrRunLocked
	}
	defer func() {
		runLock.Unlock()
		os.Remove(runLock.Path())
	}()

	if req.Execution.OutputFormat == config.Human || req.Execution.OutputFormat == config.Plain {
		previewer.RenderSummary(out, req, plan, req.Execution.OutputFormat)
		previewer.RenderDiffPreview(out, plan)
		previewer.RenderSkipNotices(out, plan)
	}

	stdinIsTTY := previewer.IsTerminalFd(os.Stdin.Fd())
	prompter := previewer.StdPrompter{In: cmd.InOrStdin(), Out: out}
	if _, err := previewer.Confirm(req, prompter, stdinIsTTY); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			sink.Warn("received interrupt, finishing in-flight operations")
			cancel()
		case <-ctx.Done():
		}
	}()

	rep := report.New(req.Root, req.Pattern, req.Substitute)

	var prog *executor.Progress
	if showProgress(req.Execution.ProgressMode) {
		prog = &executor.Progress{
			Edits:   logger.NewProgressBar(len(plan.Edits), 30, true),
			Renames: logger.NewProgressBar(len(plan.Renames), 30, true),
		}
	}

	if err := executor.Run(ctx, req, plan, rep, sink, prog); err != nil {
		return err
	}
	if prog != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), prog.Edits.Render())
		fmt.Fprintln(cmd.ErrOrStderr(), prog.Renames.Render())
	}

	switch req.Execution.OutputFormat {
	case config.Json:
		if err := rep.RenderJSON(out); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	case config.Plain:
		rep.RenderPlain(out)
	case config.Markdown:
		rep.RenderMarkdown(out)
	case config.HTML:
		if err := rep.RenderHTML(out); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	default:
		rep.RenderHuman(out)
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		if err := recordHistory(rep); err != nil {
			sink.Warn("failed to record run history: %v", err)
		}
	}

	if ctx.Err() != nil {
		return refacerr.ErrCancelled
	}
	return nil
}

func buildRequest(cmd *cobra.Command, args []string) (*config.Request, error) {
	flags := cmd.Flags()

	assumeYes, _ := flags.GetBool("assume-yes")
	verbose, _ := flags.GetBool("verbose")
	backup, _ := flags.GetBool("backup")
	followSymlinks, _ := flags.GetBool("follow-symlinks")
	filesOnly, _ := flags.GetBool("files-only")
	dirsOnly, _ := flags.GetBool("dirs-only")
	namesOnly, _ := flags.GetBool("names-only")
	contentOnly, _ := flags.GetBool("content-only")
	maxDepth, _ := flags.GetInt("max-depth")
	includes, _ := flags.GetStringArray("include")
	excludes, _ := flags.GetStringArray("exclude")
	formatStr, _ := flags.GetString("format")
	threads, _ := flags.GetInt("threads")
	progressStr, _ := flags.GetString("progress")
	ignoreCase, _ := flags.GetBool("ignore-case")
	useRegex, _ := flags.GetBool("regex")
	includeHidden, _ := flags.GetBool("include-hidden")
	binaryNames, _ := flags.GetBool("binary-names")

	mode, err := resolveMode(filesOnly, dirsOnly, namesOnly, contentOnly)
	if err != nil {
		return nil, err
	}

	format, ok := config.ParseOutputFormat(formatStr)
	if !ok {
		return nil, fmt.Errorf("invalid --format %q: must be human, json, plain, markdown, or html: %w", formatStr, refacerr.ErrInvalidConfig)
	}
	progressMode, ok := config.ParseProgressMode(progressStr)
	if !ok {
		return nil, fmt.Errorf("invalid --progress %q: must be auto, never, or always: %w", progressStr, refacerr.ErrInvalidConfig)
	}

	return config.New(args[0], args[1], args[2], mode,
		config.MatcherOptions{IgnoreCase: ignoreCase, UseRegex: useRegex},
		config.TraversalOptions{
			FollowSymlinks: followSymlinks,
			IncludeHidden:  includeHidden,
			MaxDepth:       maxDepth,
			IncludeGlobs:   includes,
			ExcludeGlobs:   excludes,
		},
		config.ExecutionOptions{
			Threads:      threads,
			Backup:       backup,
			BinaryNames:  binaryNames,
			AssumeYes:    assumeYes,
			Verbose:      verbose,
			ProgressMode: progressMode,
			OutputFormat: format,
		})
}

func resolveMode(filesOnly, dirsOnly, namesOnly, contentOnly bool) (config.Mode, error) {
	set := 0
	for _, v := range []bool{filesOnly, dirsOnly, namesOnly, contentOnly} {
		if v {
			set++
		}
	}
	if set > 1 {
		return config.Full, fmt.Errorf("--files-only, --dirs-only, --names-only, and --content-only are mutually exclusive: %w", refacerr.ErrInvalidConfig)
	}

	switch {
	case filesOnly:
		return config.FilesOnly, nil
	case dirsOnly:
		return config.DirsOnly, nil
	case namesOnly:
		return config.NamesOnly, nil
	case contentOnly:
		return config.ContentOnly, nil
	default:
		return config.Full, nil
	}
}

func showProgress(mode config.ProgressMode) bool {
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressNever:
		return false
	default:
		return previewer.IsTerminalFd(os.Stdout.Fd())
	}
}

func recordHistory(rep *report.Report) error {
	home, err := config.Home()
	if err != nil {
		return err
	}
	store, err := history.Open(history.DefaultPath(home))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(context.Background(), rep)
}
