package config

// Mode selects which of {names, content} × {files, dirs} the engine touches.
// The four flag-derived modes are mutually exclusive; Full is the default
// when no mode flag is set.
type Mode int

const (
	// Full processes both names and content, for both files and directories.
	Full Mode = iota
	// FilesOnly skips directories entirely (names and content of files only).
	FilesOnly
	// DirsOnly skips files entirely (names of directories only; directories
	// have no content to edit).
	DirsOnly
	// NamesOnly renames matching files/directories but never edits content.
	NamesOnly
	// ContentOnly edits file content but never renames anything.
	ContentOnly
)

func (m Mode) String() string {
	switch m {
	case FilesOnly:
		return "files-only"
	case DirsOnly:
		return "dirs-only"
	case NamesOnly:
		return "names-only"
	case ContentOnly:
		return "content-only"
	default:
		return "full"
	}
}

// ProcessesFiles reports whether this mode considers file entries at all.
func (m Mode) ProcessesFiles() bool { return m != DirsOnly }

// ProcessesDirs reports whether this mode considers directory entries at all.
func (m Mode) ProcessesDirs() bool { return m != FilesOnly }

// ProcessesNames reports whether this mode ever produces Renames.
func (m Mode) ProcessesNames() bool { return m != ContentOnly }

// ProcessesContent reports whether this mode ever produces ContentEdits.
func (m Mode) ProcessesContent() bool { return m != NamesOnly }

// OutputFormat selects how the Previewer and final Report are rendered.
type OutputFormat int

const (
	Human OutputFormat = iota
	Json
	Plain
	Markdown
	HTML
)

func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch s {
	case "", "human":
		return Human, true
	case "json":
		return Json, true
	case "plain":
		return Plain, true
	case "markdown", "md":
		return Markdown, true
	case "html":
		return HTML, true
	default:
		return Human, false
	}
}

func (f OutputFormat) String() string {
	switch f {
	case Json:
		return "json"
	case Plain:
		return "plain"
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	default:
		return "human"
	}
}

// ProgressMode selects when progress bars are rendered.
type ProgressMode int

const (
	ProgressAuto ProgressMode = iota
	ProgressNever
	ProgressAlways
)

func ParseProgressMode(s string) (ProgressMode, bool) {
	switch s {
	case "", "auto":
		return ProgressAuto, true
	case "never":
		return ProgressNever, true
	case "always":
		return ProgressAlways, true
	default:
		return ProgressAuto, false
	}
}

func (p ProgressMode) String() string {
	switch p {
	case ProgressNever:
		return "never"
	case ProgressAlways:
		return "always"
	default:
		return "auto"
	}
}
