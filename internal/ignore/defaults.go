package ignore

// AlwaysExcluded is merged into every Matcher's built-in layer regardless of
// any .gitignore/.ignore/.codesearchignore content: the index's own
// artifact directories, VCS metadata, and the dependency/build caches of the
// languages this core chunks.
var AlwaysExcluded = []string{
	// the index's own directories
	".codesearch",
	".codesearch.db",
	".codesearch.dbs",
	".writer.lock",

	// version control
	".git",
	".svn",
	".hg",

	// build output
	"node_modules",
	"target",
	"dist",
	"build",
	"out",
	"vendor",
	"bower_components",
	"bin",
	"obj",

	// language dependency/tool caches
	"__pycache__",
	".pytest_cache",
	".tox",
	"venv",
	".venv",
	".bundle",
	".gradle",
	".m2",

	// IDE / editor
	".idea",
	".vscode",
	".vs",

	// coverage / misc caches
	"coverage",
	".nyc_output",
	".cache",
}

// DefaultIgnorePatterns extends AlwaysExcluded with glob-shaped patterns for
// files that are never useful chunk sources: editor swap files, OS
// metadata, compiled/binary artifacts, archives, media, and lock files.
// Unlike AlwaysExcluded these are patterns (may contain doublestar glob
// metacharacters), not bare names.
var DefaultIgnorePatterns = []string{
	// IDE / editor
	"*.swp",
	"*.swo",
	"*~",

	// OS files
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// compiled / binary
	"*.exe",
	"*.dll",
	"*.so",
	"*.dylib",
	"*.o",
	"*.a",
	"*.lib",
	"*.class",
	"*.jar",
	"*.war",
	"*.pyc",
	"*.pyo",

	// archives
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",
	"*.rar",
	"*.7z",

	// images / fonts / media
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.bmp",
	"*.ico",
	"*.webp",
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.eot",
	"*.otf",
	"*.mp3",
	"*.mp4",
	"*.avi",
	"*.mov",
	"*.wav",

	// documents
	"*.pdf",
	"*.doc",
	"*.docx",
	"*.xls",
	"*.xlsx",
	"*.ppt",
	"*.pptx",

	// minified / generated
	"*.min.js",
	"*.min.css",
	"*.map",

	// lock files
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Gemfile.lock",
	"poetry.lock",
	"Cargo.lock",
	"go.sum",
	"composer.lock",

	// logs / local databases
	"*.log",
	"*.sqlite",
	"*.sqlite3",
	"*.db",
}
