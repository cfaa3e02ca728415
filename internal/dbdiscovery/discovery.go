package dbdiscovery

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pleme-io/codesearch/internal/manifest"
)

// DefaultIndexDirName is the directory name checked first, then at each
// ancestor, adopted verbatim from the original implementation's fixed
// on-disk name.
const DefaultIndexDirName = ".codesearch.db"

// maxAncestorDepth bounds the upward walk so a deeply nested working
// directory never scans all the way to the filesystem root.
const maxAncestorDepth = 10

// DefaultConfigDirName is the per-user fallback root, also adopted from
// the original; index directories for repositories outside any ancestor
// chain live under it, one per slug of the repository's absolute path.
const DefaultConfigDirName = ".codesearch"

// IndexPath identifies a located, integrity-checked index directory. The
// three fields beyond Dir exist for callers that want to log or surface
// why a particular directory was chosen (engine.Open does).
type IndexPath struct {
	// Dir is the directory holding manifest.json, vectors/, fts/, meta/.
	Dir string
	// ProjectRoot is the directory Dir was found relative to: the
	// ancestor whose child .codesearch.db matched, or the original
	// start_dir for a global-fallback hit.
	ProjectRoot string
	// Depth is 0 for start_dir itself, 1 for its parent, and so on; -1
	// for a global-fallback hit.
	Depth int
	// Global reports whether Dir came from the $HOME/.codesearch fallback
	// rather than an ancestor's .codesearch.db.
	Global bool
}

// Locate checks startDir/.codesearch.db, then the same name in each ancestor
// up to maxAncestorDepth, then the global fallback
// $HOME/.codesearch/<slug of startDir>. No other directory name is
// recognized as an index. It returns the
// first candidate that passes the integrity check, or (nil, nil) if none
// does. Locate never creates an index.
func Locate(startDir string, logger *slog.Logger) (*IndexPath, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	dir := abs
	for depth := 0; depth <= maxAncestorDepth; depth++ {
		candidate := filepath.Join(dir, DefaultIndexDirName)
		if hit, missing := checkIntegrity(candidate); hit {
			return &IndexPath{Dir: candidate, ProjectRoot: dir, Depth: depth}, nil
		} else if missing != nil {
			logger.Warn("skipping incomplete index", "dir", candidate, "missing", missing)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	globalCandidate := filepath.Join(home, DefaultConfigDirName, Slug(abs))
	if hit, missing := checkIntegrity(globalCandidate); hit {
		return &IndexPath{Dir: globalCandidate, ProjectRoot: abs, Depth: -1, Global: true}, nil
	} else if missing != nil {
		logger.Warn("skipping incomplete global index", "dir", globalCandidate, "missing", missing)
	}

	return nil, nil
}

// checkIntegrity reports whether dir is a valid index directory. When dir
// exists but fails the check, it returns the specific missing or invalid
// component names rather than a bare false.
func checkIntegrity(dir string) (ok bool, missing []string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return false, nil
	}

	if _, err := manifest.Load(dir); err != nil {
		missing = append(missing, "manifest.json")
	}
	for _, sub := range []string{"vectors", "fts", "meta"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			missing = append(missing, sub+"/")
		}
	}

	return len(missing) == 0, missing
}

// Slug derives a filesystem-safe directory name from an absolute path, for
// use under the global fallback root. It is a pure function of path, not a
// hash: two runs on the same path always agree.
func Slug(absPath string) string {
	cleaned := strings.TrimPrefix(filepath.ToSlash(absPath), "/")
	replacer := strings.NewReplacer("/", "_", ":", "_", " ", "_")
	return replacer.Replace(cleaned)
}
