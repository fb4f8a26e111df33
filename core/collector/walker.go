package collector

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// perFileCapBytes rejects any single file larger than this.
	perFileCapBytes = 50 * 1024
	// totalCapBytes stops collection once the running total reaches this.
	totalCapBytes = 300 * 1024
)

// excludeDirNames is the fixed set of directory names pruned from traversal.
// Any entry starting with "." is also excluded (handled separately), except
// .github, which is pruned except for .github/workflows.
var excludeDirNames = map[string]bool{
	"node_modules": true, "__pycache__": true, "venv": true, ".venv": true,
	"dist": true, "build": true, ".next": true, ".nuxt": true, "coverage": true,
	"vendor": true,
	"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
	"docs": true, "doc": true,
	"examples": true, "example": true,
	"fixtures": true, "e2e": true, "benchmarks": true,
	".tox": true, ".eggs": true, "htmlcov": true,
}

// binaryExtensions are opaque-binary extensions rejected outright.
var binaryExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".svg": true, ".tiff": true,
	// fonts
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// audio/video
	".mp3": true, ".mp4": true, ".wav": true, ".ogg": true, ".mov": true,
	".avi": true, ".mkv": true, ".flac": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true,
	// compiled / binary artefacts
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".o": true,
	".a": true, ".class": true, ".pyc": true, ".pyo": true, ".wasm": true,
	// database
	".db": true, ".sqlite": true, ".sqlite3": true,
	// lockfiles / source maps / minified / declaration bundles
	".map": true,
}

// binaryBasenameSuffixes handles compound-suffix cases that a single
// extension check misses.
var binaryBasenameSuffixes = []string{
	".min.js", ".min.css", ".d.ts",
}

// lockfileNames are skipped as opaque (too large, not human-authored).
var lockfileNames = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"poetry.lock": true, "Cargo.lock": true, "Gemfile.lock": true,
	"go.sum": true,
}

// Walk performs a bounded, symlink-safe depth-first traversal of root and
// returns the collected File Entries in deterministic lexical order.
func Walk(root string) ([]FileEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	canonicalRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		canonicalRoot = absRoot
	}

	w := &walker{
		visitedDirs: make(map[string]bool),
	}
	w.visitedDirs[canonicalRoot] = true

	w.walkDir(absRoot, "")

	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Path < w.entries[j].Path })
	return w.entries, nil
}

type walker struct {
	entries     []FileEntry
	visitedDirs map[string]bool
	totalBytes  int
	budgetDone  bool
}

// walkDir recurses depth-first in lexical order. relPath is "" at the root.
func (w *walker) walkDir(absDir, relPath string) {
	if w.budgetDone {
		return
	}

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		return // collection errors are swallowed, never fatal.
	}

	names := make([]string, 0, len(dirEntries))
	byName := make(map[string]os.DirEntry, len(dirEntries))
	for _, de := range dirEntries {
		names = append(names, de.Name())
		byName[de.Name()] = de
	}
	sort.Strings(names)

	for _, name := range names {
		if w.budgetDone {
			return
		}
		de := byName[name]
		absChild := filepath.Join(absDir, name)
		relChild := name
		if relPath != "" {
			relChild = relPath + "/" + name
		}

		if de.IsDir() {
			w.visitDir(absChild, relChild, name)
			continue
		}

		// Symlinks whose target is a directory are skipped unconditionally;
		// symlinks to files are allowed through to the normal file path,
		// where os.ReadFile transparently follows them.
		if de.Type()&os.ModeSymlink != 0 {
			info, statErr := os.Stat(absChild)
			if statErr != nil {
				continue
			}
			if info.IsDir() {
				continue
			}
		}

		// Files directly under .github are pruned; only workflows/ is kept.
		if relPath == ".github" {
			continue
		}

		w.visitFile(absChild, relChild, name)
	}
}

func (w *walker) visitDir(absChild, relChild, name string) {
	if shouldExcludeDir(relChild, name) {
		return
	}

	canonical, err := filepath.EvalSymlinks(absChild)
	if err != nil {
		canonical = absChild
	}
	if w.visitedDirs[canonical] {
		return
	}
	w.visitedDirs[canonical] = true

	w.walkDir(absChild, relChild)
}

// shouldExcludeDir applies the fixed exclusion rules, including the
// .github/workflows carve-out.
func shouldExcludeDir(relPath, name string) bool {
	if name == ".github" {
		return false // descend; workflows/ is kept, other .github/* contents pruned below.
	}
	if strings.HasPrefix(relPath, ".github/") && name != "workflows" {
		// Only prune non-workflows subdirectories directly under .github.
		parts := strings.SplitN(relPath, "/", 3)
		if len(parts) >= 2 && parts[1] != "workflows" && strings.Count(relPath, "/") == 1 {
			return true
		}
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return excludeDirNames[name]
}

func (w *walker) visitFile(absPath, relPath, name string) {
	if isBinaryFile(name) {
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return
	}
	size := int(info.Size())
	if size == 0 || size > perFileCapBytes {
		return
	}

	if w.totalBytes+size > totalCapBytes {
		w.budgetDone = true
		return
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return
	}
	if !utf8.Valid(data) {
		return
	}

	w.totalBytes += size
	w.entries = append(w.entries, FileEntry{
		Path:    relPath,
		Content: string(data),
		Size:    size,
	})
}

func isBinaryFile(name string) bool {
	lower := strings.ToLower(name)
	if lockfileNames[name] {
		return true
	}
	for _, suffix := range binaryBasenameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	ext := filepath.Ext(lower)
	return binaryExtensions[ext]
}
