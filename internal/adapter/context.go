package adapter

import (
	"path/filepath"
	"strings"

	"codegraph/internal/component"
)

// Context carries the per-invocation environment an adapter needs: the
// project root and a fallback "current file" marker for records missing
// identity fields. It is threaded explicitly down the call chain; adapters
// never consult process-wide state.
type Context struct {
	RootDir     string
	CurrentFile string
}

// NewContext derives a context from the component batch itself: the root is
// the longest common directory of all source paths, the current-file marker
// is the first record's path. Degenerate inputs yield a zero context, which
// downstream id derivation tolerates.
func NewContext(comps []component.Raw) Context {
	var ctx Context
	var paths []string
	for _, c := range comps {
		if p := sourcePath(&c); p != "" {
			paths = append(paths, p)
			if ctx.CurrentFile == "" {
				ctx.CurrentFile = p
			}
		}
	}
	ctx.RootDir = commonDir(paths)
	return ctx
}

func sourcePath(c *component.Raw) string {
	if c.FilePath != "" {
		return c.FilePath
	}
	return c.Module
}

// commonDir returns the deepest directory shared by all paths.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	common := strings.Split(filepath.ToSlash(filepath.Dir(paths[0])), "/")
	for _, p := range paths[1:] {
		parts := strings.Split(filepath.ToSlash(filepath.Dir(p)), "/")
		n := len(common)
		if len(parts) < n {
			n = len(parts)
		}
		i := 0
		for i < n && common[i] == parts[i] {
			i++
		}
		common = common[:i]
	}
	return strings.Join(common, "/")
}

// resolveRelative joins a relative import specifier against the importing
// file's directory and normalizes the result. Bare specifiers are returned
// unchanged.
func resolveRelative(fromFile, spec string) string {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return spec
	}
	joined := filepath.Join(filepath.Dir(fromFile), spec)
	return filepath.ToSlash(joined)
}

// ensureExt appends the language's canonical source extension unless the
// path already carries one of the accepted extensions.
func ensureExt(path, canonical string, accepted ...string) string {
	ext := filepath.Ext(path)
	for _, a := range accepted {
		if ext == a {
			return path
		}
	}
	if ext == canonical {
		return path
	}
	return path + canonical
}
