package adapter

import (
	"regexp"
	"strings"
)

// importEntry records where a locally visible name came from: the resolved
// target module plus the exported name, "default", or the "*" wildcard for
// namespace imports.
type importEntry struct {
	module string
	name   string
}

// importTable maps file -> local name -> import entry.
type importTable map[string]map[string]importEntry

func (t importTable) add(file, local string, entry importEntry) {
	if t[file] == nil {
		t[file] = make(map[string]importEntry)
	}
	t[file][local] = entry
}

func (t importTable) lookup(file, local string) (importEntry, bool) {
	entry, ok := t[file][local]
	return entry, ok
}

var (
	namedImportRe     = regexp.MustCompile(`^\s*import\s*\{([^}]+)\}\s*from\s*['"](.+?)['"]`)
	defaultImportRe   = regexp.MustCompile(`^\s*import\s+([A-Za-z0-9_$]+)\s+from\s*['"](.+?)['"]`)
	namespaceImportRe = regexp.MustCompile(`^\s*import\s+\*\s+as\s+([A-Za-z0-9_$]+)\s*from\s*['"](.+?)['"]`)
)

// parseESImport parses one ES import statement into table entries for the
// importing file. Relative specifiers are resolved against the file's
// directory and given the language's canonical extension; bare (package)
// specifiers are kept as-is, extension appended.
func parseESImport(table importTable, file, stmt, canonicalExt string, acceptedExts []string) {
	resolve := func(spec string) string {
		target := spec
		if strings.HasPrefix(spec, ".") {
			target = resolveRelative(file, spec)
		}
		return ensureExt(target, canonicalExt, acceptedExts...)
	}

	if m := namedImportRe.FindStringSubmatch(stmt); m != nil {
		target := resolve(m[2])
		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if orig, alias, ok := strings.Cut(name, " as "); ok {
				table.add(file, strings.TrimSpace(alias), importEntry{target, strings.TrimSpace(orig)})
			} else {
				table.add(file, name, importEntry{target, name})
			}
		}
		return
	}
	if m := namespaceImportRe.FindStringSubmatch(stmt); m != nil {
		table.add(file, m[1], importEntry{resolve(m[2]), "*"})
		return
	}
	if m := defaultImportRe.FindStringSubmatch(stmt); m != nil {
		table.add(file, m[1], importEntry{resolve(m[2]), "default"})
	}
}

// exportIndex tracks, per module, the declared name behind the default
// export (if the extractor captured it) and the set of named exports.
type exportIndex map[string]*moduleExports

type moduleExports struct {
	defaultName string
	named       map[string]bool
}

func (x exportIndex) record(module, name string, isDefault bool) {
	info := x[module]
	if info == nil {
		info = &moduleExports{named: make(map[string]bool)}
		x[module] = info
	}
	if isDefault {
		if name != "" && name != "default" {
			info.defaultName = name
		}
		return
	}
	if name != "" {
		info.named[name] = true
	}
}

// defaultNameOf returns the declared name behind a module's default export,
// falling back to the literal "default".
func (x exportIndex) defaultNameOf(module string) string {
	if info := x[module]; info != nil && info.defaultName != "" {
		return info.defaultName
	}
	return "default"
}
