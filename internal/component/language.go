package component

import "path/filepath"

// ExtMap maps each supported language to the source extensions it owns.
var ExtMap = map[string][]string{
	"haskell":    {".hs", ".lhs", ".hs-boot"},
	"python":     {".py"},
	"rescript":   {".res"},
	"golang":     {".go"},
	"rust":       {".rs"},
	"typescript": {".ts", ".tsx"},
	"purescript": {".purs"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs"},
}

var inverseExts = func() map[string]string {
	m := make(map[string]string)
	for lang, exts := range ExtMap {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}()

// LanguageForPath returns the language owning the path's extension, or "".
func LanguageForPath(path string) string {
	return inverseExts[filepath.Ext(path)]
}

// GroupByLanguage buckets components by the language of their source file.
// Records whose file path has no recognized extension are dropped; the count
// of dropped records is returned for diagnostics.
func GroupByLanguage(comps []Raw) (map[string][]Raw, int) {
	grouped := make(map[string][]Raw)
	dropped := 0
	for _, c := range comps {
		lang := LanguageForPath(c.FilePath)
		if lang == "" {
			dropped++
			continue
		}
		grouped[lang] = append(grouped[lang], c)
	}
	return grouped, dropped
}
