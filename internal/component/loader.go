package component

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every .json file under the fdep directory and concatenates
// the component records they contain. A file that fails to parse is logged
// and skipped; one bad extractor output must not abort the batch.
func LoadDir(fdepDir string) ([]Raw, error) {
	var all []Raw
	err := filepath.WalkDir(fdepDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable component file", "path", path, "err", err)
			return nil
		}
		var comps []Raw
		if err := json.Unmarshal(data, &comps); err != nil {
			slog.Warn("skipping malformed component file", "path", path, "err", err)
			return nil
		}
		all = append(all, comps...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
