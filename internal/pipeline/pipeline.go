// Package pipeline orchestrates a scan: crawl the repo, extract components
// into the fdep directory, adapt them per language, build the combined graph,
// and persist it. Every stage is fail-soft at file granularity; the report
// carries the counts that reveal silently degraded runs.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"codegraph/internal/adapter"
	"codegraph/internal/component"
	"codegraph/internal/config"
	"codegraph/internal/crawler"
	"codegraph/internal/extractor"
	"codegraph/internal/graph"
	"codegraph/internal/storage"
)

// Report is the outcome summary of one scan.
type Report struct {
	FilesScanned   int
	FilesExtracted int
	ExtractErrors  int
	Components     int
	Dropped        int
	Languages      []string
	Graph          graph.Stats
	Duration       time.Duration
}

// Scanner runs the extract-adapt-build-persist pipeline for one config.
type Scanner struct {
	cfg *config.Config
	log *slog.Logger
}

func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg, log: slog.Default()}
}

func (s *Scanner) fdepDir() string {
	return filepath.Join(s.cfg.Output.Dir, "fdep")
}

// Run performs a full scan: extraction followed by graph build.
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	scanned, extracted, failed, err := s.Extract(ctx)
	if err != nil {
		return nil, err
	}

	report, _, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	report.FilesScanned = scanned
	report.FilesExtracted = extracted
	report.ExtractErrors = failed
	report.Duration = time.Since(start)
	return report, nil
}

// Extract crawls the project and writes one component JSON file per Go source
// file under the fdep directory, mirroring the repo tree. Files of the other
// supported languages are expected to arrive in fdep from their own
// extractors; they are counted but not parsed here. A file that fails to
// parse is logged and skipped, never fatal.
func (s *Scanner) Extract(ctx context.Context) (scanned, extracted, failed int, err error) {
	cr := crawler.New(s.cfg.Project.Languages, s.cfg.Project.Ignore)
	files, err := cr.Scan(s.cfg.Project.Root)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("crawling %s: %w", s.cfg.Project.Root, err)
	}

	if err := os.MkdirAll(s.fdepDir(), 0o755); err != nil {
		return 0, 0, 0, err
	}

	ext := extractor.NewGoExtractor()
	var okCount, failCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, f := range files {
		if f.Language != "golang" {
			continue
		}
		f := f
		g.Go(func() error {
			comps, err := ext.ExtractFile(gctx, f.AbsPath, f.RelPath)
			if err != nil {
				s.log.Warn("extraction failed", "file", f.RelPath, "err", err)
				failCount.Add(1)
				return nil
			}
			if err := s.writeComponents(f.RelPath, comps); err != nil {
				s.log.Warn("writing components failed", "file", f.RelPath, "err", err)
				failCount.Add(1)
				return nil
			}
			okCount.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, 0, err
	}
	return len(files), int(okCount.Load()), int(failCount.Load()), nil
}

func (s *Scanner) writeComponents(relPath string, comps []component.Raw) error {
	outPath := filepath.Join(s.fdepDir(), filepath.FromSlash(relPath)+".json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(comps)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// Build loads every component file from fdep, adapts per language, combines
// the schemas, builds the graph, and persists it.
func (s *Scanner) Build(ctx context.Context) (*Report, *graph.Graph, error) {
	comps, err := component.LoadDir(s.fdepDir())
	if err != nil {
		return nil, nil, fmt.Errorf("loading components from %s: %w", s.fdepDir(), err)
	}

	grouped, dropped := component.GroupByLanguage(comps)
	languages := make([]string, 0, len(grouped))
	for lang := range grouped {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	var combined adapter.Schema
	for _, lang := range languages {
		schema, err := adapter.Adapt(lang, grouped[lang])
		if err != nil {
			s.log.Warn("skipping language", "language", lang, "err", err)
			continue
		}
		s.log.Info("adapted", "language", lang,
			"components", len(grouped[lang]),
			"nodes", len(schema.Nodes), "edges", len(schema.Edges))
		combined = adapter.Combine(combined, schema)
	}
	combined.Close()

	built := graph.FromSchema(combined)
	if err := s.persist(ctx, built); err != nil {
		return nil, nil, err
	}

	report := &Report{
		Components: len(comps),
		Dropped:    dropped,
		Languages:  languages,
		Graph:      built.Stats(),
	}
	return report, built, nil
}

func (s *Scanner) persist(ctx context.Context, g *graph.Graph) error {
	if err := os.MkdirAll(s.cfg.Output.Dir, 0o755); err != nil {
		return err
	}

	if s.cfg.Output.GraphML {
		path := filepath.Join(s.cfg.Output.Dir, "graph.graphml")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := graph.WriteGraphML(f, g); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	snapPath := filepath.Join(s.cfg.Output.Dir, "graph.gob")
	f, err := os.Create(snapPath)
	if err != nil {
		return err
	}
	if err := graph.WriteSnapshot(f, g); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", snapPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(s.cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.cfg.Output.DBPath, err)
	}
	defer store.Close()
	return store.SaveGraph(ctx, g)
}

// LoadGraph reads a previously persisted graph, preferring the gob snapshot
// and falling back to the sqlite store.
func LoadGraph(ctx context.Context, cfg *config.Config) (*graph.Graph, error) {
	snapPath := filepath.Join(cfg.Output.Dir, "graph.gob")
	if f, err := os.Open(snapPath); err == nil {
		defer f.Close()
		return graph.ReadSnapshot(f)
	}

	store, err := storage.NewSQLiteStore(cfg.Output.DBPath)
	if err != nil {
		return nil, fmt.Errorf("no graph snapshot at %s and no store: %w", snapPath, err)
	}
	defer store.Close()
	return store.LoadGraph(ctx)
}
