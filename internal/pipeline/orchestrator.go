// Package pipeline runs one scrape: fetch the listing, normalize every
// entry, drop duplicates and write the day's snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"etenders/internal/config"
	"etenders/internal/crawler"
	"etenders/internal/export"
	"etenders/internal/logger"
	"etenders/internal/metrics"
	"etenders/internal/models"
	"etenders/internal/normalizer"
	"etenders/pkg/metadata"
)

// ErrExportFailed indicates no snapshot was written.
var ErrExportFailed = errors.New("failed to write snapshot")

// Fetcher returns the raw listing payload.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Attempts() []crawler.AttemptResult
}

// Archiver stores a copy of a written snapshot.
type Archiver interface {
	Save(ctx context.Context, day time.Time, runID uuid.UUID, records []models.Tender) (int64, error)
}

// Deps are the collaborators of an Orchestrator. Zero values are replaced
// with defaults built from the config.
type Deps struct {
	Fetcher   Fetcher
	Exporters []export.Exporter
	Archive   Archiver
	Metrics   *metrics.Collector
	Logger    *logger.Logger
	RunID     uuid.UUID
	Now       func() time.Time
}

// Result summarizes a run.
type Result struct {
	RunID      uuid.UUID
	State      State
	Day        time.Time
	Parsed     int
	Skipped    int
	Mapped     int
	Duplicates int
	Records    []models.Tender
	Files      []string
	Manifest   string
	Archived   int64
}

// Orchestrator drives a run through its states.
type Orchestrator struct {
	cfg       *config.Config
	fetcher   Fetcher
	processor *normalizer.Processor
	exporters []export.Exporter
	archive   Archiver
	metrics   *metrics.Collector
	log       *logger.Logger
	runID     uuid.UUID
	now       func() time.Time
	history   []State
}

// NewOrchestrator wires a run from cfg and deps.
func NewOrchestrator(cfg *config.Config, deps Deps) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:       cfg,
		fetcher:   deps.Fetcher,
		processor: normalizer.NewProcessor(cfg.Source.DownloadURL()),
		exporters: deps.Exporters,
		archive:   deps.Archive,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		runID:     deps.RunID,
		now:       deps.Now,
		history:   []State{Idle},
	}

	if o.runID == uuid.Nil {
		o.runID = uuid.New()
	}

	if o.log == nil {
		o.log = logger.NewLogger(cfg.Logging.Level)
	}

	// Callers pass a logger without run_id; it is attached here once.
	o.log = o.log.With("run_id", o.runID.String())

	if o.metrics == nil {
		o.metrics = metrics.New()
	}

	if o.now == nil {
		o.now = time.Now
	}

	if o.fetcher == nil {
		o.fetcher = crawler.NewFetcher(cfg.Source, cfg.Retry, o.log)
	}

	if o.exporters == nil {
		exporters, err := export.ForFormats(cfg.Output.Formats)
		if err != nil {
			return nil, err
		}

		o.exporters = exporters
	}

	return o, nil
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.history[len(o.history)-1]
}

// History returns every state the orchestrator has entered, starting with Idle.
func (o *Orchestrator) History() []State {
	return append([]State(nil), o.history...)
}

func (o *Orchestrator) enter(s State) {
	o.history = append(o.history, s)
	o.log.Debug("Entering state", "state", s.String())
}

// Run performs one scrape. On failure the result has State Failed, no new
// snapshot file is written and an earlier snapshot of the same day is kept.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	started := o.now()
	res := &Result{RunID: o.runID, Day: started}

	err := o.run(ctx, res)
	if err != nil {
		o.enter(Failed)
	} else {
		o.enter(Done)
	}

	res.State = o.State()
	o.metrics.Finish(started, err == nil)

	return res, err
}

func (o *Orchestrator) run(ctx context.Context, res *Result) error {
	o.enter(Fetching)

	payload, err := o.fetcher.Fetch(ctx)

	for _, a := range o.fetcher.Attempts() {
		o.metrics.ObserveAttempt(a.Success())
	}

	if err != nil {
		return err
	}

	o.enter(Parsing)

	listing, err := crawler.ParseListing(payload, o.cfg.Source.MaxRecords)
	if err != nil {
		o.log.Fatal("Failed to retrieve tenders!", "error", err)

		return err
	}

	res.Parsed = listing.Total
	res.Skipped = len(listing.Skipped)
	o.metrics.RecordsParsed.Add(float64(listing.Total))
	o.metrics.RecordsSkipped.Add(float64(len(listing.Skipped)))

	o.log.Info("Tenders extracted",
		"total", listing.Total,
		"kept", len(listing.Tenders),
		"limit", o.cfg.Source.MaxRecords,
	)

	for _, idx := range listing.Skipped {
		o.log.Warn("Skipping listing entry that is not an object", "index", idx)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	o.enter(Mapping)

	records := make([]models.Tender, len(listing.Tenders))

	for i, raw := range listing.Tenders {
		rec, report := o.processor.Map(raw)

		for _, fb := range report.Fallbacks {
			o.metrics.FieldFallbacks.WithLabelValues(fb.Field).Inc()
			o.log.Debug("Field kept raw value", "index", i, "field", fb.Field, "value", fb.Value)
		}

		records[i] = rec
	}

	res.Mapped = len(records)
	o.metrics.RecordsMapped.Add(float64(len(records)))

	o.enter(Enriching)

	for i, raw := range listing.Tenders {
		rec, report := o.processor.Enrich(records[i], raw)

		o.metrics.DocumentsBuilt.Add(float64(report.Built))
		o.metrics.DocumentsSkipped.Add(float64(report.Skipped()))

		for _, docErr := range report.Errors {
			o.log.Debug("Skipping tender document", "index", i, "error", docErr)
		}

		records[i] = rec
	}

	o.enter(Deduping)

	records, dropped := Dedup(records)
	res.Duplicates = dropped
	res.Records = records
	o.metrics.DuplicatesDropped.Add(float64(dropped))

	o.log.Info("Filtered tenders", "records", len(records), "duplicates", dropped)

	if err := ctx.Err(); err != nil {
		return err
	}

	o.enter(Exporting)

	if err := o.export(res); err != nil {
		o.log.Fatal("Couldn't save tenders", "error", err)

		return err
	}

	o.metrics.RecordsExported.Add(float64(len(records)))
	o.log.Info("Tenders saved", "files", res.Files, "records", len(records))

	o.sign(res)
	o.store(ctx, res)

	return nil
}

// export writes every configured format to a staging file and moves them
// into place only once all formats succeeded, so a failed run leaves any
// earlier snapshot of the day untouched.
func (o *Orchestrator) export(res *Result) error {
	if err := os.MkdirAll(o.cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	var staged []string

	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	paths := make([]string, 0, len(o.exporters))

	for _, exp := range o.exporters {
		path := o.cfg.SnapshotPath(res.Day, exp.Format())
		tmp := o.stagingPath(path)

		staged = append(staged, tmp)

		if err := exp.Export(tmp, res.Records); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
		}

		paths = append(paths, path)
	}

	for i, path := range paths {
		if err := os.Rename(staged[i], path); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
		}

		res.Files = append(res.Files, path)
	}

	return nil
}

func (o *Orchestrator) stagingPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+o.runID.String()+".staged")
}

func (o *Orchestrator) sign(res *Result) {
	if !o.cfg.Output.Manifest || len(res.Files) == 0 {
		return
	}

	m, err := metadata.Sign(o.runID.String(), o.cfg.Source.ListingURL(), len(res.Records), res.Files...)
	if err != nil {
		o.log.Error("Failed to sign snapshot", "error", err)

		return
	}

	path := metadata.PathFor(res.Files[0])
	if err := m.Write(path); err != nil {
		o.log.Error("Failed to write manifest", "path", path, "error", err)

		return
	}

	res.Manifest = path
}

func (o *Orchestrator) store(ctx context.Context, res *Result) {
	if o.archive == nil {
		return
	}

	n, err := o.archive.Save(ctx, res.Day, o.runID, res.Records)
	res.Archived = n

	if err != nil {
		o.log.Error("Failed to archive tenders", "error", err)

		return
	}

	o.log.Info("Tenders archived", "rows", n)
}
