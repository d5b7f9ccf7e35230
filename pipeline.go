package astrodb

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Phase identifies where in its lifecycle a pipeline run currently is.
// Observers (progress hooks, tests) may read it concurrently via
// [Pipeline.Phase].
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseReading
	PhaseMerging
	PhaseReconciling
	PhaseWriting
	PhaseDraining
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReading:
		return "reading"
	case PhaseMerging:
		return "merging"
	case PhaseReconciling:
		return "reconciling"
	case PhaseWriting:
		return "writing"
	case PhaseDraining:
		return "draining"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Pipeline drives one ingestion run: row reading, record building, buffered
// merging, periodic reconcile-and-write flushes, and the final drain. It owns
// the buffer and the run counters exclusively; the source and store are
// external collaborators reached only through their interfaces.
type Pipeline struct {
	source Source
	store  Store
	cfg    Config

	log        *slog.Logger
	reconciler *Reconciler
	writer     *Writer

	stats Stats
	phase atomic.Int32
}

// New creates a pipeline reading from source and writing to store. The
// configuration is copied; changing cfg after New has no effect on the run.
func New(source Source, store Store, cfg Config) *Pipeline {
	log := cfg.resolveLogger()
	p := &Pipeline{
		source: source,
		store:  store,
		cfg:    cfg,
		log:    log,
	}
	p.reconciler = NewReconciler(store, log, &p.stats)
	p.writer = NewWriter(store, cfg.resolveWriteBatch(), log)
	return p
}

// Stats returns the run counters. Safe to read while Run is in progress.
func (p *Pipeline) Stats() *Stats { return &p.stats }

// Phase returns the pipeline's current lifecycle phase.
func (p *Pipeline) Phase() Phase { return Phase(p.phase.Load()) }

func (p *Pipeline) setPhase(ph Phase) { p.phase.Store(int32(ph)) }

// Run executes the pipeline to completion and returns the first fatal error.
//
// Rows stream through a bounded channel from the reader into the merge loop,
// so files larger than memory never materialize as full record sets. Source
// order is preserved into the buffer, which the greedy merge policy depends
// on. Writes for a single flush are never parallelized: the delete-then-
// insert sequence used for store merges is not safe under concurrent
// mutation of the same rows.
//
// A fatal error (source read failure, store query or write failure) stops the
// run; flushes completed before the failure remain committed, with no
// compensating rollback.
func (p *Pipeline) Run(ctx context.Context) error {
	label := p.cfg.SourceLabel
	if label == "" {
		label = "source"
	}
	builder := NewBuilder(p.source.Columns(), label, p.cfg.IDColumn)

	p.setPhase(PhaseReading)
	p.log.InfoContext(ctx, "ingestion started",
		"label", label,
		"columns", len(p.source.Columns()),
		"separation_arcsec", p.cfg.SeparationArcsec,
	)

	records := make(chan Record, p.cfg.resolveExtractDepth())
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return p.runExtract(gctx, builder, records)
	})
	group.Go(func() error {
		return p.runMerge(gctx, records)
	})

	if err := group.Wait(); err != nil {
		p.setPhase(PhaseFailed)
		p.log.ErrorContext(ctx, "ingestion failed", "error", err, "stats", &p.stats)
		return err
	}

	p.setPhase(PhaseDone)
	p.log.InfoContext(ctx, "ingestion complete", "stats", &p.stats)
	return nil
}

// runExtract reads rows, builds records, and feeds the merge loop. Closing
// the channel signals row exhaustion and triggers the drain.
func (p *Pipeline) runExtract(ctx context.Context, builder *Builder, out chan<- Record) error {
	defer close(out)

	for row, err := range p.source.Rows(ctx) {
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}

		rec := builder.Build(row)
		p.stats.incRowsRead(1)

		if _, ok := rec.Envelope(); !ok {
			// Data condition, not an error: the record passes through but
			// can never merge.
			p.stats.incNonSpatial(1)
			p.log.DebugContext(ctx, "record has no usable coordinates", "record", rec.Provenance)
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// runMerge consumes built records in source order, merges them into the
// buffer, and flushes whenever the buffer reaches the configured threshold.
// Once the channel closes it drains whatever remains.
func (p *Pipeline) runMerge(ctx context.Context, in <-chan Record) error {
	flushAt := p.cfg.resolveBufferSize()
	buffer := NewBuffer(max(flushAt, 0))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-in:
			if !ok {
				p.setPhase(PhaseDraining)
				if err := p.flush(ctx, buffer); err != nil {
					return err
				}
				return nil
			}

			p.setPhase(PhaseMerging)
			buffer.Append(rec, p.cfg.SeparationArcsec)

			if !p.cfg.deferAll() && buffer.Len() >= flushAt {
				if err := p.flush(ctx, buffer); err != nil {
					return err
				}
				p.setPhase(PhaseReading)
			}
		}
	}
}

// flush reconciles the buffered records against the store and writes the
// survivors. The buffer is left empty.
func (p *Pipeline) flush(ctx context.Context, buffer *Buffer) error {
	if buffer.Len() == 0 {
		return nil
	}

	p.stats.incBufferMerges(buffer.Merges())
	buffered := buffer.Drain()

	p.setPhase(PhaseReconciling)
	final, err := p.reconciler.Reconcile(ctx, buffered, p.cfg.SeparationArcsec)
	if err != nil {
		return err
	}

	p.setPhase(PhaseWriting)
	n, err := p.writer.Flush(ctx, final)
	p.stats.incInserted(int64(n))
	if err != nil {
		return err
	}
	p.stats.incFlushes(1)

	p.log.InfoContext(ctx, "flushed",
		"written", n,
		"rows_read", p.stats.RowsRead(),
		"inserted_total", p.stats.Inserted(),
	)
	if p.cfg.Progress != nil {
		p.cfg.Progress.OnFlush(ctx, &p.stats)
	}

	return nil
}
