package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fetchConcurrency caps the metadata fan-out. Results land in a
// position-indexed slice, so the published order is always the id order
// regardless of completion order.
const fetchConcurrency = 4

// Scan runs the full pipeline: persist settings, list ids, fetch metadata,
// classify in batches, group by sender, persist the snapshot. Any failure
// aborts the scan and leaves the previously persisted snapshot untouched.
func (s *Session) Scan(ctx context.Context, settings domain.Settings, progress ProgressFunc) (*domain.ScanSnapshot, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	settings = settings.Normalize()

	// Persist first so the scan always reflects the latest edited values.
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	progress(Progress{Stage: StageListing})
	ids, err := s.mailbox.ListMessageIDs(ctx, settings.Query, settings.MaxMessages)
	if err != nil {
		return nil, err
	}
	s.log.Info("listed messages", zap.String("query", settings.Query), zap.Int("count", len(ids)))

	metas, err := s.fetchMetadata(ctx, ids, progress)
	if err != nil {
		return nil, err
	}

	labeled, err := s.classify(ctx, settings, metas, progress)
	if err != nil {
		return nil, err
	}

	snap := domain.BuildSnapshot(settings.Query, labeled, time.Now())
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.log.Info("scan complete",
		zap.Int("total", snap.Total),
		zap.Int("groups", len(snap.Groups)))
	return snap, nil
}

// fetchMetadata fetches every id with bounded concurrency, preserving the
// listing order in the result.
func (s *Session) fetchMetadata(ctx context.Context, ids []string, progress ProgressFunc) ([]domain.MessageMeta, error) {
	metas := make([]domain.MessageMeta, len(ids))
	done := make(chan int, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			meta, err := s.mailbox.GetMessageMeta(gctx, id)
			if err != nil {
				return err
			}
			metas[i] = *meta
			done <- i
			return nil
		})
	}

	fetched := 0
	for fetched < len(ids) {
		select {
		case <-done:
			fetched++
			progress(Progress{Stage: StageFetching, Done: fetched, Total: len(ids)})
		case <-gctx.Done():
			return nil, g.Wait()
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metas, nil
}

// classify partitions metadata into consecutive batches and classifies each
// in turn. Batches are sequential with no retry; a batch failure aborts the
// scan so no partial snapshot is ever committed.
func (s *Session) classify(ctx context.Context, settings domain.Settings, metas []domain.MessageMeta, progress ProgressFunc) ([]domain.LabeledEmail, error) {
	total := (len(metas) + settings.BatchSize - 1) / settings.BatchSize
	progress(Progress{Stage: StageClassifying, Done: 0, Total: total})

	labeled := make([]domain.LabeledEmail, 0, len(metas))
	for i := 0; i < len(metas); i += settings.BatchSize {
		end := i + settings.BatchSize
		if end > len(metas) {
			end = len(metas)
		}

		batchNum := i/settings.BatchSize + 1
		out, err := s.classifier.ClassifyBatch(ctx, settings, metas[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to classify batch %d/%d: %w", batchNum, total, err)
		}
		labeled = append(labeled, out...)
		progress(Progress{Stage: StageClassifying, Done: batchNum, Total: total})
		s.log.Debug("classified batch", zap.Int("batch", batchNum), zap.Int("of", total))
	}
	return labeled, nil
}
