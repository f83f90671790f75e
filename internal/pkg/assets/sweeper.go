package assets

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/fielmedina/backend/internal/pkg/storage"
)

// LiveCheck reports whether a record still references key.
type LiveCheck func(ctx context.Context, key string) (bool, error)

// Sweeper retries deletions recorded in an OrphanLedger.
type Sweeper struct {
	files  *storage.StorageManager
	ledger OrphanLedger
	live   LiveCheck
}

// SweepReport is the outcome of one sweep run.
type SweepReport struct {
	Checked   int      `json:"checked"`
	Deleted   []string `json:"deleted"`
	Forgotten []string `json:"forgotten"`
	Remaining []string `json:"remaining"`
	Pruned    []string `json:"pruned"`
}

// NewSweeper creates a sweeper. live may be nil when every recorded key is
// known to be unreferenced.
func NewSweeper(files *storage.StorageManager, ledger OrphanLedger, live LiveCheck) *Sweeper {
	return &Sweeper{files: files, ledger: ledger, live: live}
}

// Sweep deletes every recorded orphan that no record references any more.
// Keys that were re-used by a later upload are forgotten without deleting.
func (s *Sweeper) Sweep(ctx context.Context) (*SweepReport, error) {
	keys, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}

	report := &SweepReport{Checked: len(keys)}
	var swept []string

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if s.live != nil {
			inUse, err := s.live(ctx, key)
			if err != nil {
				log.Warnf("[OrphanSweep] Could not check %s: %v", key, err)
				report.Remaining = append(report.Remaining, key)
				continue
			}
			if inUse {
				report.Forgotten = append(report.Forgotten, key)
				continue
			}
		}

		op, err := s.files.DeleteFile(ctx, key)
		if err != nil {
			log.Warnf("[OrphanSweep] Still cannot delete %s: %v", key, err)
			report.Remaining = append(report.Remaining, key)
			continue
		}
		if op.Missing {
			report.Forgotten = append(report.Forgotten, key)
		} else {
			report.Deleted = append(report.Deleted, key)
		}
		swept = append(swept, key)
	}

	done := append(append([]string{}, report.Deleted...), report.Forgotten...)
	if err := s.ledger.Forget(ctx, done...); err != nil {
		return report, fmt.Errorf("forget swept orphans: %w", err)
	}

	for _, dir := range parentDirs(swept) {
		pruned, err := s.files.PruneDir(ctx, dir)
		if err != nil {
			log.Warnf("[OrphanSweep] Could not prune %s: %v", dir, err)
			continue
		}
		if pruned {
			report.Pruned = append(report.Pruned, dir)
		}
	}

	if report.Checked > 0 {
		log.Infof("[OrphanSweep] Checked %d orphans: %d deleted, %d forgotten, %d remaining",
			report.Checked, len(report.Deleted), len(report.Forgotten), len(report.Remaining))
	}
	return report, nil
}
