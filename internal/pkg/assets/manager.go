// Package assets keeps stored image derivatives in step with the records that
// own them.
//
// A save writes the new derivatives first, lets the record persist the new keys
// and only then deletes the blobs the slot pointed at before. A delete removes
// every blob of the slot and prunes directories that end up empty. Cleanup is
// best-effort throughout: failures are logged, remembered in the OrphanLedger
// for a later Sweep and never fail the record operation.
package assets

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2/log"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/storage"
)

// CommitFunc persists the keys of a freshly written slot on its record.
type CommitFunc func(keys map[string]string) error

// Owner identifies the record whose slots are processed.
type Owner struct {
	Kind string
	ID   uint
	// Dir is pruned after the owner is deleted; empty for owners without
	// a directory of their own.
	Dir string
}

// SlotUpload pairs a slot with the upload that should fill it.
type SlotUpload struct {
	Slot    *Slot
	Request imageprocessor.Request
	Commit  CommitFunc
}

// Manager runs the slot state machine against a storage backend.
type Manager struct {
	files     *storage.StorageManager
	generator *imageprocessor.Generator
	orphans   OrphanLedger
	live      LiveCheck
}

// NewManager creates a Manager. A nil ledger disables orphan tracking.
func NewManager(files *storage.StorageManager, generator *imageprocessor.Generator, orphans OrphanLedger) *Manager {
	if orphans == nil {
		orphans = NopOrphanLedger{}
	}
	return &Manager{files: files, generator: generator, orphans: orphans}
}

// WithLiveCheck makes every deletion ask live first. Keys that another record
// still references are kept. This matters for flat layouts such as brand
// images, where two records can end up sharing one blob.
func (m *Manager) WithLiveCheck(live LiveCheck) *Manager {
	m.live = live
	return m
}

// OnSaved stores every upload of one owner save, one slot after another.
// Failures stay confined to their slot.
func (m *Manager) OnSaved(ctx context.Context, owner Owner, uploads []SlotUpload) []Result {
	results := make([]Result, 0, len(uploads))
	for _, u := range uploads {
		res := m.Store(ctx, u.Slot, u.Request, u.Commit)
		if res.Status != StatusOK {
			log.Warnf("[AssetLifecycle] %s %d slot %s: %s (%v)", owner.Kind, owner.ID, res.Slot, res.Status, res.Err)
		}
		results = append(results, res)
	}
	return results
}

// Store fills or replaces slot with the derivatives of req.
//
// Ordering: derivatives are written, commit persists their keys, then the
// previous blobs are deleted. If a write or the commit fails the new blobs are
// removed again and the slot keeps its previous keys and state.
func (m *Manager) Store(ctx context.Context, slot *Slot, req imageprocessor.Request, commit CommitFunc) Result {
	res := Result{Slot: slot.Name}
	if slot.State == SlotDeleted {
		res.Status = StatusFailed
		res.Err = ErrSlotDeleted
		return res
	}

	set, err := m.generator.Generate(req)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	prevState := slot.State
	prevKeys := slot.Keys
	if prevState == SlotPresent {
		if err := slot.transition(SlotReplacing); err != nil {
			res.Status = StatusFailed
			res.Err = err
			return res
		}
	}

	written := make([]string, 0, len(set.Derivatives))
	for _, d := range set.Derivatives {
		if _, err := m.files.SaveFile(ctx, d.Key, d.Data); err != nil {
			m.discard(ctx, written, prevKeys)
			slot.State = prevState
			res.Status = StatusFailed
			res.Err = &StorageWriteError{Key: d.Key, Err: err}
			return res
		}
		written = append(written, d.Key)
	}

	newKeys := set.Keys()
	if commit != nil {
		if err := commit(newKeys); err != nil {
			m.discard(ctx, written, prevKeys)
			slot.State = prevState
			res.Status = StatusFailed
			res.Err = &CommitError{Slot: slot.Name, Err: err}
			return res
		}
	}

	if err := m.orphans.Forget(ctx, written...); err != nil {
		log.Warnf("[AssetLifecycle] Could not clear orphan records for %v: %v", written, err)
	}

	current := valueSet(newKeys)
	for _, old := range sortedValues(prevKeys) {
		if current[old] {
			// Same basename: the blob was overwritten in place.
			continue
		}
		m.deleteBestEffort(ctx, old)
	}

	slot.Keys = newKeys
	if err := slot.transition(SlotPresent); err != nil {
		log.Warnf("[AssetLifecycle] Slot %s: %v", slot.Name, err)
	}

	res.Keys = newKeys
	res.Status = StatusOK
	if set.Shortfall != nil {
		res.Status = StatusPartial
		res.Err = set.Shortfall
	}
	log.Infof("[AssetLifecycle] Stored slot %s: %v (%s)", slot.Name, sortedValues(newKeys), res.Status)
	return res
}

// Release deletes every blob of slot and prunes the directories that became
// empty. The slot ends Deleted whatever the storage outcome.
func (m *Manager) Release(ctx context.Context, slot *Slot) DeleteReport {
	var report DeleteReport
	if slot.State == SlotDeleted {
		return report
	}
	if slot.State == SlotReplacing {
		log.Warnf("[AssetLifecycle] Releasing slot %s while it is being replaced", slot.Name)
		slot.State = SlotPresent
	}

	keys := slot.KeyList()
	for _, key := range keys {
		m.deleteInto(ctx, key, &report)
	}
	if err := slot.transition(SlotDeleted); err != nil {
		log.Warnf("[AssetLifecycle] Slot %s: %v", slot.Name, err)
	}

	for _, dir := range parentDirs(keys) {
		m.pruneInto(ctx, dir, &report)
	}
	return report
}

// OnDeleted releases all slots of a deleted owner and prunes its directory.
// It must run for every removed record, including records removed in bulk.
func (m *Manager) OnDeleted(ctx context.Context, owner Owner, slots []*Slot) DeleteReport {
	var report DeleteReport
	for _, slot := range slots {
		report.Merge(m.Release(ctx, slot))
	}
	if owner.Dir != "" && !contains(report.Pruned, owner.Dir) {
		m.pruneInto(ctx, owner.Dir, &report)
	}
	if !report.Clean() {
		log.Warnf("[AssetLifecycle] Cleanup of %s %d finished with %d swallowed errors", owner.Kind, owner.ID, len(report.Errors))
	}
	return report
}

func (m *Manager) deleteInto(ctx context.Context, key string, report *DeleteReport) {
	if m.referenced(ctx, key) {
		report.Kept = append(report.Kept, key)
		return
	}
	op, err := m.files.DeleteFile(ctx, key)
	if err != nil {
		report.Errors = append(report.Errors, m.recordOrphan(ctx, key, err))
		return
	}
	if op.Missing {
		report.Missing = append(report.Missing, key)
		return
	}
	report.Deleted = append(report.Deleted, key)
}

func (m *Manager) deleteBestEffort(ctx context.Context, key string) {
	if m.referenced(ctx, key) {
		return
	}
	if _, err := m.files.DeleteFile(ctx, key); err != nil {
		m.recordOrphan(ctx, key, err)
	}
}

func (m *Manager) recordOrphan(ctx context.Context, key string, cause error) error {
	derr := &StorageDeleteError{Key: key, Err: cause}
	log.Warnf("[AssetLifecycle] Could not delete %s, keeping it for the orphan sweep: %v", key, cause)
	if err := m.orphans.Record(ctx, key); err != nil {
		log.Errorf("[AssetLifecycle] Could not record orphan %s: %v", key, err)
	}
	return derr
}

func (m *Manager) pruneInto(ctx context.Context, dir string, report *DeleteReport) {
	pruned, err := m.files.PruneDir(ctx, dir)
	if err != nil {
		log.Warnf("[AssetLifecycle] Could not prune %s: %v", dir, err)
		report.Errors = append(report.Errors, &DirectoryPruneError{Dir: dir, Err: err})
		return
	}
	if pruned {
		report.Pruned = append(report.Pruned, dir)
	}
}

// discard removes blobs written by a failed store. Keys the slot already held
// are kept: they were overwritten in place and are still referenced.
func (m *Manager) discard(ctx context.Context, written []string, prevKeys map[string]string) {
	keep := valueSet(prevKeys)
	for _, key := range written {
		if keep[key] {
			continue
		}
		m.deleteBestEffort(ctx, key)
	}
}

// referenced reports whether another record still points at key. When the
// check itself fails the key is kept and left to the orphan sweep.
func (m *Manager) referenced(ctx context.Context, key string) bool {
	if m.live == nil {
		return false
	}
	inUse, err := m.live(ctx, key)
	if err != nil {
		log.Warnf("[AssetLifecycle] Could not check whether %s is still referenced: %v", key, err)
		if rerr := m.orphans.Record(ctx, key); rerr != nil {
			log.Errorf("[AssetLifecycle] Could not record orphan %s: %v", key, rerr)
		}
		return true
	}
	if inUse {
		log.Infof("[AssetLifecycle] Keeping %s, another record still uses it", key)
	}
	return inUse
}

func valueSet(m map[string]string) map[string]bool {
	out := make(map[string]bool, len(m))
	for _, v := range m {
		out[v] = true
	}
	return out
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func parentDirs(keys []string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, key := range keys {
		dir := assetpath.Dir(key)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
