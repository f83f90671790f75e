package content

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/lo"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/app/repository"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

// GalleryResult is the outcome of a direct gallery edit.
type GalleryResult struct {
	Images  []models.GalleryImage `json:"images"`
	Results []assets.Result       `json:"results"`
}

// galleryOwner binds an owner table to its gallery kind.
type galleryOwner[T any] struct {
	kind assetpath.OwnerKind
	repo repository.OwnerRepository[T]
	id   func(*T) uint
}

// ownerSave carries what an owner create or update needs besides the record.
type ownerSave[T any] struct {
	uploads []Upload
	remove  []uint
	// extra builds additional slots, e.g. ad banners, once the record has an id.
	extra func(record *T) []assets.SlotUpload
}

func createOwner[T any](ctx context.Context, s *Service, o galleryOwner[T], record *T, save ownerSave[T]) (*Saved[T], error) {
	if err := upload.CheckGalleryCount(o.kind, 0, len(save.uploads), 0); err != nil {
		return nil, err
	}
	if err := validateGallery(save.uploads); err != nil {
		return nil, err
	}

	if err := o.repo.Create(record); err != nil {
		return nil, fmt.Errorf("create %s: %w", o.kind, err)
	}
	id := o.id(record)
	log.Infof("[ContentService] Created %s %d", o.kind, id)

	results := s.assets.OnSaved(ctx, ownerOf(o.kind, id), slotUploads(s, o, record, save))
	return reloadOwner(s, o, id, results, nil)
}

func updateOwner[T any](ctx context.Context, s *Service, o galleryOwner[T], id uint, apply func(*T), save ownerSave[T]) (*Saved[T], error) {
	record, err := o.repo.GetByID(id)
	if err != nil {
		return nil, notFound(string(o.kind), id, err)
	}
	existing, err := s.repos.Gallery.ListByOwner(o.kind, id)
	if err != nil {
		return nil, fmt.Errorf("load gallery of %s %d: %w", o.kind, id, err)
	}
	removed := lo.Filter(existing, func(img models.GalleryImage, _ int) bool {
		return lo.Contains(save.remove, img.ID)
	})
	if err := upload.CheckGalleryCount(o.kind, len(existing), len(save.uploads), len(removed)); err != nil {
		return nil, err
	}
	if err := validateGallery(save.uploads); err != nil {
		return nil, err
	}

	apply(record)
	if err := o.repo.Update(record); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", o.kind, id, err)
	}

	// New images first, so a failing upload never leaves the gallery emptier
	// than the user asked for.
	results := s.assets.OnSaved(ctx, ownerOf(o.kind, id), slotUploads(s, o, record, save))

	var report *assets.DeleteReport
	if len(removed) > 0 {
		r, err := s.deleteImageRows(ctx, o.kind, removed)
		if err != nil {
			return nil, err
		}
		report = &r
	}
	return reloadOwner(s, o, id, results, report)
}

func deleteOwners[T any](ctx context.Context, s *Service, o galleryOwner[T], ids []uint, extra func(record *T) []*assets.Slot) (*DeleteResult, error) {
	rows, err := o.repo.GetByIDs(lo.Uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", o.kind, err)
	}
	result := &DeleteResult{}
	if len(rows) == 0 {
		return result, nil
	}
	existing := lo.Map(rows, func(row T, _ int) uint { return o.id(&row) })

	deleted, images, err := o.repo.DeleteWithGallery(existing)
	if err != nil {
		return nil, fmt.Errorf("delete %s rows %v: %w", o.kind, existing, err)
	}
	result.Deleted = deleted

	// Rows are gone; from here on nothing may fail the delete.
	byOwner := lo.GroupBy(images, func(img models.GalleryImage) uint { return img.OwnerID })
	for i := range rows {
		id := o.id(&rows[i])
		slots := lo.Map(byOwner[id], func(img models.GalleryImage, _ int) *assets.Slot { return gallerySlot(img) })
		if extra != nil {
			slots = append(slots, extra(&rows[i])...)
		}
		result.Files.Merge(s.assets.OnDeleted(ctx, ownerOf(o.kind, id), slots))
	}
	log.Infof("[ContentService] Deleted %d %s rows, %d files", deleted, o.kind, len(result.Files.Deleted))
	return result, nil
}

func reloadOwner[T any](s *Service, o galleryOwner[T], id uint, results []assets.Result, removed *assets.DeleteReport) (*Saved[T], error) {
	record, err := o.repo.GetByID(id)
	if err != nil {
		return nil, notFound(string(o.kind), id, err)
	}
	return &Saved[T]{
		Record:  record,
		Images:  s.gallery(o.kind, id),
		Results: results,
		Removed: removed,
	}, nil
}

func slotUploads[T any](s *Service, o galleryOwner[T], record *T, save ownerSave[T]) []assets.SlotUpload {
	var out []assets.SlotUpload
	if save.extra != nil {
		out = append(out, save.extra(record)...)
	}
	return append(out, s.galleryUploads(o.kind, o.id(record), save.uploads)...)
}

// galleryUploads turns uploads into new gallery slots. The row is created by
// the commit, so a failed upload leaves no row behind.
func (s *Service) galleryUploads(kind assetpath.OwnerKind, ownerID uint, uploads []Upload) []assets.SlotUpload {
	out := make([]assets.SlotUpload, 0, len(uploads))
	for i, up := range uploads {
		meta := imageprocessor.ExtractMetadata(up.Data)
		out = append(out, assets.SlotUpload{
			Slot:    assets.NewSlot(fmt.Sprintf("images[%d]", i), nil),
			Request: galleryRequest(kind, ownerID, up),
			Commit: func(keys map[string]string) error {
				return s.repos.Gallery.Create(kind, newGalleryRow(ownerID, keys, meta))
			},
		})
	}
	return out
}

func galleryRequest(kind assetpath.OwnerKind, ownerID uint, up Upload) imageprocessor.Request {
	return imageprocessor.Request{
		Role:     imageprocessor.RoleGallery,
		Filename: up.Filename,
		Data:     up.Data,
		Kind:     kind,
		OwnerID:  ownerID,
	}
}

func newGalleryRow(ownerID uint, keys map[string]string, meta *imageprocessor.Metadata) *models.GalleryImage {
	row := &models.GalleryImage{OwnerID: ownerID}
	setFile(row, keys, meta)
	return row
}

func setFile(row *models.GalleryImage, keys map[string]string, meta *imageprocessor.Metadata) {
	row.MainKey = keys[imageprocessor.DerivativeMain]
	row.MobileKey = nil
	if mobile, ok := keys[imageprocessor.DerivativeMobile]; ok {
		row.MobileKey = &mobile
	}
	row.CameraModel = ""
	row.TakenAt, row.Latitude, row.Longitude = nil, nil, nil
	if meta == nil {
		return
	}
	if meta.CameraModel != nil {
		row.CameraModel = *meta.CameraModel
	}
	row.TakenAt = meta.TakenAt
	row.Latitude = meta.Latitude
	row.Longitude = meta.Longitude
}

func gallerySlot(img models.GalleryImage) *assets.Slot {
	return assets.NewSlot(fmt.Sprintf("image:%d", img.ID), img.Keys())
}

func ownerOf(kind assetpath.OwnerKind, id uint) assets.Owner {
	return assets.Owner{Kind: string(kind), ID: id, Dir: assetpath.OwnerDir(kind, id)}
}

func validateGallery(uploads []Upload) error {
	for _, up := range uploads {
		if _, err := upload.ValidateImage("images", up.Filename, up.Data); err != nil {
			return err
		}
	}
	return nil
}

// gallery returns the current images of an owner. A read failure only costs
// the response its image list.
func (s *Service) gallery(kind assetpath.OwnerKind, ownerID uint) []models.GalleryImage {
	images, err := s.repos.Gallery.ListByOwner(kind, ownerID)
	if err != nil {
		log.Warnf("[ContentService] Could not list gallery of %s %d: %v", kind, ownerID, err)
		return nil
	}
	return images
}

func (s *Service) ownerExists(kind assetpath.OwnerKind, id uint) error {
	var err error
	switch kind {
	case assetpath.KindLocation:
		_, err = s.repos.Location.GetByID(id)
	case assetpath.KindEvent:
		_, err = s.repos.Event.GetByID(id)
	case assetpath.KindHiking:
		_, err = s.repos.Hiking.GetByID(id)
	case assetpath.KindAd:
		_, err = s.repos.Ad.GetByID(id)
	default:
		return fmt.Errorf("unknown owner kind %q", kind)
	}
	if err != nil {
		return notFound(string(kind), id, err)
	}
	return nil
}

// GalleryImage returns one image of an owner.
func (s *Service) GalleryImage(kind assetpath.OwnerKind, ownerID, imageID uint) (*models.GalleryImage, error) {
	img, err := s.repos.Gallery.GetByID(kind, imageID)
	if err != nil {
		return nil, notFound(string(kind)+" image", imageID, err)
	}
	if img.OwnerID != ownerID {
		return nil, fmt.Errorf("%s image %d of %s %d: %w", kind, imageID, kind, ownerID, ErrNotFound)
	}
	return img, nil
}

// AddGalleryImages appends uploads to the gallery of an existing owner.
func (s *Service) AddGalleryImages(ctx context.Context, kind assetpath.OwnerKind, ownerID uint, uploads []Upload) (*GalleryResult, error) {
	if err := s.ownerExists(kind, ownerID); err != nil {
		return nil, err
	}
	count, err := s.repos.Gallery.CountByOwner(kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count gallery of %s %d: %w", kind, ownerID, err)
	}
	if len(uploads) == 0 {
		return nil, &upload.ValidationError{Field: "images", Message: "Please upload at least one image"}
	}
	if err := upload.CheckGalleryCount(kind, int(count), len(uploads), 0); err != nil {
		return nil, err
	}
	if err := validateGallery(uploads); err != nil {
		return nil, err
	}

	results := s.assets.OnSaved(ctx, ownerOf(kind, ownerID), s.galleryUploads(kind, ownerID, uploads))
	return &GalleryResult{Images: s.gallery(kind, ownerID), Results: results}, nil
}

// ReplaceGalleryImage stores up in place of an existing image. The old files
// are removed only after the row points at the new ones.
func (s *Service) ReplaceGalleryImage(ctx context.Context, kind assetpath.OwnerKind, ownerID, imageID uint, up Upload) (*GalleryResult, error) {
	row, err := s.GalleryImage(kind, ownerID, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := upload.ValidateImage("image", up.Filename, up.Data); err != nil {
		return nil, err
	}

	meta := imageprocessor.ExtractMetadata(up.Data)
	slot := gallerySlot(*row)
	res := s.assets.Store(ctx, slot, galleryRequest(kind, ownerID, up), func(keys map[string]string) error {
		updated := *row
		setFile(&updated, keys, meta)
		return s.repos.Gallery.UpdateFile(kind, &updated)
	})
	if res.Status == assets.StatusFailed {
		log.Warnf("[ContentService] Replacing %s image %d failed: %v", kind, imageID, res.Err)
	}
	return &GalleryResult{Images: s.gallery(kind, ownerID), Results: []assets.Result{res}}, nil
}

// DeleteGalleryImages removes gallery rows and their files. Owner directories
// left empty are pruned.
func (s *Service) DeleteGalleryImages(ctx context.Context, kind assetpath.OwnerKind, ids ...uint) (*DeleteResult, error) {
	rows, err := s.repos.Gallery.GetByIDs(kind, lo.Uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("load %s images: %w", kind, err)
	}
	if len(rows) == 0 {
		return &DeleteResult{}, nil
	}
	report, err := s.deleteImageRows(ctx, kind, rows)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: int64(len(rows)), Files: report}, nil
}

func (s *Service) deleteImageRows(ctx context.Context, kind assetpath.OwnerKind, rows []models.GalleryImage) (assets.DeleteReport, error) {
	var report assets.DeleteReport
	ids := lo.Map(rows, func(img models.GalleryImage, _ int) uint { return img.ID })
	if _, err := s.repos.Gallery.DeleteByIDs(kind, ids); err != nil {
		return report, fmt.Errorf("delete %s images %v: %w", kind, ids, err)
	}

	byOwner := lo.GroupBy(rows, func(img models.GalleryImage) uint { return img.OwnerID })
	for _, ownerID := range lo.Uniq(lo.Map(rows, func(img models.GalleryImage, _ int) uint { return img.OwnerID })) {
		slots := lo.Map(byOwner[ownerID], func(img models.GalleryImage, _ int) *assets.Slot { return gallerySlot(img) })
		report.Merge(s.assets.OnDeleted(ctx, ownerOf(kind, ownerID), slots))
	}
	return report, nil
}
