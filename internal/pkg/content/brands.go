package content

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/lo"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

// GetBrand returns a partner or sponsor.
func (s *Service) GetBrand(collection assetpath.Collection, id uint) (*Saved[models.Brand], error) {
	brand, err := s.repos.Brand.GetByID(collection, id)
	if err != nil {
		return nil, notFound(string(collection), id, err)
	}
	return &Saved[models.Brand]{Record: brand}, nil
}

// CreateBrand saves a partner or sponsor. The image is required and is
// cropped to the brand box.
func (s *Service) CreateBrand(ctx context.Context, collection assetpath.Collection, in BrandInput, image *Upload) (*Saved[models.Brand], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	if image == nil || len(image.Data) == 0 {
		return nil, &upload.ValidationError{Field: "image", Message: "This field is required"}
	}
	if _, err := upload.ValidateImage("image", image.Filename, image.Data); err != nil {
		return nil, err
	}

	brand := &models.Brand{}
	in.apply(brand)
	if err := s.repos.Brand.Create(collection, brand); err != nil {
		return nil, fmt.Errorf("create %s: %w", collection, err)
	}
	log.Infof("[ContentService] Created %s %d", collection, brand.ID)

	res := s.storeBrandImage(ctx, collection, brand, *image)
	return &Saved[models.Brand]{Record: brand, Results: []assets.Result{res}}, nil
}

// UpdateBrand saves a partner or sponsor. Without a new image the current
// one is kept.
func (s *Service) UpdateBrand(ctx context.Context, collection assetpath.Collection, id uint, in BrandInput, image *Upload) (*Saved[models.Brand], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	brand, err := s.repos.Brand.GetByID(collection, id)
	if err != nil {
		return nil, notFound(string(collection), id, err)
	}
	hasImage := image != nil && len(image.Data) > 0
	if hasImage {
		if _, err := upload.ValidateImage("image", image.Filename, image.Data); err != nil {
			return nil, err
		}
	}

	in.apply(brand)
	if err := s.repos.Brand.Update(collection, brand); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", collection, id, err)
	}

	saved := &Saved[models.Brand]{Record: brand, Results: []assets.Result{}}
	if hasImage {
		saved.Results = append(saved.Results, s.storeBrandImage(ctx, collection, brand, *image))
	}
	return saved, nil
}

// DeleteBrands deletes partners or sponsors and their images.
func (s *Service) DeleteBrands(ctx context.Context, collection assetpath.Collection, ids ...uint) (*DeleteResult, error) {
	rows, err := s.repos.Brand.GetByIDs(collection, lo.Uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", collection, err)
	}
	result := &DeleteResult{}
	if len(rows) == 0 {
		return result, nil
	}
	existing := lo.Map(rows, func(b models.Brand, _ int) uint { return b.ID })
	deleted, err := s.repos.Brand.DeleteByIDs(collection, existing)
	if err != nil {
		return nil, fmt.Errorf("delete %s rows %v: %w", collection, existing, err)
	}
	result.Deleted = deleted

	for i := range rows {
		owner := assets.Owner{Kind: string(collection), ID: rows[i].ID}
		result.Files.Merge(s.assets.OnDeleted(ctx, owner, []*assets.Slot{brandSlot(&rows[i])}))
	}
	log.Infof("[ContentService] Deleted %d %s rows, %d files", deleted, collection, len(result.Files.Deleted))
	return result, nil
}

func brandSlot(b *models.Brand) *assets.Slot {
	return assets.NewSlot("image", map[string]string{imageprocessor.DerivativeBrand: b.Image()})
}

func (s *Service) storeBrandImage(ctx context.Context, collection assetpath.Collection, brand *models.Brand, image Upload) assets.Result {
	req := imageprocessor.Request{
		Role:       imageprocessor.RoleBrand,
		Filename:   image.Filename,
		Data:       image.Data,
		Collection: collection,
	}
	res := s.assets.Store(ctx, brandSlot(brand), req, func(keys map[string]string) error {
		key := keys[imageprocessor.DerivativeBrand]
		if err := s.repos.Brand.UpdateImageKey(collection, brand.ID, &key); err != nil {
			return err
		}
		brand.ImageKey = &key
		return nil
	})
	if res.Status != assets.StatusOK {
		log.Warnf("[ContentService] Image of %s %d: %s (%v)", collection, brand.ID, res.Status, res.Err)
	}
	return res
}
