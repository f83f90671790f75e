package content

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2/log"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

// Banners are the banner uploads of an ad form, by slot. A missing slot
// keeps its current banner.
type Banners map[assetpath.BannerSlot]*Upload

func (s *Service) ads() galleryOwner[models.Ad] {
	return galleryOwner[models.Ad]{
		kind: assetpath.KindAd,
		repo: s.repos.Ad,
		id:   func(a *models.Ad) uint { return a.ID },
	}
}

// GetAd returns an ad and its gallery.
func (s *Service) GetAd(id uint) (*Saved[models.Ad], error) {
	return reloadOwner(s, s.ads(), id, nil, nil)
}

// CreateAd saves a new ad. Both banners are required and must have their
// exact slot size; they are checked before anything is stored.
func (s *Service) CreateAd(ctx context.Context, in AdInput, banners Banners, images []Upload) (*Saved[models.Ad], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	if err := validateBanners(banners, true); err != nil {
		return nil, err
	}

	record := &models.Ad{Link: in.Link, IsActive: in.IsActive}
	saved, err := createOwner(ctx, s, s.ads(), record, ownerSave[models.Ad]{
		uploads: images,
		extra:   func(ad *models.Ad) []assets.SlotUpload { return s.bannerUploads(ad, banners) },
	})
	if err != nil {
		return nil, err
	}
	s.shortenLink(ctx, saved.Record)
	return saved, nil
}

// UpdateAd saves an ad. Banners not supplied are kept.
func (s *Service) UpdateAd(ctx context.Context, id uint, in AdInput, banners Banners, images []Upload, remove []uint) (*Saved[models.Ad], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	if err := validateBanners(banners, false); err != nil {
		return nil, err
	}

	var linkChanged bool
	apply := func(ad *models.Ad) {
		linkChanged = ad.Link != in.Link || ad.ShortLink == ""
		ad.Link = in.Link
		ad.IsActive = in.IsActive
	}
	saved, err := updateOwner(ctx, s, s.ads(), id, apply, ownerSave[models.Ad]{
		uploads: images,
		remove:  remove,
		extra:   func(ad *models.Ad) []assets.SlotUpload { return s.bannerUploads(ad, banners) },
	})
	if err != nil {
		return nil, err
	}
	if linkChanged {
		s.shortenLink(ctx, saved.Record)
	}
	return saved, nil
}

// DeleteAds deletes ads with their banners, galleries and files.
func (s *Service) DeleteAds(ctx context.Context, ids ...uint) (*DeleteResult, error) {
	return deleteOwners(ctx, s, s.ads(), ids, func(ad *models.Ad) []*assets.Slot {
		slots := make([]*assets.Slot, 0, len(assetpath.BannerSlots))
		for _, slot := range assetpath.BannerSlots {
			slots = append(slots, bannerSlot(ad, slot))
		}
		return slots
	})
}

func validateBanners(banners Banners, required bool) error {
	for _, slot := range assetpath.BannerSlots {
		up := banners[slot]
		if up == nil || len(up.Data) == 0 {
			if required {
				return &upload.ValidationError{Field: upload.BannerSpecs[slot].Field, Message: "This field is required"}
			}
			continue
		}
		if err := upload.ValidateBanner(slot, up.Filename, up.Data); err != nil {
			return err
		}
	}
	return nil
}

func bannerSlot(ad *models.Ad, slot assetpath.BannerSlot) *assets.Slot {
	return assets.NewSlot(upload.BannerSpecs[slot].Field, map[string]string{
		imageprocessor.DerivativeBanner: ad.BannerKey(slot),
	})
}

func (s *Service) bannerUploads(ad *models.Ad, banners Banners) []assets.SlotUpload {
	var out []assets.SlotUpload
	for _, slot := range assetpath.BannerSlots {
		up := banners[slot]
		if up == nil || len(up.Data) == 0 {
			continue
		}
		out = append(out, assets.SlotUpload{
			Slot: bannerSlot(ad, slot),
			Request: imageprocessor.Request{
				Role:     imageprocessor.RoleBanner,
				Filename: up.Filename,
				Data:     up.Data,
				Slot:     slot,
			},
			Commit: func(keys map[string]string) error {
				key := keys[imageprocessor.DerivativeBanner]
				if err := s.repos.Ad.UpdateColumns(ad.ID, map[string]interface{}{models.BannerColumn(slot): key}); err != nil {
					return err
				}
				ad.SetBannerKey(slot, key)
				return nil
			},
		})
	}
	return out
}

// shortenLink attaches a short link to ad. Failures only cost the short link.
func (s *Service) shortenLink(ctx context.Context, ad *models.Ad) {
	if s.shortener == nil {
		return
	}
	short, shortID, err := s.shortener.Shorten(ctx, ad.Link)
	if err != nil {
		log.Warnf("[ContentService] Could not shorten link of ad %d: %v", ad.ID, err)
		return
	}
	if err := s.repos.Ad.UpdateColumns(ad.ID, map[string]interface{}{"short_link": short, "short_id": shortID}); err != nil {
		log.Warnf("[ContentService] Could not store short link of ad %d: %v", ad.ID, err)
		return
	}
	ad.ShortLink, ad.ShortID = short, shortID
}

// FollowShortLink resolves a locally issued short id to the link of an active
// ad and counts the click.
func (s *Service) FollowShortLink(_ context.Context, shortID string) (string, error) {
	ad, err := s.repos.Ad.FindBy("short_id", shortID)
	if err != nil {
		return "", notFound("ad link", shortID, err)
	}
	if !ad.IsActive {
		return "", fmt.Errorf("ad link %s: %w", shortID, ErrNotFound)
	}
	if err := s.repos.Ad.UpdateColumns(ad.ID, map[string]interface{}{"clicks": gorm.Expr("clicks + ?", 1)}); err != nil {
		log.Warnf("[ContentService] Could not count click on ad %d: %v", ad.ID, err)
	}
	return ad.Link, nil
}
