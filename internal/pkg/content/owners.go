package content

import (
	"context"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

func (s *Service) locations() galleryOwner[models.Location] {
	return galleryOwner[models.Location]{
		kind: assetpath.KindLocation,
		repo: s.repos.Location,
		id:   func(l *models.Location) uint { return l.ID },
	}
}

func (s *Service) events() galleryOwner[models.Event] {
	return galleryOwner[models.Event]{
		kind: assetpath.KindEvent,
		repo: s.repos.Event,
		id:   func(e *models.Event) uint { return e.ID },
	}
}

func (s *Service) hikings() galleryOwner[models.Hiking] {
	return galleryOwner[models.Hiking]{
		kind: assetpath.KindHiking,
		repo: s.repos.Hiking,
		id:   func(h *models.Hiking) uint { return h.ID },
	}
}

// GetLocation returns a location and its gallery.
func (s *Service) GetLocation(id uint) (*Saved[models.Location], error) {
	return reloadOwner(s, s.locations(), id, nil, nil)
}

// CreateLocation saves a new location, then stores its gallery. At least one
// image is required.
func (s *Service) CreateLocation(ctx context.Context, in LocationInput, images []Upload) (*Saved[models.Location], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	record := &models.Location{}
	in.apply(record)
	return createOwner(ctx, s, s.locations(), record, ownerSave[models.Location]{uploads: images})
}

// UpdateLocation saves the fields of a location, adds images and removes the
// images listed in remove.
func (s *Service) UpdateLocation(ctx context.Context, id uint, in LocationInput, images []Upload, remove []uint) (*Saved[models.Location], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	return updateOwner(ctx, s, s.locations(), id, in.apply, ownerSave[models.Location]{uploads: images, remove: remove})
}

// DeleteLocations deletes locations with their galleries and files.
func (s *Service) DeleteLocations(ctx context.Context, ids ...uint) (*DeleteResult, error) {
	return deleteOwners(ctx, s, s.locations(), ids, nil)
}

// GetEvent returns an event and its gallery.
func (s *Service) GetEvent(id uint) (*Saved[models.Event], error) {
	return reloadOwner(s, s.events(), id, nil, nil)
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput, images []Upload) (*Saved[models.Event], error) {
	if err := s.checkEvent(&in); err != nil {
		return nil, err
	}
	record := &models.Event{}
	in.apply(record)
	return createOwner(ctx, s, s.events(), record, ownerSave[models.Event]{uploads: images})
}

func (s *Service) UpdateEvent(ctx context.Context, id uint, in EventInput, images []Upload, remove []uint) (*Saved[models.Event], error) {
	if err := s.checkEvent(&in); err != nil {
		return nil, err
	}
	return updateOwner(ctx, s, s.events(), id, in.apply, ownerSave[models.Event]{uploads: images, remove: remove})
}

func (s *Service) DeleteEvents(ctx context.Context, ids ...uint) (*DeleteResult, error) {
	return deleteOwners(ctx, s, s.events(), ids, nil)
}

func (s *Service) checkEvent(in *EventInput) error {
	if err := upload.ValidateInput(in); err != nil {
		return err
	}
	if err := in.check(); err != nil {
		return err
	}
	if in.LocationID != nil {
		if _, err := s.repos.Location.GetByID(*in.LocationID); err != nil {
			return &upload.ValidationError{Field: "location_id", Message: "Select a valid location"}
		}
	}
	return nil
}

// GetHiking returns a hiking trail and its gallery.
func (s *Service) GetHiking(id uint) (*Saved[models.Hiking], error) {
	return reloadOwner(s, s.hikings(), id, nil, nil)
}

func (s *Service) CreateHiking(ctx context.Context, in HikingInput, images []Upload) (*Saved[models.Hiking], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	record := &models.Hiking{}
	in.apply(record)
	return createOwner(ctx, s, s.hikings(), record, ownerSave[models.Hiking]{uploads: images})
}

func (s *Service) UpdateHiking(ctx context.Context, id uint, in HikingInput, images []Upload, remove []uint) (*Saved[models.Hiking], error) {
	if err := upload.ValidateInput(in); err != nil {
		return nil, err
	}
	return updateOwner(ctx, s, s.hikings(), id, in.apply, ownerSave[models.Hiking]{uploads: images, remove: remove})
}

func (s *Service) DeleteHikings(ctx context.Context, ids ...uint) (*DeleteResult, error) {
	return deleteOwners(ctx, s, s.hikings(), ids, nil)
}

// Delete routes a bulk delete by owner kind.
func (s *Service) Delete(ctx context.Context, kind assetpath.OwnerKind, ids ...uint) (*DeleteResult, error) {
	switch kind {
	case assetpath.KindLocation:
		return s.DeleteLocations(ctx, ids...)
	case assetpath.KindEvent:
		return s.DeleteEvents(ctx, ids...)
	case assetpath.KindHiking:
		return s.DeleteHikings(ctx, ids...)
	case assetpath.KindAd:
		return s.DeleteAds(ctx, ids...)
	default:
		return nil, &upload.ValidationError{Field: "kind", Message: "Unknown content type"}
	}
}
