package content

import (
	"strings"
	"time"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

const dateLayout = "2006-01-02"

// LocationInput is the form of a location.
type LocationInput struct {
	NameEn       string   `form:"name_en" validate:"required,max=255"`
	NameFr       string   `form:"name_fr" validate:"required,max=255"`
	Category     string   `form:"category" validate:"required,max=100"`
	Country      string   `form:"country" validate:"required,len=2"`
	City         string   `form:"city" validate:"required,max=100"`
	Latitude     *float64 `form:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `form:"longitude" validate:"omitempty,longitude"`
	StoryEn      string   `form:"story_en" validate:"required"`
	StoryFr      string   `form:"story_fr" validate:"required"`
	OpenFrom     string   `form:"open_from" validate:"omitempty,datetime=15:04"`
	OpenTo       string   `form:"open_to" validate:"omitempty,datetime=15:04"`
	AdmissionFee *float64 `form:"admission_fee" validate:"omitempty,gte=0"`
	IsActiveAds  bool     `form:"is_active_ads"`
}

func (in *LocationInput) apply(l *models.Location) {
	l.NameEn = strings.TrimSpace(in.NameEn)
	l.NameFr = strings.TrimSpace(in.NameFr)
	l.Category = in.Category
	l.Country = strings.ToUpper(in.Country)
	l.City = in.City
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.StoryEn = upload.SanitizeHTML(in.StoryEn)
	l.StoryFr = upload.SanitizeHTML(in.StoryFr)
	l.OpenFrom = in.OpenFrom
	l.OpenTo = in.OpenTo
	l.AdmissionFee = in.AdmissionFee
	l.IsActiveAds = in.IsActiveAds
}

// EventInput is the form of an event. Dates use the YYYY-MM-DD layout.
type EventInput struct {
	NameEn        string   `form:"name_en" validate:"required,max=255"`
	NameFr        string   `form:"name_fr" validate:"required,max=255"`
	DescriptionEn string   `form:"description_en" validate:"required"`
	DescriptionFr string   `form:"description_fr" validate:"required"`
	LocationID    *uint    `form:"location_id"`
	Category      string   `form:"category" validate:"required,max=100"`
	StartDate     string   `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string   `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Time          string   `form:"time" validate:"omitempty,datetime=15:04"`
	Price         *float64 `form:"price" validate:"omitempty,gte=0"`
	Link          string   `form:"link" validate:"omitempty,url"`
}

// check runs the rules the struct tags cannot express.
func (in *EventInput) check() error {
	if in.EndDate == "" {
		return nil
	}
	// Both dates passed the datetime tag, so parsing cannot fail here.
	start, _ := time.Parse(dateLayout, in.StartDate)
	end, _ := time.Parse(dateLayout, in.EndDate)
	if end.Before(start) {
		return &upload.ValidationError{Field: "end_date", Message: "End date must not be before start date"}
	}
	return nil
}

func (in *EventInput) apply(e *models.Event) {
	e.NameEn = strings.TrimSpace(in.NameEn)
	e.NameFr = strings.TrimSpace(in.NameFr)
	e.DescriptionEn = upload.SanitizeHTML(in.DescriptionEn)
	e.DescriptionFr = upload.SanitizeHTML(in.DescriptionFr)
	e.LocationID = in.LocationID
	e.Category = in.Category
	e.StartDate, _ = time.Parse(dateLayout, in.StartDate)
	e.EndDate = nil
	if in.EndDate != "" {
		end, _ := time.Parse(dateLayout, in.EndDate)
		e.EndDate = &end
	}
	e.Time = in.Time
	e.Price = in.Price
	e.Link = in.Link
}

// HikingInput is the form of a hiking trail.
type HikingInput struct {
	City          string `form:"city" validate:"required,max=100"`
	NameEn        string `form:"name_en" validate:"required,max=255"`
	NameFr        string `form:"name_fr" validate:"required,max=255"`
	DescriptionEn string `form:"description_en" validate:"required"`
	DescriptionFr string `form:"description_fr" validate:"required"`
}

func (in *HikingInput) apply(h *models.Hiking) {
	h.City = in.City
	h.NameEn = strings.TrimSpace(in.NameEn)
	h.NameFr = strings.TrimSpace(in.NameFr)
	h.DescriptionEn = upload.SanitizeHTML(in.DescriptionEn)
	h.DescriptionFr = upload.SanitizeHTML(in.DescriptionFr)
}

// AdInput is the form of an ad. Banners and gallery travel as uploads.
type AdInput struct {
	Link     string `form:"link" validate:"required,url,max=500"`
	IsActive bool   `form:"is_active"`
}

// BrandInput is the form of a partner or sponsor.
type BrandInput struct {
	Name     string `form:"name" validate:"required,max=255"`
	Link     string `form:"link" validate:"omitempty,url,max=500"`
	IsActive bool   `form:"is_active"`
}

func (in *BrandInput) apply(b *models.Brand) {
	b.Name = strings.TrimSpace(in.Name)
	b.Link = in.Link
	b.IsActive = in.IsActive
}

// PageInput is the form of a static page.
type PageInput struct {
	Slug      string `form:"slug" validate:"required,max=255"`
	IsActive  bool   `form:"is_active"`
	TitleEn   string `form:"title_en" validate:"required,max=255"`
	TitleFr   string `form:"title_fr" validate:"required,max=255"`
	ContentEn string `form:"content_en"`
	ContentFr string `form:"content_fr"`
}

func (in *PageInput) apply(p *models.Page) {
	p.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	p.IsActive = in.IsActive
	p.TitleEn = strings.TrimSpace(in.TitleEn)
	p.TitleFr = strings.TrimSpace(in.TitleFr)
	p.ContentEn = upload.SanitizeHTML(in.ContentEn)
	p.ContentFr = upload.SanitizeHTML(in.ContentFr)
}
