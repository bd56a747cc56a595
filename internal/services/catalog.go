package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/models"
	"gorm.io/gorm"
)

const (
	maxArtworks   = 500
	maxCategories = 100
	maxStatus     = 1000
)

// Sort orders accepted by ListArtworks
const (
	SortPriceAsc   = "priceAsc"
	SortPriceDesc  = "priceDesc"
	SortCategoryAZ = "categoryAZ"
	SortNameAZ     = "nameAZ"
)

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

var sortClauses = map[string]string{
	SortPriceAsc:   "price_cents ASC",
	SortPriceDesc:  "price_cents DESC",
	SortCategoryAZ: "category ASC",
	SortNameAZ:     "title ASC",
}

// ArtworkFilter narrows ListArtworks. Zero values do not filter.
type ArtworkFilter struct {
	Query    string
	Category string
	Year     *int
	Status   string
	Sort     string
}

// ArtworkInput is the body of create and update calls. Nil fields are left unchanged on update.
type ArtworkInput struct {
	Title      *string `json:"title"`
	PriceCents *int64  `json:"priceCents"`
	Category   *string `json:"category"`
	ImageURL   *string `json:"imageUrl"`
	Year       *int    `json:"year"`
	Medium     *string `json:"medium"`
	Dimensions *string `json:"dimensions"`
	Status     *string `json:"status"`
}

// CatalogService stores artworks, categories and status checks
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListArtworks returns at most 500 artworks matching the filter
func (s *CatalogService) ListArtworks(ctx context.Context, f ArtworkFilter) ([]models.Artwork, error) {
	q := s.db.WithContext(ctx).Model(&models.Artwork{})
	if f.Query != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(f.Query))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	order, ok := sortClauses[f.Sort]
	if !ok {
		order = sortClauses[SortPriceAsc]
	}

	artworks := []models.Artwork{}
	if err := q.Order(order).Limit(maxArtworks).Find(&artworks).Error; err != nil {
		return nil, err
	}
	return artworks, nil
}

// GetArtwork returns one artwork or a NotFound error
func (s *CatalogService) GetArtwork(ctx context.Context, id string) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := s.db.WithContext(ctx).First(&artwork, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Artwork not found")
		}
		return nil, err
	}
	return &artwork, nil
}

// CreateArtwork stores a new artwork; title, price and category are required
func (s *CatalogService) CreateArtwork(ctx context.Context, in ArtworkInput) (*models.Artwork, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "title is required")
	}
	if in.PriceCents == nil || *in.PriceCents < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "priceCents must be >= 0")
	}
	if in.Category == nil {
		return nil, apperr.New(apperr.KindInvalidInput, "category is required")
	}

	artwork := models.Artwork{
		Title:      strings.TrimSpace(*in.Title),
		PriceCents: *in.PriceCents,
		Category:   *in.Category,
		ImageURL:   in.ImageURL,
		Year:       in.Year,
		Medium:     in.Medium,
		Dimensions: in.Dimensions,
		Status:     models.StatusAvailable,
	}
	if in.Status != nil && *in.Status != "" {
		if !models.ValidArtworkStatus(*in.Status) {
			return nil, apperr.New(apperr.KindInvalidInput, "invalid status: %s", *in.Status)
		}
		artwork.Status = *in.Status
	}

	if err := s.db.WithContext(ctx).Create(&artwork).Error; err != nil {
		return nil, err
	}
	return &artwork, nil
}

// UpdateArtwork applies the non-nil fields of in
func (s *CatalogService) UpdateArtwork(ctx context.Context, id string, in ArtworkInput) (*models.Artwork, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, apperr.New(apperr.KindInvalidInput, "priceCents must be >= 0")
		}
		updates["price_cents"] = *in.PriceCents
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Year != nil {
		updates["year"] = *in.Year
	}
	if in.Medium != nil {
		updates["medium"] = *in.Medium
	}
	if in.Dimensions != nil {
		updates["dimensions"] = *in.Dimensions
	}
	if in.Status != nil {
		if !models.ValidArtworkStatus(*in.Status) {
			return nil, apperr.New(apperr.KindInvalidInput, "invalid status: %s", *in.Status)
		}
		updates["status"] = *in.Status
	}
	updates["updated_at"] = time.Now().UTC()

	res := s.db.WithContext(ctx).Model(&models.Artwork{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.KindNotFound, "Artwork not found")
	}
	return s.GetArtwork(ctx, id)
}

// MarkSold sets an artwork's status to sold
func (s *CatalogService) MarkSold(ctx context.Context, id string) error {
	sold := models.StatusSold
	_, err := s.UpdateArtwork(ctx, id, ArtworkInput{Status: &sold})
	return err
}

// DeleteArtwork removes an artwork or returns NotFound
func (s *CatalogService) DeleteArtwork(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Artwork{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Artwork not found")
	}
	return nil
}

// ListCategories returns at most 100 categories ordered by key
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("key ASC").Limit(maxCategories).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory stores a category; keys are unique
func (s *CatalogService) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	c.Key = strings.TrimSpace(c.Key)
	if c.Key == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "key is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("key = ?", c.Key).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.New(apperr.KindConflict, "Category %s already exists", c.Key)
	}

	c.ID = ""
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory removes a category or returns NotFound
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Category not found")
	}
	return nil
}

// CreateStatusCheck records a client ping
func (s *CatalogService) CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	check := models.StatusCheck{ClientName: clientName}
	if err := s.db.WithContext(ctx).Create(&check).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

// ListStatusChecks returns the most recent 1000 pings
func (s *CatalogService) ListStatusChecks(ctx context.Context) ([]models.StatusCheck, error) {
	checks := []models.StatusCheck{}
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Limit(maxStatus).Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}
