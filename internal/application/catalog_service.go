package application

import (
	"context"
	"errors"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

const (
	DefaultPage       = 1
	DefaultPageSize   = 100
	MaxPageSize       = 100
	DefaultSearchSize = 10
	MaxSearchSize     = 50
)

// CatalogService serves the item catalog. Index and Uploader are optional.
type CatalogService struct {
	Items    repo.ItemRepository
	Index    ItemIndexer
	Uploader ObjectUploader
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewCatalogService(items repo.ItemRepository, index ItemIndexer, uploader ObjectUploader, logger logrus.FieldLogger) *CatalogService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &CatalogService{Items: items, Index: index, Uploader: uploader, Logger: logger, Now: time.Now}
}

type ListItemsQuery struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

type ItemPage struct {
	Items    []*entity.Item
	Total    int
	Page     int
	PageSize int
}

// NormalizePage applies the listing defaults and the page size cap.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// keeps (page-1)*size within int
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}
	return page, size
}

func (s *CatalogService) ListItems(ctx context.Context, q ListItemsQuery) (*ItemPage, error) {
	page, size := NormalizePage(q.Page, q.PageSize)
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, entity.AllCategories) {
		category = ""
	}
	items, total, err := s.Items.List(ctx, entity.ItemFilter{
		Category:   category,
		Search:     strings.TrimSpace(q.Search),
		ActiveOnly: true,
		Offset:     (page - 1) * size,
		Limit:      size,
	})
	if err != nil {
		return nil, storageErr(err, nil, "list items")
	}
	return &ItemPage{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.Items.Categories(ctx)
	if err != nil {
		return nil, storageErr(err, nil, "list categories")
	}
	return cats, nil
}

// ItemInput is used for creation. Price wins over PriceDecimal when both
// are present.
type ItemInput struct {
	Name         string
	Description  string
	Price        *int64
	PriceDecimal string
	ImageURL     string
	Category     string
}

// ItemPatch holds the fields an update may touch; nil means unchanged.
type ItemPatch struct {
	Name         *string
	Description  *string
	Price        *int64
	PriceDecimal *string
	ImageURL     *string
	Category     *string
	IsActive     *bool
}

func resolvePrice(minor *int64, dec string) (int64, bool, error) {
	if minor != nil {
		if *minor < 0 {
			return 0, false, invalid("price", "must be greater than or equal to 0")
		}
		if *minor > entity.MaxPrice {
			return 0, false, invalid("price", "must be less than or equal to "+strconv.FormatInt(entity.MaxPrice, 10))
		}
		return *minor, true, nil
	}
	if strings.TrimSpace(dec) == "" {
		return 0, false, nil
	}
	v, err := helpers.ParseMinorUnits(dec)
	if err != nil {
		return 0, false, invalid("price_decimal", "must be a non-negative amount with at most two decimals")
	}
	if v > entity.MaxPrice {
		return 0, false, invalid("price_decimal", "is too large")
	}
	return v, true, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, in ItemInput) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	price, ok, err := resolvePrice(in.Price, in.PriceDecimal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid("price", "is required")
	}
	now := s.Now().UTC()
	it := &entity.Item{
		Name:        name,
		Description: in.Description,
		Price:       price,
		ImageURL:    in.ImageURL,
		Category:    strings.TrimSpace(in.Category),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Items.Create(ctx, it); err != nil {
		return nil, storageErr(err, nil, "create item")
	}
	s.index(ctx, it)
	return it, nil
}

// GetItem hides deactivated items.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	it, err := s.Items.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrItemNotFound, "get item")
	}
	if !it.IsActive {
		return nil, ErrItemNotFound
	}
	return it, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id string, p ItemPatch) (*entity.Item, error) {
	it, err := s.Items.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrItemNotFound, "get item")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name", "must not be empty")
		}
		it.Name = name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	dec := ""
	if p.PriceDecimal != nil {
		dec = *p.PriceDecimal
	}
	if price, ok, err := resolvePrice(p.Price, dec); err != nil {
		return nil, err
	} else if ok {
		it.Price = price
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		it.Category = strings.TrimSpace(*p.Category)
	}
	if p.IsActive != nil {
		it.IsActive = *p.IsActive
	}
	it.UpdatedAt = s.Now().UTC()
	if err := s.Items.Update(ctx, it); err != nil {
		return nil, storageErr(err, ErrItemNotFound, "update item")
	}
	s.index(ctx, it)
	return it, nil
}

// DeleteItem deactivates the item. Existing cart lines and order
// snapshots keep referring to it.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	inactive := false
	_, err := s.UpdateItem(ctx, id, ItemPatch{IsActive: &inactive})
	return err
}

// SearchItems uses the full-text index when configured and falls back
// to the name substring filter otherwise.
func (s *CatalogService) SearchItems(ctx context.Context, q string, size int) ([]*entity.Item, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("q", "is required")
	}
	if size < 1 {
		size = DefaultSearchSize
	}
	if size > MaxSearchSize {
		size = MaxSearchSize
	}

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, size)
		if err == nil {
			out := make([]*entity.Item, 0, len(ids))
			for _, id := range ids {
				it, gerr := s.Items.GetByID(ctx, id)
				if gerr != nil {
					if errors.Is(gerr, repo.ErrNotFound) {
						continue
					}
					return nil, storageErr(gerr, nil, "get item")
				}
				if it.IsActive {
					out = append(out, it)
				}
			}
			return out, nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return nil, ErrTimeout
		}
		s.Logger.WithError(err).WithField("q", q).Warn("search index failed, falling back to substring match")
	}

	items, _, err := s.Items.List(ctx, entity.ItemFilter{Search: q, ActiveOnly: true, Limit: size})
	if err != nil {
		return nil, storageErr(err, nil, "search items")
	}
	return items, nil
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImagesEnabled reports whether an object store is configured.
func (s *CatalogService) ImagesEnabled() bool { return s.Uploader != nil }

// UploadItemImage stores the image under items/<id>/<uuid><ext> and
// points the item at it.
func (s *CatalogService) UploadItemImage(ctx context.Context, id, filename, contentType string, r io.Reader) (*entity.Item, error) {
	if s.Uploader == nil {
		return nil, ErrFeatureUnavailable
	}
	defExt, ok := imageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, invalid("image", "must be a jpeg, png, webp or gif image")
	}
	it, err := s.Items.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrItemNotFound, "get item")
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = defExt
	}
	objectPath := path.Join("items", it.ID, uuid.NewString()+ext)
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, storageErr(err, nil, "upload image")
	}
	it.ImageURL = url
	it.UpdatedAt = s.Now().UTC()
	if err := s.Items.Update(ctx, it); err != nil {
		return nil, storageErr(err, ErrItemNotFound, "update item")
	}
	s.index(ctx, it)
	return it, nil
}

func (s *CatalogService) index(ctx context.Context, it *entity.Item) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, it); err != nil {
		s.Logger.WithError(err).WithField("item_id", it.ID).Warn("item index failed")
	}
}
