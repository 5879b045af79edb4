package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/pkg/response"
)

// MaxImageBytes bounds item image uploads.
const MaxImageBytes = 5 << 20

type ItemHandler struct {
	Catalog *app.CatalogService
	Logger  logrus.FieldLogger
}

func NewItemHandler(catalog *app.CatalogService, logger logrus.FieldLogger) *ItemHandler {
	return &ItemHandler{Catalog: catalog, Logger: logger}
}

// createItemRequest accepts the price either in minor units or as a
// decimal string ("149.99"); the service checks that one is present.
type createItemRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description"`
	Price        *int64 `json:"price"`
	PriceDecimal string `json:"price_decimal" binding:"omitempty,money"`
	ImageURL     string `json:"image_url" binding:"omitempty,url"`
	Category     string `json:"category" binding:"max=100"`
}

type updateItemRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	Price        *int64  `json:"price"`
	PriceDecimal *string `json:"price_decimal" binding:"omitempty,money"`
	ImageURL     *string `json:"image_url"`
	Category     *string `json:"category" binding:"omitempty,max=100"`
	IsActive     *bool   `json:"is_active"`
}

// queryInt returns 0 for missing or non-numeric values so the service
// applies its defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func (h *ItemHandler) List(c *gin.Context) {
	page, err := h.Catalog.ListItems(c.Request.Context(), app.ListItemsQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemViews(page.Items), "items", response.PageMeta{
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *ItemHandler) Categories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	response.Success(c, http.StatusOK, cats, "categories", nil)
}

func (h *ItemHandler) Search(c *gin.Context) {
	items, err := h.Catalog.SearchItems(c.Request.Context(), c.Query("q"), queryInt(c, "size"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemViews(items), "items", nil)
}

func (h *ItemHandler) Get(c *gin.Context) {
	it, err := h.Catalog.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemView(it), "item", nil)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	it, err := h.Catalog.CreateItem(c.Request.Context(), app.ItemInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		PriceDecimal: req.PriceDecimal,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, app.NewItemView(it), "item created", nil)
}

func (h *ItemHandler) Update(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	it, err := h.Catalog.UpdateItem(c.Request.Context(), c.Param("id"), app.ItemPatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		PriceDecimal: req.PriceDecimal,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemView(it), "item updated", nil)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Catalog.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "deleted": true}, "item deleted", nil)
}

// UploadImage expects a multipart form with the file under "image".
func (h *ItemHandler) UploadImage(c *gin.Context) {
	if !h.Catalog.ImagesEnabled() {
		writeError(c, h.Logger, app.ErrFeatureUnavailable)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+1<<10)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required (max 5MB)"})
		return
	}
	if fh.Size > MaxImageBytes {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be at most 5MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := f.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, 0); err != nil {
			writeError(c, h.Logger, err)
			return
		}
	}

	it, err := h.Catalog.UploadItemImage(c.Request.Context(), c.Param("id"), fh.Filename, contentType, f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemView(it), "image uploaded", nil)
}
