package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (s *Server) listProducts(c *gin.Context) {
	page, limit := pageParams(c)

	filter := repository.ProductFilter{
		Search:   c.Query("search"),
		SortDesc: c.Query("sort") == "desc",
		Page:     page,
		Limit:    limit,
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.Query("sensorValve"); v != "" {
		for _, sensor := range strings.Split(v, ",") {
			filter.SensorValves = append(filter.SensorValves, strings.TrimSpace(sensor))
		}
	}
	if v := c.Query("feature"); v != "" {
		filter.Features = parseFeatureFilter(v)
	}

	products, total, err := s.stores.Products.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list products", zap.Error(err))
		serverError(c, err)
		return
	}
	paged(c, products, total, page, limit)
}

// parseFeatureFilter accepts {"key": "value"} and {"key": ["v1", "v2"]}.
func parseFeatureFilter(raw string) map[string][]string {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	features := make(map[string][]string, len(parsed))
	for key, value := range parsed {
		switch v := value.(type) {
		case string:
			features[key] = []string{v}
		case []interface{}:
			for _, item := range v {
				if str, ok := item.(string); ok {
					features[key] = append(features[key], str)
				}
			}
		}
	}
	return features
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy sản phẩm.")
		return
	}
	ctx := c.Request.Context()

	if s.cache != nil {
		var cached models.Product
		if err := s.cache.GetJSON(ctx, repository.ProductCacheKey(id.Hex()), &cached); err == nil {
			c.JSON(200, gin.H{"success": true, "data": cached})
			return
		}
	}

	product, err := s.stores.Products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy sản phẩm.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, repository.ProductCacheKey(id.Hex()), product, 30*time.Minute); err != nil {
			s.logger.Warn("cache product", zap.Error(err))
		}
	}

	c.JSON(200, gin.H{"success": true, "data": product})
}

func (s *Server) createProduct(c *gin.Context) {
	name := c.PostForm("name")
	realPriceRaw := c.PostForm("realPrice")
	if name == "" || realPriceRaw == "" {
		fail(c, 400, "Tên và giá gốc là bắt buộc.")
		return
	}
	realPrice, err := strconv.ParseFloat(realPriceRaw, 64)
	if err != nil {
		fail(c, 400, "Tên và giá gốc là bắt buộc.")
		return
	}

	filenames, err := s.saveFormImages(c, "images")
	if err != nil {
		serverError(c, err)
		return
	}

	promotionalPrice, _ := strconv.ParseFloat(c.PostForm("promotionalPrice"), 64)
	status, statusErr := strconv.Atoi(c.PostForm("status"))
	if statusErr != nil {
		status = models.ProductStatusActive
	}
	quantity, _ := strconv.Atoi(c.PostForm("quantity"))

	now := time.Now()
	product := &models.Product{
		Name:             name,
		RealPrice:        realPrice,
		PromotionalPrice: promotionalPrice,
		Description:      c.PostForm("description"),
		SensorValve:      c.PostForm("sensorValve"),
		Feature:          c.PostForm("feature"),
		Detail:           c.PostForm("detail"),
		Status:           status,
		Quantity:         quantity,
		Images:           strings.Join(filenames, ","),
		WarrantyPeriod:   c.PostForm("warrantyPeriod"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.stores.Products.Create(c.Request.Context(), product); err != nil {
		s.logger.Error("create product", zap.Error(err))
		serverError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Thêm sản phẩm thành công.", "product": product})
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy sản phẩm để cập nhật.")
		return
	}

	upd := models.ProductUpdate{}
	setString := func(field string, dst **string) {
		if v, ok := c.GetPostForm(field); ok {
			*dst = &v
		}
	}
	setString("name", &upd.Name)
	setString("description", &upd.Description)
	setString("sensorValve", &upd.SensorValve)
	setString("feature", &upd.Feature)
	setString("detail", &upd.Detail)
	setString("warrantyPeriod", &upd.WarrantyPeriod)
	if v, ok := c.GetPostForm("realPrice"); ok {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			upd.RealPrice = &price
		}
	}
	if v, ok := c.GetPostForm("promotionalPrice"); ok {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			upd.PromotionalPrice = &price
		}
	}
	if v, ok := c.GetPostForm("status"); ok {
		if status, err := strconv.Atoi(v); err == nil {
			upd.Status = &status
		}
	}
	if v, ok := c.GetPostForm("quantity"); ok {
		if quantity, err := strconv.Atoi(v); err == nil {
			upd.Quantity = &quantity
		}
	}

	// merge kept old images with freshly uploaded ones
	newImages, err := s.saveFormImages(c, "images")
	if err != nil {
		serverError(c, err)
		return
	}
	var images []string
	if old := c.PostForm("oldImages"); old != "" {
		images = strings.Split(old, ",")
	}
	images = append(images, newImages...)
	if len(images) > 0 || c.PostForm("oldImages") != "" {
		joined := strings.Join(images, ",")
		upd.Images = &joined
	}

	product, err := s.stores.Products.Update(c.Request.Context(), id, &upd)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy sản phẩm để cập nhật.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	s.invalidateProduct(c, id)
	c.JSON(200, gin.H{"success": true, "message": "Cập nhật sản phẩm thành công.", "product": product})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy sản phẩm để xoá.")
		return
	}

	err = s.stores.Products.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy sản phẩm để xoá.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	s.invalidateProduct(c, id)
	c.JSON(200, gin.H{"success": true, "message": "Xoá sản phẩm thành công."})
}

func (s *Server) invalidateProduct(c *gin.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(c.Request.Context(), repository.ProductCacheKey(id.Hex())); err != nil {
		s.logger.Warn("invalidate product cache", zap.String("id", id.Hex()), zap.Error(err))
	}
}

// saveFormImages stores every uploaded file of a multipart field and returns
// the generated filenames.
func (s *Server) saveFormImages(c *gin.Context, field string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// plain form posts without files are fine
		return nil, nil
	}

	files := form.File[field]
	if len(files) > s.config.Upload.MaxFiles {
		return nil, fmt.Errorf("tối đa %d ảnh", s.config.Upload.MaxFiles)
	}

	filenames := make([]string, 0, len(files))
	for _, file := range files {
		name, err := s.saveUpload(c, file)
		if err != nil {
			return nil, err
		}
		filenames = append(filenames, name)
	}
	return filenames, nil
}
