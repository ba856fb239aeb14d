package server

import (
	"errors"
	"strconv"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Server) listFeatures(c *gin.Context) {
	page, limit := pageParams(c)

	var isShow *int
	if v := c.Query("isShow"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			isShow = &n
		}
	}

	features, total, err := s.stores.Features.List(c.Request.Context(), isShow, page, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	paged(c, features, total, page, limit)
}

func (s *Server) getFeature(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy tính năng.")
		return
	}

	feature, err := s.stores.Features.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy tính năng.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true, "data": feature})
}

type createFeatureRequest struct {
	NameFeature  string `json:"nameFeature"`
	ValueFeature string `json:"valueFeature"`
	IsShow       *int   `json:"isShow"`
}

func (s *Server) createFeature(c *gin.Context) {
	var req createFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NameFeature == "" || req.ValueFeature == "" {
		fail(c, 400, "Vui lòng nhập đầy đủ thông tin.")
		return
	}

	isShow := 1
	if req.IsShow != nil {
		isShow = *req.IsShow
	}
	feature := &models.ProductFeature{
		NameFeature:  req.NameFeature,
		ValueFeature: req.ValueFeature,
		IsShow:       isShow,
	}
	if err := s.stores.Features.Create(c.Request.Context(), feature); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Thêm tính năng thành công.", "data": feature})
}

func (s *Server) updateFeature(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy tính năng.")
		return
	}

	var upd models.FeatureUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}

	feature, err := s.stores.Features.Update(c.Request.Context(), id, &upd)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy tính năng.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cập nhật tính năng thành công.", "data": feature})
}

func (s *Server) deleteFeature(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy tính năng để xoá.")
		return
	}

	err = s.stores.Features.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy tính năng để xoá.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Xoá tính năng thành công."})
}
