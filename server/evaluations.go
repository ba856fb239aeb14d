package server

import (
	"errors"
	"strconv"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Server) evaluationsByProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, 404, "Không tìm thấy sản phẩm.")
		return
	}

	evaluations, err := s.stores.Evaluations.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true, "data": evaluations})
}

func (s *Server) listEvaluations(c *gin.Context) {
	page, limit := pageParams(c)

	var starRating, isShow *int
	if v := c.Query("starRating"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			starRating = &n
		}
	}
	if v := c.Query("isShow"); v != "" {
		show := 0
		if v == "true" || v == "1" {
			show = 1
		}
		isShow = &show
	}

	evaluations, total, err := s.stores.Evaluations.List(c.Request.Context(), starRating, isShow, page, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	paged(c, evaluations, total, page, limit)
}

type createEvaluationRequest struct {
	ProductID       string `json:"productID"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	ContentEvaluate string `json:"contentEvaluate"`
	StarRating      *int   `json:"starRating"`
}

func (s *Server) createEvaluation(c *gin.Context) {
	var req createEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Vui lòng nhập đầy đủ thông tin.")
		return
	}
	if req.ProductID == "" || req.FullName == "" || req.Phone == "" ||
		req.Email == "" || req.ContentEvaluate == "" || req.StarRating == nil {
		fail(c, 400, "Vui lòng nhập đầy đủ thông tin.")
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, 404, "Không tìm thấy sản phẩm.")
		return
	}
	ctx := c.Request.Context()
	if _, err := s.stores.Products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fail(c, 404, "Không tìm thấy sản phẩm.")
			return
		}
		serverError(c, err)
		return
	}

	evaluation := &models.Evaluation{
		ProductID:       productID,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		ContentEvaluate: req.ContentEvaluate,
		StarRating:      *req.StarRating,
		IsShow:          1,
	}
	if err := s.stores.Evaluations.Create(ctx, evaluation); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Đánh giá đã được thêm.", "data": evaluation})
}

func (s *Server) updateEvaluation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy đánh giá.")
		return
	}

	var upd models.EvaluationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}

	ctx := c.Request.Context()
	if upd.ProductID != nil {
		if _, err := s.stores.Products.FindByID(ctx, *upd.ProductID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				fail(c, 404, "Không tìm thấy sản phẩm.")
				return
			}
			serverError(c, err)
			return
		}
	}

	evaluation, err := s.stores.Evaluations.Update(ctx, id, &upd)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy đánh giá.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cập nhật đánh giá thành công.", "data": evaluation})
}

func (s *Server) deleteEvaluation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy đánh giá để xoá.")
		return
	}

	err = s.stores.Evaluations.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy đánh giá để xoá.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Xoá đánh giá thành công."})
}
