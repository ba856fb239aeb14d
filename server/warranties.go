package server

import (
	"errors"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (s *Server) listWarranties(c *gin.Context) {
	page, limit := pageParams(c)
	warranties, total, err := s.stores.Warranties.List(c.Request.Context(), repository.WarrantyFilter{
		Status:       c.Query("status"),
		WarrantyCode: c.Query("warrantyCode"),
		Phone:        c.Query("phone"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		serverError(c, err)
		return
	}
	paged(c, warranties, total, page, limit)
}

func (s *Server) myWarranties(c *gin.Context) {
	page, limit := pageParams(c)
	warranties, total, err := s.stores.Warranties.List(c.Request.Context(), repository.WarrantyFilter{
		UserID:       currentUser(c).ID.Hex(),
		Status:       c.Query("status"),
		WarrantyCode: c.Query("warrantyCode"),
		Phone:        c.Query("phone"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		s.logger.Error("list user warranties", zap.Error(err))
		serverError(c, err)
		return
	}
	paged(c, warranties, total, page, limit)
}

func (s *Server) getWarranty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy đơn bảo hành.")
		return
	}

	warranty, err := s.stores.Warranties.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy đơn bảo hành.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true, "data": warranty})
}

func (s *Server) createWarranty(c *gin.Context) {
	var warranty models.Warranty
	if err := c.ShouldBindJSON(&warranty); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}
	ctx := c.Request.Context()

	code, err := s.warrantyCodes.Generate(ctx, s.stores.Warranties.CodeExists)
	if err != nil {
		serverError(c, err)
		return
	}
	warranty.ID = primitive.NilObjectID
	warranty.WarrantyCode = code

	if err := s.stores.Warranties.Create(ctx, &warranty); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			fail(c, 400, "Mã bảo hành đã tồn tại.")
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Đơn bảo hành đã được tạo.", "data": warranty})
}

func (s *Server) updateWarranty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy đơn bảo hành.")
		return
	}

	var upd models.WarrantyUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}

	warranty, err := s.stores.Warranties.Update(c.Request.Context(), id, &upd)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy đơn bảo hành.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cập nhật đơn bảo hành thành công.", "data": warranty})
}

func (s *Server) deleteWarranty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy đơn bảo hành để xoá.")
		return
	}

	err = s.stores.Warranties.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy đơn bảo hành để xoá.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Xoá đơn bảo hành thành công."})
}
