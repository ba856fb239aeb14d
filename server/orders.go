package server

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/ordercode"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/duyshop/backend/pkg/vnpay"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PaymentMethodVNPay is the payment-method value that routes an order through
// the gateway instead of returning it directly.
const PaymentMethodVNPay = "vnpay"

var (
	phonePattern = regexp.MustCompile(`^\d{9,11}$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

type orderItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type createOrderRequest struct {
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	Email         string             `json:"email"`
	Note          string             `json:"note"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalPrice    *float64           `json:"totalPrice"`
	Status        *int               `json:"status"`
	IsShow        *bool              `json:"isShow"`
	Details       []orderItemRequest `json:"details"`
	UserID        string             `json:"userId"`
}

// createOrder validates the request, re-checks stock for every line item,
// then persists header and items atomically. Nothing is written until all
// checks pass. VNPay orders get a signed redirect URL instead of the order
// payload; the order is already persisted (unpaid) when that happens.
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Thiếu thông tin bắt buộc hoặc danh sách sản phẩm rỗng.")
		return
	}

	if req.Phone == "" || req.Address == "" || req.Email == "" ||
		req.PaymentMethod == "" || req.TotalPrice == nil || len(req.Details) == 0 {
		fail(c, 400, "Thiếu thông tin bắt buộc hoặc danh sách sản phẩm rỗng.")
		return
	}
	if !phonePattern.MatchString(req.Phone) {
		fail(c, 400, "Số điện thoại không hợp lệ.")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		fail(c, 400, "Email không hợp lệ.")
		return
	}

	ctx := c.Request.Context()

	items := make([]models.OrderItem, 0, len(req.Details))
	for _, detail := range req.Details {
		productID, err := primitive.ObjectIDFromHex(detail.ProductID)
		if err != nil {
			fail(c, 404, fmt.Sprintf("Sản phẩm với ID %s không tồn tại.", detail.ProductID))
			return
		}

		product, err := s.stores.Products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			fail(c, 404, fmt.Sprintf("Sản phẩm với ID %s không tồn tại.", detail.ProductID))
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}

		if detail.Quantity > product.Quantity {
			fail(c, 400, fmt.Sprintf(
				"Sản phẩm \"%s\" chỉ còn %d cái trong kho, không đủ để đặt %d.",
				product.Name, product.Quantity, detail.Quantity))
			return
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  detail.Quantity,
			UnitPrice: detail.UnitPrice,
			LineTotal: detail.LineTotal,
		})
	}

	code, err := s.orderCodes.Generate(ctx, s.stores.Orders.CodeExists)
	if err != nil {
		if errors.Is(err, ordercode.ErrExhausted) {
			s.logger.Error("order code space exhausted", zap.Error(err))
		}
		serverError(c, err)
		return
	}

	status := models.OrderStatusProcessing
	if req.Status != nil {
		status = *req.Status
	}
	isShow := true
	if req.IsShow != nil {
		isShow = *req.IsShow
	}

	order := &models.Order{
		Code:          code,
		UserID:        s.buyerID(c, req.UserID),
		Phone:         req.Phone,
		Address:       req.Address,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
		IsPaid:        false,
		Status:        status,
		IsShow:        isShow,
		Note:          req.Note,
		TotalPrice:    *req.TotalPrice,
	}
	if err := s.stores.Orders.Create(ctx, order, items); err != nil {
		s.logger.Error("create order", zap.String("code", code), zap.Error(err))
		serverError(c, err)
		return
	}

	if req.PaymentMethod == PaymentMethodVNPay {
		url, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
			Amount:    int64(*req.TotalPrice),
			OrderCode: code,
			ClientIP:  c.ClientIP(),
			BankCode:  c.Query("bankCode"),
			Locale:    c.Query("language"),
		})
		if err != nil {
			s.logger.Error("build payment url", zap.String("code", code), zap.Error(err))
			serverError(c, err)
			return
		}
		c.JSON(200, gin.H{
			"success":    true,
			"message":    "Chuyển hướng đến cổng thanh toán VNPay.",
			"paymentUrl": url,
		})
		return
	}

	c.JSON(201, gin.H{
		"success": true,
		"message": "Tạo giao dịch và chi tiết thành công.",
		"data":    order,
	})
}

// buyerID resolves the optional buyer: authenticated session first, then the
// request body, else nil for guest checkout.
func (s *Server) buyerID(c *gin.Context, bodyUserID string) *primitive.ObjectID {
	if user := currentUser(c); user != nil {
		id := user.ID
		return &id
	}
	if bodyUserID != "" {
		if id, err := primitive.ObjectIDFromHex(bodyUserID); err == nil {
			return &id
		}
	}
	return nil
}

func (s *Server) listOrders(c *gin.Context) {
	page, limit := pageParams(c)
	orders, total, err := s.stores.Orders.List(c.Request.Context(), c.Query("code"), page, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	paged(c, orders, total, page, limit)
}

type myOrderEntry struct {
	models.Order
	FullName string `json:"fullName"`
}

func (s *Server) myOrders(c *gin.Context) {
	page, limit := pageParams(c)
	user := currentUser(c)

	orders, total, err := s.stores.Orders.ListByUser(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		serverError(c, err)
		return
	}

	entries := make([]myOrderEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, myOrderEntry{Order: order, FullName: user.FullName})
	}
	paged(c, entries, total, page, limit)
}

type orderDetailResponse struct {
	models.Order
	UserName string                 `json:"userName"`
	Details  []models.OrderItemView `json:"details"`
}

func (s *Server) getOrder(c *gin.Context) {
	ctx := c.Request.Context()

	order, err := s.stores.Orders.FindByCode(ctx, c.Param("code"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy giao dịch.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	items, err := s.stores.Orders.ItemsByOrder(ctx, order.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	details := make([]models.OrderItemView, 0, len(items))
	for _, item := range items {
		view := models.OrderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
		if product, err := s.stores.Products.FindByID(ctx, item.ProductID); err == nil {
			view.ProductName = product.Name
			view.ProductImages = product.Images
			view.ProductWarrantyPeriod = product.WarrantyPeriod
		}
		details = append(details, view)
	}

	userName := "Ẩn danh"
	if order.UserID != nil {
		if user, err := s.stores.Users.FindByID(ctx, *order.UserID); err == nil && user.FullName != "" {
			userName = user.FullName
		}
	}
	order.UserID = nil // the public payload carries userName instead

	c.JSON(200, gin.H{"success": true, "data": orderDetailResponse{
		Order:    *order,
		UserName: userName,
		Details:  details,
	}})
}

func (s *Server) updateOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy giao dịch để cập nhật.")
		return
	}

	var upd models.OrderUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}

	order, err := s.stores.Orders.Update(c.Request.Context(), id, &upd)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy giao dịch để cập nhật.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cập nhật thành công.", "data": order})
}

// deleteOrder only hides the order; nothing is ever physically removed
// through this endpoint.
func (s *Server) deleteOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, 404, "Không tìm thấy giao dịch để xóa.")
		return
	}

	err = s.stores.Orders.Hide(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy giao dịch để xóa.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Xóa giao dịch thành công."})
}
