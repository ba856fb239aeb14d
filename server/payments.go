package server

import (
	"errors"

	"github.com/duyshop/backend/pkg/repository"
	"github.com/duyshop/backend/pkg/vnpay"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createPaymentRequest struct {
	Amount    int64  `json:"amount"`
	OrderCode string `json:"orderCode"`
}

// createPayment builds a signed VNPay redirect URL. Pure computation; no
// state is touched.
func (s *Server) createPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}
	if req.Amount <= 0 {
		req.Amount = 100000
	}

	url, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		Amount:    req.Amount,
		OrderCode: req.OrderCode,
		ClientIP:  c.ClientIP(),
		BankCode:  c.Query("bankCode"),
		Locale:    c.Query("language"),
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "url": url})
}

// paymentReturn is the gateway callback: verify the signature over the
// returned parameters, look the order up by the code carried in OrderInfo
// and flip it to paid. A replayed valid callback re-applies the same flag.
func (s *Server) paymentReturn(c *gin.Context) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if err := s.gateway.VerifyCallback(params); err != nil {
		if errors.Is(err, vnpay.ErrInvalidSignature) {
			fail(c, 400, "Chữ ký không hợp lệ")
			return
		}
		serverError(c, err)
		return
	}

	orderCode := vnpay.OrderCodeFromInfo(params["vnp_OrderInfo"])
	if orderCode == "" {
		fail(c, 400, "Không tìm thấy mã đơn hàng trong OrderInfo.")
		return
	}

	err := s.stores.Orders.MarkPaid(c.Request.Context(), orderCode)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy giao dịch.")
		return
	}
	if err != nil {
		s.logger.Error("mark order paid", zap.String("code", orderCode), zap.Error(err))
		serverError(c, err)
		return
	}

	c.Redirect(302, s.config.VNPay.SuccessURL+"/"+orderCode)
}
