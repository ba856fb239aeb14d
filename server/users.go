package server

import (
	"errors"
	"time"

	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Thiếu thông tin bắt buộc.")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		fail(c, 400, "Thiếu thông tin bắt buộc.")
		return
	}

	ctx := c.Request.Context()
	if _, err := s.stores.Users.FindByUsername(ctx, req.Username); err == nil {
		fail(c, 400, "Username hoặc email đã tồn tại.")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		serverError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	user := &models.User{
		Username: req.Username,
		Password: string(hash),
		FullName: req.FullName,
		Role:     role,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Status:   models.UserStatusActive,
	}
	if err := s.stores.Users.Create(ctx, user); err != nil {
		s.logger.Error("create user", zap.Error(err))
		serverError(c, err)
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Đăng ký thành công."})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Thiếu thông tin bắt buộc.")
		return
	}

	user, err := s.stores.Users.FindByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 400, "Tài khoản không tồn tại.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		fail(c, 400, "Mật khẩu không chính xác.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID.Hex(),
		"exp":    time.Now().Add(s.config.Auth.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"success":  true,
		"userId":   user.ID.Hex(),
		"username": user.Username,
		"role":     user.Role,
		"token":    signed,
	})
}

func (s *Server) listUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := s.stores.Users.List(c.Request.Context(),
		c.Query("search"), c.Query("email"), page, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	paged(c, users, total, page, limit)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(200, gin.H{"success": true, "data": currentUser(c)})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		fail(c, 400, "Vui lòng nhập đủ mật khẩu hiện tại và mật khẩu mới.")
		return
	}

	ctx := c.Request.Context()
	// reload with the password hash; the middleware strips it
	user, err := s.stores.Users.FindByID(ctx, currentUser(c).ID)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy người dùng.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		fail(c, 400, "Mật khẩu hiện tại không chính xác.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, err)
		return
	}
	if err := s.stores.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Đổi mật khẩu thành công."})
}

type updateProfileRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	FullName string `json:"fullName"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, 400, "Dữ liệu không hợp lệ.")
		return
	}

	user, err := s.stores.Users.UpdateProfile(c.Request.Context(), currentUser(c).ID,
		req.Email, req.Phone, req.Address, req.FullName)
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, 404, "Không tìm thấy người dùng.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Cập nhật thông tin thành công.",
		"data": gin.H{
			"email":    user.Email,
			"phone":    user.Phone,
			"address":  user.Address,
			"fullName": user.FullName,
		},
	})
}
