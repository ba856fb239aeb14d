// Package server wires the HTTP surface of the shop backend: accounts,
// catalog, orders, VNPay payments, warranty claims, evaluations, statistics
// and uploads.
package server

import (
	"context"
	"time"

	"github.com/duyshop/backend/pkg/config"
	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/ordercode"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/duyshop/backend/pkg/vnpay"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store interfaces are satisfied by the repository types; handlers depend on
// them so tests can swap in in-memory fakes.

type OrderStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	FindByCode(ctx context.Context, code string) (*models.Order, error)
	List(ctx context.Context, code string, page, limit int64) ([]models.Order, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Order, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, upd *models.OrderUpdate) (*models.Order, error)
	Hide(ctx context.Context, id primitive.ObjectID) error
	MarkPaid(ctx context.Context, code string) error
	ItemsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error)
}

type ProductStore interface {
	List(ctx context.Context, f repository.ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	List(ctx context.Context, search, email string, page, limit int64) ([]models.User, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, email, phone, address, fullName string) (*models.User, error)
}

type WarrantyStore interface {
	List(ctx context.Context, f repository.WarrantyFilter) ([]models.Warranty, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Warranty, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, warranty *models.Warranty) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.WarrantyUpdate) (*models.Warranty, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type EvaluationStore interface {
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Evaluation, error)
	List(ctx context.Context, starRating, isShow *int, page, limit int64) ([]models.Evaluation, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.EvaluationUpdate) (*models.Evaluation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FeatureStore interface {
	List(ctx context.Context, isShow *int, page, limit int64) ([]models.ProductFeature, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProductFeature, error)
	Create(ctx context.Context, feature *models.ProductFeature) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.FeatureUpdate) (*models.ProductFeature, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type StatsStore interface {
	RevenueBuckets(ctx context.Context, start, end time.Time, unit repository.BucketUnit) ([]repository.RevenueBucket, error)
	SoldBuckets(ctx context.Context, start, end time.Time, unit repository.BucketUnit) ([]repository.SoldBucket, error)
	RangeTotals(ctx context.Context, start, end time.Time) (float64, int64, int64, error)
}

// PaymentGateway is the signed-URL side of VNPay; *vnpay.Client implements it.
type PaymentGateway interface {
	BuildPaymentURL(req vnpay.PaymentRequest) (string, error)
	VerifyCallback(params map[string]string) error
}

// Cache is the optional Redis layer; a nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Stores struct {
	Orders      OrderStore
	Products    ProductStore
	Users       UserStore
	Warranties  WarrantyStore
	Evaluations EvaluationStore
	Features    FeatureStore
	Stats       StatsStore
}

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	stores  Stores
	cache   Cache
	gateway PaymentGateway

	orderCodes    *ordercode.Generator
	warrantyCodes *ordercode.Generator
}

func New(cfg *config.Config, logger *zap.Logger, stores Stores, cache Cache, gateway PaymentGateway) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(corsMiddleware())

	return &Server{
		config:        cfg,
		logger:        logger,
		router:        router,
		stores:        stores,
		cache:         cache,
		gateway:       gateway,
		orderCodes:    ordercode.NewOrderGenerator(),
		warrantyCodes: ordercode.NewWarrantyGenerator(),
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Accounts
	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)
	s.router.GET("/users", s.listUsers)
	s.router.GET("/me", s.requireAuth(), s.me)
	s.router.POST("/change-password", s.requireAuth(), s.changePassword)
	s.router.PUT("/update-profile", s.requireAuth(), s.updateProfile)

	// Catalog
	products := s.router.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/:id", s.getProduct)
		products.POST("", s.createProduct)
		products.PUT("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)
	}

	// Orders
	transaction := s.router.Group("/transaction")
	{
		transaction.GET("", s.listOrders)
		transaction.GET("/my-orders", s.requireAuth(), s.myOrders)
		transaction.GET("/:code", s.getOrder)
		transaction.POST("", s.optionalAuth(), s.createOrder)
		transaction.PUT("/:id", s.updateOrder)
		transaction.DELETE("/:id", s.deleteOrder)
	}

	// VNPay
	vnp := s.router.Group("/vnp")
	{
		vnp.POST("/create_payment", s.createPayment)
		vnp.GET("/vnpay_return", s.paymentReturn)
	}

	s.router.GET("/statistics", s.statistics)

	evaluate := s.router.Group("/evaluate")
	{
		evaluate.GET("", s.listEvaluations)
		evaluate.GET("/product/:productId", s.evaluationsByProduct)
		evaluate.POST("", s.createEvaluation)
		evaluate.PUT("/:id", s.updateEvaluation)
		evaluate.DELETE("/:id", s.deleteEvaluation)
	}

	warranty := s.router.Group("/warranty")
	{
		warranty.GET("", s.listWarranties)
		warranty.GET("/my-warranties", s.requireAuth(), s.myWarranties)
		warranty.GET("/:id", s.getWarranty)
		warranty.POST("", s.createWarranty)
		warranty.PUT("/:id", s.updateWarranty)
		warranty.DELETE("/:id", s.deleteWarranty)
	}

	features := s.router.Group("/product-features")
	{
		features.GET("", s.listFeatures)
		features.GET("/:id", s.getFeature)
		features.POST("", s.createFeature)
		features.PUT("/:id", s.updateFeature)
		features.DELETE("/:id", s.deleteFeature)
	}

	img := s.router.Group("/img")
	{
		img.POST("/single", s.uploadSingle)
		img.POST("/multiple", s.uploadMultiple)
		img.GET("/:filename", s.serveImage)
	}

	s.router.POST("/openai/generate", s.generateTryOn)

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
