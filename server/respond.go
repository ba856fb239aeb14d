package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// All handlers answer with the storefront's envelope:
// {success, message?, data?, total?, page?, totalPages?}.

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func serverError(c *gin.Context, err error) {
	c.JSON(500, gin.H{"success": false, "message": "Lỗi máy chủ.", "error": err.Error()})
}

func paged(c *gin.Context, data interface{}, total, page, limit int64) {
	if limit < 1 {
		limit = 1
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	c.JSON(200, gin.H{
		"success":    true,
		"data":       data,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func pageParams(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
