package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ps-assigner/app/responses"
	"github.com/ps-assigner/app/services"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	assignmentService *services.AssignmentService
	logger            *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(assignmentService *services.AssignmentService, logger *zap.Logger) *AdminController {
	return &AdminController{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// GetStats thống kê service, index cache và job store
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy thống kê thành công",
		Data:      ac.assignmentService.GetStats(c.Request.Context()),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// PurgeIndexCache xóa các RangeIndex đã cache
func (ac *AdminController) PurgeIndexCache(c *gin.Context) {
	ac.assignmentService.PurgeIndexCache()
	ac.logger.Info("Index cache purged qua admin API", zap.String("client_ip", c.ClientIP()))

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã xóa index cache",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
