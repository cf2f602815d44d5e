package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/config"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/service"
	"shorturl-go/response"
)

var appCfg config.AppConfig

// Init 注入业务配置
func Init(conf config.AppConfig) {
	appCfg = conf
}

// CreateShortURLHandler 创建短链
func CreateShortURLHandler(c *gin.Context) {
	var req dto.CreateShortURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(bindingError(err))
		return
	}

	shortURL, err := service.CreateShortURL(c.Request.Context(), req)
	if err != nil {
		zap.L().Warn("Short URL creation failed",
			zap.Error(err),
			zap.String("custom_alias", req.CustomAlias),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated,
		response.OK(dto.ToShortURLResponse(shortURL, appCfg.BaseURL), "Short URL created"))
}

// ListShortURLsHandler 分页查询短链列表
func ListShortURLsHandler(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestError("page must be a positive integer"))
		return
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > 100 {
		_ = c.Error(apperrors.InvalidRequestError("size must be between 1 and 100"))
		return
	}

	pageResp, err := service.ListShortURLs(c.Request.Context(), page, size)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

// UpdateShortURLHandler 更新短链的目标地址
func UpdateShortURLHandler(c *gin.Context) {
	shortCode := c.Param("shortCode")

	var req dto.UpdateShortURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(bindingError(err))
		return
	}

	if err := service.UpdateTargetURL(c.Request.Context(), shortCode, req.URL); err != nil {
		zap.L().Warn("Short URL update failed",
			zap.Error(err),
			zap.String("short_code", shortCode),
			zap.String("target_url", req.URL),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK("", "Short URL updated"))
}

// DeactivateShortURLHandler 停用短链
func DeactivateShortURLHandler(c *gin.Context) {
	shortCode := c.Param("shortCode")

	if err := service.Deactivate(c.Request.Context(), shortCode); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK("", "Short URL deactivated"))
}

// GetAnalyticsHandler 查询某短链的点击统计
func GetAnalyticsHandler(c *gin.Context) {
	shortCode := c.Param("shortCode")

	summary, err := service.GetAnalyticsSummary(c.Request.Context(), shortCode)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(summary, "success"))
}

// HealthHandler 健康检查，不参与限流
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// bindingError 把 validator 的字段错误转成对用户友好的 400
func bindingError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.InvalidRequestError(
			"invalid field: " + verrs[0].Field())
	}
	return apperrors.InvalidRequestErrorDefault()
}
