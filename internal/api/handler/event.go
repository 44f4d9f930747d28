package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
)

const maxPosterSize = 5 << 20 // 5MB

type EventHandler struct {
	eventService *service.EventService
	userRepo     *repository.UserRepository
}

func NewEventHandler(eventService *service.EventService, userRepo *repository.UserRepository) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		userRepo:     userRepo,
	}
}

// List 即将开始的活动列表
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	items, err := h.eventService.List(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Register 活动报名
// POST /api/v1/events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动 ID")
		return
	}

	var req dto.RegisterEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, dup, err := h.eventService.Register(c.Request.Context(), familyID, eventID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrEventFull),
			errors.Is(err, service.ErrAlreadyRegistered),
			errors.Is(err, service.ErrStudentNotInFamily):
			response.ParamError(c, err.Error())
		case isDiscountError(err):
			response.DiscountInvalidError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if dup != nil {
		response.DuplicatePendingWarning(c, dup)
		return
	}

	response.SuccessWithMessage(c, "报名成功", result)
}

// Create 创建活动（管理员）
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	if !requireAdmin(c, h.userRepo) {
		return
	}

	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		StartAt     time.Time `json:"start_at" binding:"required"`
		Capacity    int       `json:"capacity"`
		FeeCents    int64     `json:"fee_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		Capacity:    req.Capacity,
		FeeCents:    req.FeeCents,
	}
	if err := h.eventService.Create(c.Request.Context(), event); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "活动已创建", event)
}

// UploadPoster 上传活动海报（管理员）
// POST /api/v1/events/:id/poster
func (h *EventHandler) UploadPoster(c *gin.Context) {
	if !requireAdmin(c, h.userRepo) {
		return
	}

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动 ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择文件")
		return
	}
	defer file.Close()

	if header.Size > maxPosterSize {
		response.ParamError(c, "文件过大，最大支持 5MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.ParamError(c, "仅支持 JPG/PNG/WebP 格式")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}

	url, err := h.eventService.UploadPoster(c.Request.Context(), eventID, data, ext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUploadNotAvailable):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "上传失败")
		}
		return
	}

	response.SuccessWithMessage(c, "上传成功", gin.H{"poster_url": url})
}
