package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	userRepo       *repository.UserRepository
}

func NewPaymentHandler(paymentService *service.PaymentService, userRepo *repository.UserRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		userRepo:       userRepo,
	}
}

// Start 创建待支付订单
// POST /api/v1/payments
func (h *PaymentHandler) Start(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	var req dto.StartPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	created, dup, err := h.paymentService.StartPayment(familyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentType),
			errors.Is(err, service.ErrInvalidSubtotal),
			errors.Is(err, service.ErrNoStudents),
			errors.Is(err, service.ErrStudentNotInFamily):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrFamilyNotFound):
			response.NotFoundError(c, err.Error())
		case isDiscountError(err):
			response.DiscountInvalidError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if dup != nil {
		// 提示性拦截：前端确认后带 force=true 重新提交
		response.DuplicatePendingWarning(c, dup)
		return
	}

	response.SuccessWithMessage(c, "订单已创建", created)
}

// Get 查询支付单
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订单 ID")
		return
	}

	payment, err := h.paymentService.GetPayment(id)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	// 只允许查看本家庭的订单
	if payment.FamilyID != familyID {
		response.PermissionError(c, "")
		return
	}

	response.Success(c, payment)
}

// GatewayCallback 支付网关回调落账
// POST /api/v1/payments/gateway/callback
func (h *PaymentHandler) GatewayCallback(c *gin.Context) {
	var req dto.GatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.SettleFromGateway(&req); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentTerminal):
			// 回调重放，幂等处理为参数错误而非服务器错误
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, nil)
}
