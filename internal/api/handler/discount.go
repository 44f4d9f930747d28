package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/money"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
)

type DiscountHandler struct {
	discountService *service.DiscountService
	userRepo        *repository.UserRepository
	currency        string
}

func NewDiscountHandler(discountService *service.DiscountService, userRepo *repository.UserRepository, currency string) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		userRepo:        userRepo,
		currency:        currency,
	}
}

// ListAvailable 当前可用优惠码及节省金额
// GET /api/v1/discounts/available?payment_type=&subtotal_cents=&student_id=
func (h *DiscountHandler) ListAvailable(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	paymentType := c.Query("payment_type")
	if !model.IsValidPaymentType(paymentType) {
		response.ParamError(c, "不支持的支付类别")
		return
	}

	subtotalCents, err := strconv.ParseInt(c.Query("subtotal_cents"), 10, 64)
	if err != nil {
		response.ParamError(c, "subtotal_cents 必须是整数")
		return
	}

	var studentID *int64
	if raw := c.Query("student_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "student_id 必须是整数")
			return
		}
		studentID = &id
	}

	subtotal := money.FromMinorUnits(subtotalCents, h.currency)
	items, err := h.discountService.ListAvailable(familyID, studentID, paymentType, subtotal)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Validate 提交前的优惠码服务端校验
// POST /api/v1/discounts/validate
func (h *DiscountHandler) Validate(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	var req dto.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if !model.IsValidPaymentType(req.PaymentType) {
		response.ParamError(c, "不支持的支付类别")
		return
	}

	subtotal := money.FromMinorUnits(req.SubtotalCents, h.currency)
	applied, err := h.discountService.Validate(req.Code, familyID, req.StudentID, subtotal, req.PaymentType)
	if err != nil {
		if isDiscountError(err) {
			// 具体失败原因透传给前端
			response.DiscountInvalidError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, applied)
}

// isDiscountError 优惠码业务校验错误（区别于存储故障）
func isDiscountError(err error) bool {
	return errors.Is(err, service.ErrDiscountNotFound) ||
		errors.Is(err, service.ErrDiscountInactive) ||
		errors.Is(err, service.ErrDiscountExpired) ||
		errors.Is(err, service.ErrDiscountScopeMismatch) ||
		errors.Is(err, service.ErrDiscountUsageExhausted) ||
		errors.Is(err, service.ErrDiscountNotApplicable)
}
