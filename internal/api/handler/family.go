package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
)

type FamilyHandler struct {
	familyService *service.FamilyService
	userRepo      *repository.UserRepository
}

func NewFamilyHandler(familyService *service.FamilyService, userRepo *repository.UserRepository) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		userRepo:      userRepo,
	}
}

// GetPaymentSummary 家庭支付总览
// GET /api/v1/family/payment-summary
func (h *FamilyHandler) GetPaymentSummary(c *gin.Context) {
	familyID, ok := requireFamily(c, h.userRepo)
	if !ok {
		return
	}

	summary, err := h.familyService.Aggregate(familyID)
	if err != nil {
		if err == service.ErrFamilyNotFound {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, summary)
}
