package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/internal/api/middleware"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
)

// currentUser 取当前登录用户，失败时已写好响应
func currentUser(c *gin.Context, userRepo *repository.UserRepository) (*model.User, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return nil, false
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		response.AuthError(c, "")
		return nil, false
	}
	return user, true
}

// requireFamily 家长接口的家庭归属校验。未绑定家庭的账号拿不到任何家庭数据。
func requireFamily(c *gin.Context, userRepo *repository.UserRepository) (int64, bool) {
	user, ok := currentUser(c, userRepo)
	if !ok {
		return 0, false
	}
	if user.FamilyID == nil {
		response.PermissionError(c, "当前账号未绑定家庭")
		return 0, false
	}
	return *user.FamilyID, true
}

// requireAdmin 管理员接口校验
func requireAdmin(c *gin.Context, userRepo *repository.UserRepository) bool {
	user, ok := currentUser(c, userRepo)
	if !ok {
		return false
	}
	if user.Role != model.RoleAdmin {
		response.PermissionError(c, "")
		return false
	}
	return true
}
