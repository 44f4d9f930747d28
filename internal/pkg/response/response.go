package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeDiscountInvalid  = 1004
	CodeDuplicatePending = 1005 // 警告而非硬错误：存在在途支付，可确认后继续
	CodeAmountUnresolved = 1006
	CodeServerError      = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "参数错误",
	CodeAuthFailed:       "认证失败",
	CodePermissionDenied: "权限不足",
	CodeResourceNotFound: "资源不存在",
	CodeDiscountInvalid:  "优惠码不可用",
	CodeDuplicatePending: "存在待支付的相同订单",
	CodeAmountUnresolved: "未配置缴费金额",
	CodeServerError:      "服务器内部错误，请稍后重试",
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData 携带数据的错误响应（如重复支付提示需要附上已有订单）
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// DiscountInvalidError 优惠码校验失败，message 必须是具体原因
func DiscountInvalidError(c *gin.Context, message string) {
	Error(c, CodeDiscountInvalid, message)
}

// DuplicatePendingWarning 重复支付提示，附带已有订单信息
func DuplicatePendingWarning(c *gin.Context, data interface{}) {
	ErrorWithData(c, CodeDuplicatePending, "", data)
}

// AmountUnresolvedError 未配置缴费金额
func AmountUnresolvedError(c *gin.Context, message string) {
	Error(c, CodeAmountUnresolved, message)
}

// ServerError 服务器错误（存储不可用等，对外统一为重试提示）
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
