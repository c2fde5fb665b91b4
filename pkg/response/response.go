package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess     = 0
	CodeParamError  = 400
	CodeNotFound    = 404
	CodeServerError = 500
)

// Game-specific business codes
const (
	CodeWalletNotConnected    = 1001
	CodeInsufficientResources = 1002
	CodeSlotBusy              = 1003
	CodeClaimFirst            = 1004
	CodeNothingToClaim        = 1005
	CodeAlreadyInProgress     = 1006
	CodeDailyCooldown         = 1007
	CodeInvalidTransfer       = 1008
	CodeAccountNotFound       = 1009
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
