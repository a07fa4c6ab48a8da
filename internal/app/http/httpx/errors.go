// Package httpx carries the error envelope every non-2xx response uses:
// {"error":{"code":"...","message":"..."}}. Codes are stable identifiers
// clients branch on; messages are for humans.
package httpx

import "github.com/gin-gonic/gin"

const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidBody        = "INVALID_BODY"
	CodeInvalidPlan        = "INVALID_PLAN"
	CodeMissingField       = "MISSING_FIELD"
	CodeNotFound           = "NOT_FOUND"
	CodeLimitReached       = "LIMIT_REACHED"
	CodePremiumRequired    = "PREMIUM_REQUIRED"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeAIGenerationFailed = "AI_GENERATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": ErrorBody{Code: code, Message: message}})
}

func AbortFail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{Code: code, Message: message}})
}
