package controllers

import (
	"strconv"

	"wellness/middlewares"
	"wellness/services"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.ContextUserID)
}

// uintParam reads a numeric path parameter, attaching an input error to c
// when it is malformed.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		_ = c.Error(&services.InputError{Message: "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// bindJSON binds the request body, attaching an input error on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(&services.InputError{Message: err.Error()})
		return false
	}
	return true
}
