package handlers

import (
	"tasklist/internal/http/middleware"
	"tasklist/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}

// getUserID reads the id stored by middleware.JWT
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := uidVal.(int64)
	return userID, ok
}
