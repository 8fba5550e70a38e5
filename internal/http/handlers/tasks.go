package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"tasklist/internal/logger"
	"tasklist/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the caller's tasks in creation order
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), userID)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask expects {task:string}
func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	in, err := service.ValidateCreate(decodeBody(c))
	if err != nil {
		writeTaskError(c, err)
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask sets the completion flag. Expects {completed:bool}
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	// body is validated before the lookup, so a bad body on any id is a 422
	in, err := service.ValidateUpdate(decodeBody(c))
	if err != nil {
		writeTaskError(c, err)
		return
	}

	id, ok := taskID(c)
	if !ok {
		writeTaskError(c, service.ErrTaskNotFound)
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, ok := taskID(c)
	if !ok {
		writeTaskError(c, service.ErrTaskNotFound)
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), userID, id); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// taskID parses the :id path parameter. Anything but a positive integer
// cannot name a task.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON object body. Anything else decodes to an empty
// object so that validation reports the missing fields.
func decodeBody(c *gin.Context) map[string]any {
	body := make(map[string]any)
	if c.Request.Body == nil {
		return body
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body == nil {
		return make(map[string]any)
	}
	// a valid object followed by anything but whitespace is not a JSON body
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return make(map[string]any)
	}
	return body
}

func writeTaskError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "The given data was invalid.",
			"errors": verr.Fields,
		})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		logger.WithContext(c.Request.Context()).Error("task request failed",
			"error", err, "method", c.Request.Method, "route", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
