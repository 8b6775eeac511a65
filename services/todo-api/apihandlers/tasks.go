package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/todo-app/todo-backend/pkg/apihelpers/middlewares"
	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
)

func (h *HttpEndpoints) AddTodoAPI(rg *gin.RouterGroup) {
	rg.GET("/test", h.welcome)
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)

	taskGroup := rg.Group("")
	taskGroup.Use(mw.GetAndValidateTodoUserJWT(h.service))
	{
		taskGroup.POST("/create", h.createTask)
		taskGroup.GET("/get", h.listTasks)
		taskGroup.PUT("/edit/:id", h.updateTask)
		taskGroup.DELETE("/delete/:id", h.deleteTask)
		taskGroup.PUT("/complete/:id", h.toggleTask)
	}
}

type CreateTaskReq struct {
	Title string `json:"title"`
}

type UpdateTaskReq struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (h *HttpEndpoints) createTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateTaskReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	task, err := h.service.CreateTask(userID, req.Title)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

func (h *HttpEndpoints) listTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *HttpEndpoints) updateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateTaskReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	task, err := h.service.UpdateTask(userID, c.Param("id"), userTypes.TaskUpdate{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}

func (h *HttpEndpoints) deleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	task, err := h.service.DeleteTask(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "task": task})
}

func (h *HttpEndpoints) toggleTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	task, err := h.service.ToggleTask(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task completion toggled", "task": task})
}
