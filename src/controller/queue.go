package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/schemas"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/service"
)

type QueueController struct {
	Service *service.MatchingService
	Logger  *logrus.Logger
}

func NewQueueController(service *service.MatchingService, logger *logrus.Logger) *QueueController {
	return &QueueController{
		Service: service,
		Logger:  logger,
	}
}

// @Summary Get waiting list
// @Description Returns the full ordered waiting line for a role, oldest first
// @Tags queue
// @Produce json
// @Param role path string true "Role (student or tutor)"
// @Success 200 {object} schemas.WaitingListResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Router /api/queue/{role} [get]
func (c *QueueController) GetWaitingList(ctx *gin.Context) {
	role, ok := parseRole(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, schemas.WaitingListResponse{
		Role:    string(role),
		Waiting: c.Service.GetWaitingList(role),
	})
}

// @Summary Get student queue status
// @Description Reports the waiting line, the student's 1-based position, and whether the student is waiting
// @Tags queue
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} schemas.QueueStatusResponse
// @Router /api/queue/students/{studentId}/status [post]
func (c *QueueController) GetStudentQueueStatus(ctx *gin.Context) {
	studentID := ctx.Param("studentId")

	// Not waiting is a negative result, not an error.
	waiting, position, found := c.Service.GetQueueStatus(models.RoleStudent, studentID)
	ctx.JSON(http.StatusOK, schemas.QueueStatusResponse{
		Waiting:  waiting,
		Position: position,
		Status:   found,
	})
}
