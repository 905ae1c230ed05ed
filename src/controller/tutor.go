package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/schemas"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/service"
)

type TutorController struct {
	Service *service.MatchingService
	Logger  *logrus.Logger
}

func NewTutorController(service *service.MatchingService, logger *logrus.Logger) *TutorController {
	return &TutorController{
		Service: service,
		Logger:  logger,
	}
}

// @Summary Update tutor availability
// @Description Activating enqueues the tutor and attempts a match; deactivating removes any waiting entry
// @Tags tutors
// @Accept json
// @Produce json
// @Param tutorId path string true "Tutor ID"
// @Param UpdateTutorActiveRequest body schemas.UpdateTutorActiveRequest true "Availability flag"
// @Success 200 {object} map[string]string
// @Failure 400 {object} schemas.ErrorResponse
// @Router /api/tutors/{tutorId}/active [put]
func (c *TutorController) UpdateTutorActive(ctx *gin.Context) {
	tutorID := ctx.Param("tutorId")
	instance := "/api/tutors/" + tutorID + "/active"

	var reqBody schemas.UpdateTutorActiveRequest
	if err := ctx.ShouldBindJSON(&reqBody); err != nil {
		c.Logger.Error("Bad Request: " + err.Error())
		ctx.JSON(http.StatusBadRequest, schemas.NewBadRequestError(
			"Invalid JSON format: "+err.Error(), instance))
		return
	}

	if err := c.Service.SetTutorActive(ctx.Request.Context(), tutorID, *reqBody.IsActive); err != nil {
		respondError(ctx, c.Logger, err, instance)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Tutor status updated successfully"})
}

// @Summary Mark tutor as joined
// @Description Records that the tutor entered the meeting room
// @Tags tutors
// @Produce json
// @Param tutorId path string true "Tutor ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/tutors/{tutorId}/joined [put]
func (c *TutorController) MarkTutorJoined(ctx *gin.Context) {
	tutorID := ctx.Param("tutorId")

	if err := c.Service.MarkTutorJoined(ctx.Request.Context(), tutorID); err != nil {
		respondError(ctx, c.Logger, err, "/api/tutors/"+tutorID+"/joined")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Tutor connected successfully"})
}

// @Summary List tutors
// @Description Returns all tutors with their availability flags
// @Tags tutors
// @Produce json
// @Success 200 {array} schemas.TutorResponse
// @Router /api/tutors [get]
func (c *TutorController) ListTutors(ctx *gin.Context) {
	tutors, err := c.Service.ListTutors(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.Logger, err, "/api/tutors")
		return
	}

	resp := make([]schemas.TutorResponse, 0, len(tutors))
	for _, t := range tutors {
		resp = append(resp, schemas.TutorResponse{
			TutorID:     t.TutorID,
			IsActive:    t.IsActive,
			IsOnMeeting: t.IsOnMeeting,
		})
	}
	ctx.JSON(http.StatusOK, resp)
}

// @Summary Get a tutor's active session
// @Tags tutors
// @Produce json
// @Param tutorId path string true "Tutor ID"
// @Success 200 {object} schemas.SessionResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/tutors/{tutorId}/session [get]
func (c *TutorController) GetTutorSession(ctx *gin.Context) {
	tutorID := ctx.Param("tutorId")
	instance := "/api/tutors/" + tutorID + "/session"

	session, err := c.Service.GetActiveSessionForTutor(ctx.Request.Context(), tutorID)
	if err != nil {
		respondError(ctx, c.Logger, err, instance)
		return
	}
	if session == nil {
		ctx.JSON(http.StatusNotFound, schemas.NewNotFoundError(
			"no active session for tutor", instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}
