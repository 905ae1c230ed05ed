package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/schemas"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/service"
)

type SessionController struct {
	Service *service.MatchingService
	Logger  *logrus.Logger
}

func NewSessionController(service *service.MatchingService, logger *logrus.Logger) *SessionController {
	return &SessionController{
		Service: service,
		Logger:  logger,
	}
}

// @Summary Request a session
// @Description Puts the student into the waiting line and attempts a match; idempotent across retries and reconnects
// @Tags sessions
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} schemas.RequestSessionResponse
// @Failure 503 {object} schemas.ErrorResponse
// @Router /api/sessions/request/{studentId} [post]
func (c *SessionController) RequestSession(ctx *gin.Context) {
	studentID := ctx.Param("studentId")

	session, queued, err := c.Service.RequestSession(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, c.Logger, err, "/api/sessions/request/"+studentID)
		return
	}

	resp := schemas.RequestSessionResponse{
		Status: "success",
		Queued: queued,
	}
	if session != nil {
		resp.Message = "Student matched with a tutor"
		resp.Session = schemas.NewSessionResponse(session)
	} else {
		resp.Message = "Student added to the waiting line"
	}
	ctx.JSON(http.StatusOK, resp)
}

// @Summary Cancel a session request
// @Description Removes the student's waiting entry; cancelling after a match is a no-op
// @Tags sessions
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/cancel/{studentId} [post]
func (c *SessionController) CancelRequest(ctx *gin.Context) {
	studentID := ctx.Param("studentId")

	removed := c.Service.CancelRequest(studentID)
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"removed": removed,
	})
}

// @Summary Match at a reported position
// @Description Legacy position-driven match entry point; the position is not trusted, matching is always head to head
// @Tags sessions
// @Produce json
// @Param studentId path string true "Student ID"
// @Param position path int true "Queue position the client last saw"
// @Success 200 {object} schemas.SessionResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/sessions/match/{studentId}/{position} [post]
func (c *SessionController) MatchAtPosition(ctx *gin.Context) {
	studentID := ctx.Param("studentId")
	instance := "/api/sessions/match/" + studentID

	position, err := strconv.Atoi(ctx.Param("position"))
	if err != nil {
		c.Logger.Error("Bad Request: invalid position: " + err.Error())
		ctx.JSON(http.StatusBadRequest, schemas.NewBadRequestError(
			"position must be an integer", instance))
		return
	}

	if _, err := c.Service.TryMatchAt(ctx.Request.Context(), position); err != nil {
		respondError(ctx, c.Logger, err, instance)
		return
	}

	session, err := c.Service.GetActiveSessionForStudent(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, c.Logger, err, instance)
		return
	}
	if session == nil {
		ctx.JSON(http.StatusNotFound, schemas.NewNotFoundError(
			"student has no active session yet, still waiting", instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}

// @Summary End a session
// @Description Normal end path (student or timeout); re-enqueues the tutor unless it is flagged on-meeting
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param tutorId path string true "Tutor ID"
// @Success 204
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/sessions/{sessionId}/end/{tutorId} [put]
func (c *SessionController) EndSession(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")

	if err := c.Service.EndSession(ctx.Request.Context(), sessionID); err != nil {
		respondError(ctx, c.Logger, err, "/api/sessions/"+sessionID+"/end")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary End a session by tutor
// @Description Tutor-initiated end; clears the on-meeting flag and re-enqueues the tutor
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param tutorId path string true "Tutor ID"
// @Success 204
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/sessions/{sessionId}/end-by-tutor/{tutorId} [put]
func (c *SessionController) EndSessionByTutor(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")
	tutorID := ctx.Param("tutorId")

	if err := c.Service.EndSessionByTutor(ctx.Request.Context(), tutorID, sessionID); err != nil {
		respondError(ctx, c.Logger, err, "/api/sessions/"+sessionID+"/end-by-tutor")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Disconnect a session by tutor
// @Description Abnormal end; re-enqueues the student and deactivates the tutor
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param tutorId path string true "Tutor ID"
// @Param studentId path string true "Student ID"
// @Success 204
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/sessions/{sessionId}/disconnect/{tutorId}/{studentId} [put]
func (c *SessionController) DisconnectByTutor(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")
	tutorID := ctx.Param("tutorId")
	studentID := ctx.Param("studentId")

	if err := c.Service.DisconnectByTutor(ctx.Request.Context(), tutorID, sessionID, studentID); err != nil {
		respondError(ctx, c.Logger, err, "/api/sessions/"+sessionID+"/disconnect")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// @Summary Get session status
// @Description Returns the lifecycle status of a session
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} schemas.SessionStatusResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/sessions/{sessionId}/status [get]
func (c *SessionController) GetSessionStatus(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")

	status, err := c.Service.GetSessionStatus(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, c.Logger, err, "/api/sessions/"+sessionID+"/status")
		return
	}

	ctx.JSON(http.StatusOK, schemas.SessionStatusResponse{
		SessionID: sessionID,
		Status:    string(status),
	})
}

// @Summary Get a student's active session
// @Tags sessions
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} schemas.SessionResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Router /api/students/{studentId}/session [get]
func (c *SessionController) GetStudentSession(ctx *gin.Context) {
	studentID := ctx.Param("studentId")
	instance := "/api/students/" + studentID + "/session"

	session, err := c.Service.GetActiveSessionForStudent(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, c.Logger, err, instance)
		return
	}
	if session == nil {
		ctx.JSON(http.StatusNotFound, schemas.NewNotFoundError(
			"no active session for student", instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}
