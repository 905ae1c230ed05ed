package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pavithiran2000/Start-Finish-Backend/logger"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/config"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/controller"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/db"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/rabbitmq"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/repository"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/service"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/utils"
)

// NewRouter wires the repositories, the match coordinator, and the
// controllers into a gin engine.
func NewRouter(cfg *config.GlobalConfig, database *db.DB, broadcaster *rabbitmq.Broadcaster) *gin.Engine {
	router := gin.Default()

	sessionRepo := repository.NewSessionRepository(database)
	tutorRepo := repository.NewTutorRepository(database)
	matching := service.NewMatchingService(sessionRepo, tutorRepo, broadcaster, cfg)

	queueController := controller.NewQueueController(matching, logger.Logger)
	sessionController := controller.NewSessionController(matching, logger.Logger)
	tutorController := controller.NewTutorController(matching, logger.Logger)

	api := router.Group("/api")
	{
		api.GET("/queue/:role", queueController.GetWaitingList)
		api.POST("/queue/students/:studentId/status", queueController.GetStudentQueueStatus)

		api.POST("/sessions/request/:studentId", sessionController.RequestSession)
		api.POST("/sessions/cancel/:studentId", sessionController.CancelRequest)
		api.POST("/sessions/match/:studentId/:position", sessionController.MatchAtPosition)
		api.PUT("/sessions/:sessionId/end/:tutorId", sessionController.EndSession)
		api.PUT("/sessions/:sessionId/end-by-tutor/:tutorId", sessionController.EndSessionByTutor)
		api.PUT("/sessions/:sessionId/disconnect/:tutorId/:studentId", sessionController.DisconnectByTutor)
		api.GET("/sessions/:sessionId/status", sessionController.GetSessionStatus)

		api.GET("/students/:studentId/session", sessionController.GetStudentSession)

		api.GET("/tutors", tutorController.ListTutors)
		api.PUT("/tutors/:tutorId/active", tutorController.UpdateTutorActive)
		api.PUT("/tutors/:tutorId/joined", tutorController.MarkTutorJoined)
		api.GET("/tutors/:tutorId/session", tutorController.GetTutorSession)
	}

	router.NoRoute(func(ctx *gin.Context) {
		utils.SendError(ctx, http.StatusNotFound, "Not Found", "No such route",
			"https://start-finish.com/errors/404", ctx.Request.URL.Path)
	})

	return router
}
