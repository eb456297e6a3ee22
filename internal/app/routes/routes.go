package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/umut/fairline/internal/app/controllers"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/middleware"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	jobFairController *controllers.JobFairController,
	boothController *controllers.BoothController,
	bookingController *controllers.BookingController,
	qnaController *controllers.QnaController,
	realtimeHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Job fair routes
		fairs := authenticated.Group("/fairs")
		{
			fairs.GET("", jobFairController.ListFairs)
			fairs.GET("/:id", jobFairController.GetFair)
			fairs.GET("/:id/booths", jobFairController.ListBooths)

			// Recruiter-only lifecycle routes
			fairsRecruiterProtected := fairs.Group("")
			fairsRecruiterProtected.Use(authMiddleware.RoleRequired(string(models.RoleRecruiter)))
			{
				fairsRecruiterProtected.POST("", jobFairController.CreateFair)
				fairsRecruiterProtected.DELETE("/:id", jobFairController.DeleteFair)
				fairsRecruiterProtected.POST("/:id/booths", jobFairController.CreateBooth)
			}
		}

		// Booth and slot ledger routes
		booths := authenticated.Group("/booths")
		{
			booths.GET("/:id", boothController.GetBooth)
			booths.GET("/:id/slots", boothController.ListSlots)

			// Live ledger view over websocket
			booths.GET("/:id/ws", realtimeHandler.Subscribe("booth"))

			// Ledger mutations are owner-gated in the service; the role gate
			// here only keeps students off the endpoint entirely
			boothsRecruiterProtected := booths.Group("")
			boothsRecruiterProtected.Use(authMiddleware.RoleRequired(string(models.RoleRecruiter)))
			{
				boothsRecruiterProtected.POST("/:id/slots", boothController.AddSlot)
				boothsRecruiterProtected.DELETE("/:id/slots", boothController.RemoveSlot)
			}

			// Booking is student-initiated
			booths.POST("/:id/bookings", bookingController.BookSlot)
		}

		// Appointment routes
		appointments := authenticated.Group("/appointments")
		{
			appointments.GET("", bookingController.ListAppointments)
			appointments.GET("/:id", bookingController.GetAppointment)
			appointments.DELETE("/:id", bookingController.CancelAppointment)
		}

		// Live Q&A routes
		qna := authenticated.Group("/qna")
		{
			qna.GET("", qnaController.ListSessions)
			qna.GET("/:id", qnaController.GetSession)
			qna.GET("/:id/questions", qnaController.ListQuestions)
			qna.POST("/:id/questions", qnaController.AskQuestion)

			// Live session view over websocket
			qna.GET("/:id/ws", realtimeHandler.Subscribe("qna"))

			qnaRecruiterProtected := qna.Group("")
			qnaRecruiterProtected.Use(authMiddleware.RoleRequired(string(models.RoleRecruiter)))
			{
				qnaRecruiterProtected.POST("", qnaController.CreateSession)
				qnaRecruiterProtected.POST("/:id/advance", qnaController.AdvanceSession)
				qnaRecruiterProtected.POST("/:id/questions/:questionId/answer", qnaController.AnswerQuestion)
			}
		}
	}
}
