package routes

import (
	"wellness/controllers"
	"wellness/middlewares"
	"wellness/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	JWTSecret string
	Log       *zap.Logger

	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Wellness    *controllers.WellnessController
	Suggestions *controllers.SuggestionController
	Realtime    *controllers.RealtimeController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log), middlewares.ErrorHandler(d.Log))

	authed := middlewares.AuthMiddleware(d.JWTSecret)
	owner := middlewares.RequireOwnership("userId")

	auth := r.Group("/auth")
	{
		auth.POST("/signup", d.Auth.Signup)
		auth.POST("/verify", d.Auth.Verify)
		auth.POST("/resend-verification", d.Auth.ResendVerification)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/check-username", d.Auth.CheckUsername)
		auth.GET("/currentUser", authed, d.Auth.CurrentUser)
		auth.DELETE("/users/:userId", authed, middlewares.CheckRole(models.RoleAdmin), d.Auth.DeleteUser)
	}

	users := r.Group("/users/:userId", authed, owner)
	{
		users.PUT("/profile", d.Users.UpdateProfile)
		users.PUT("/preferences", d.Users.UpdatePreferences)
		users.GET("/calorie-goal", d.Users.CalorieGoal)
	}

	wellness := r.Group("/wellness", authed)
	{
		wellness.POST("", d.Wellness.Create)
		wellness.PUT("/:id", d.Wellness.Update)
		wellness.POST("/:id/food", d.Wellness.AddFoodEntry)
		wellness.POST("/:id/exercise", d.Wellness.AddExerciseEntry)
		wellness.DELETE("/:id/food/:entryId", d.Wellness.DeleteFoodEntry)
		wellness.DELETE("/:id/exercise/:entryId", d.Wellness.DeleteExerciseEntry)

		days := wellness.Group("/users/:userId", owner)
		days.GET("/daterange", d.Wellness.GetByDateRange)
		days.GET("/streak", d.Wellness.Streak)
		days.GET("/:date", d.Wellness.GetByDate)
	}

	suggestions := r.Group("/suggestions", authed)
	{
		suggestions.GET("/food-names", d.Suggestions.FoodNames)
		suggestions.POST("/food-image", d.Suggestions.FoodImage)
	}

	r.GET("/ws/events", authed, d.Realtime.Events)

	return r
}
