package controllers

import (
	"net/http"

	"wellness/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
	Goals *services.CalorieGoalService
}

func NewUserController(users *services.UserService, goals *services.CalorieGoalService) *UserController {
	return &UserController{Users: users, Goals: goals}
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := uc.Users.UpdateProfile(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User profile updated successfully",
		"profile": profile,
	})
}

func (uc *UserController) UpdatePreferences(c *gin.Context) {
	var input services.PreferencesInput
	if !bindJSON(c, &input) {
		return
	}
	pref, err := uc.Users.UpdatePreferences(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// CalorieGoal computes the recommended daily calories. With ?save=true the
// result also becomes the profile's goal.
func (uc *UserController) CalorieGoal(c *gin.Context) {
	algorithm := services.CalorieGoalAlgorithm(c.DefaultQuery("algorithm", string(services.AlgorithmHarrisBenedict)))
	ctx := c.Request.Context()
	uid := currentUserID(c)

	goal, err := uc.Goals.RecommendedCalorieGoal(ctx, uid, algorithm)
	if err != nil {
		_ = c.Error(err)
		return
	}
	saved := c.Query("save") == "true"
	if saved {
		if err := uc.Goals.SaveCalorieGoal(ctx, uid, goal); err != nil {
			_ = c.Error(err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"calorieGoal": goal, "algorithm": algorithm, "saved": saved})
}
