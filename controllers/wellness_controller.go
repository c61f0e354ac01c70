package controllers

import (
	"net/http"
	"time"

	"wellness/services"

	"github.com/gin-gonic/gin"
)

type WellnessController struct {
	Wellness *services.WellnessService
}

func NewWellnessController(w *services.WellnessService) *WellnessController {
	return &WellnessController{Wellness: w}
}

type CreateWellnessInput struct {
	Date           string `json:"date" binding:"required"`
	GlassesOfWater int    `json:"glassesOfWater"`
}

type UpdateWellnessInput struct {
	GlassesOfWater int `json:"glassesOfWater"`
}

func (wc *WellnessController) Create(c *gin.Context) {
	var input CreateWellnessInput
	if !bindJSON(c, &input) {
		return
	}
	wd, err := wc.Wellness.CreateWellnessData(c.Request.Context(), currentUserID(c), input.Date, input.GlassesOfWater)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wd)
}

func (wc *WellnessController) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var input UpdateWellnessInput
	if !bindJSON(c, &input) {
		return
	}
	wd, err := wc.Wellness.UpdateWellnessData(c.Request.Context(), currentUserID(c), id, input.GlassesOfWater)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wd)
}

func (wc *WellnessController) GetByDate(c *gin.Context) {
	wd, err := wc.Wellness.GetWellnessDataByDate(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wd)
}

func (wc *WellnessController) GetByDateRange(c *gin.Context) {
	days, err := wc.Wellness.ListWellnessData(c.Request.Context(), currentUserID(c), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (wc *WellnessController) Streak(c *gin.Context) {
	streak, err := wc.Wellness.Streak(c.Request.Context(), currentUserID(c), time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

func (wc *WellnessController) AddFoodEntry(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var input services.FoodEntryInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := wc.Wellness.AddFoodEntry(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (wc *WellnessController) AddExerciseEntry(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var input services.ExerciseEntryInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := wc.Wellness.AddExerciseEntry(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (wc *WellnessController) DeleteFoodEntry(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	entryID, ok := uintParam(c, "entryId")
	if !ok {
		return
	}
	if err := wc.Wellness.DeleteFoodEntry(c.Request.Context(), currentUserID(c), id, entryID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food entry removed successfully"})
}

func (wc *WellnessController) DeleteExerciseEntry(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	entryID, ok := uintParam(c, "entryId")
	if !ok {
		return
	}
	if err := wc.Wellness.DeleteExerciseEntry(c.Request.Context(), currentUserID(c), id, entryID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise entry removed successfully"})
}
