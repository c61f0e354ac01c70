package controllers

import (
	"context"
	"net/http"
	"strings"

	"wellness/services"

	"github.com/gin-gonic/gin"
)

// NameSuggester proposes normalized spellings of a typed food name.
type NameSuggester interface {
	SuggestFoodNames(ctx context.Context, name string) ([]string, error)
}

type SuggestionController struct {
	Names  NameSuggester
	Images NameSuggester
}

// NewSuggestionController wires text suggestions and, when images is not
// nil, photo suggestions.
func NewSuggestionController(names, images NameSuggester) *SuggestionController {
	return &SuggestionController{Names: names, Images: images}
}

type FoodImageInput struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

func (sc *SuggestionController) FoodNames(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		_ = c.Error(&services.InputError{Message: "Invalid name parameter"})
		return
	}
	names, err := sc.Names.SuggestFoodNames(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (sc *SuggestionController) FoodImage(c *gin.Context) {
	if sc.Images == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "Image suggestions are not enabled"})
		return
	}
	var input FoodImageInput
	if !bindJSON(c, &input) {
		return
	}
	names, err := sc.Images.SuggestFoodNames(c.Request.Context(), input.ImageBase64)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": names})
}
