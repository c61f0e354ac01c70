package services

import (
	"context"
	"errors"
	"fmt"

	"wellness/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxImageLabels     = 5
	minLabelConfidence = 75
)

// RekognitionAPI is the part of *rekognition.Client used to label photos.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// FoodImageService suggests food names for a photo of a meal.
type FoodImageService struct {
	client RekognitionAPI
}

func NewFoodImageService(client RekognitionAPI) *FoodImageService {
	return &FoodImageService{client: client}
}

// SuggestFoodNames returns the most confident labels for a base64 data URI.
func (s *FoodImageService) SuggestFoodNames(ctx context.Context, dataURI string) ([]string, error) {
	_, data, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidDataURI) {
			return nil, invalidInput(err.Error())
		}
		return nil, err
	}

	out, err := s.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(maxImageLabels),
		MinConfidence: aws.Float32(minLabelConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	names := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil {
			names = append(names, *l.Name)
		}
	}
	return names, nil
}
