package services

import (
	"context"
	"fmt"
	"time"

	"wellness/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// VerificationTTL is how long a verification code stays valid.
const VerificationTTL = 10 * time.Minute

// SESAPI is the part of *ses.Client used to deliver verification email.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the part of *sns.Client used to deliver verification SMS.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// VerificationSender delivers a code over one channel.
type VerificationSender interface {
	Send(ctx context.Context, channel, address, code string) error
}

type VerificationService struct {
	ses  SESAPI
	sns  SNSAPI
	from string
	log  *zap.Logger
}

func NewVerificationService(sesClient SESAPI, snsClient SNSAPI, from string, log *zap.Logger) *VerificationService {
	return &VerificationService{ses: sesClient, sns: snsClient, from: from, log: log}
}

func (v *VerificationService) Send(ctx context.Context, channel, address, code string) error {
	switch channel {
	case models.VerificationEmail:
		return v.SendVerificationEmail(ctx, address, code)
	case models.VerificationSMS:
		return v.SendVerificationSMS(ctx, address, code)
	default:
		return invalidInput(fmt.Sprintf("unknown verification type %q", channel))
	}
}

func (v *VerificationService) SendVerificationEmail(ctx context.Context, to, code string) error {
	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: aws.String("Verify your email address"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data: aws.String(fmt.Sprintf("Please verify your email address by entering the following code: %s", code)),
				},
				Html: &sestypes.Content{
					Data: aws.String(fmt.Sprintf("<html><body><p>Please verify your email address by entering the following code:</p><h2>%s</h2></body></html>", code)),
				},
			},
		},
		Source: aws.String(v.from),
	}

	if _, err := v.ses.SendEmail(ctx, input); err != nil {
		v.log.Error("SES send failed", zap.Error(err))
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func (v *VerificationService) SendVerificationSMS(ctx context.Context, phoneNumber, code string) error {
	_, err := v.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(fmt.Sprintf("Your verification code is: %s", code)),
	})
	if err != nil {
		v.log.Error("SNS publish failed", zap.Error(err))
		return fmt.Errorf("failed to send verification SMS: %w", err)
	}
	return nil
}
