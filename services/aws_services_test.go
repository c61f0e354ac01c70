package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rktypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{}, f.err
}

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakeRekognition struct {
	in     *rekognition.DetectLabelsInput
	labels []string
}

func (f *fakeRekognition) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.in = in
	out := &rekognition.DetectLabelsOutput{}
	for _, l := range f.labels {
		out.Labels = append(out.Labels, rktypes.Label{Name: aws.String(l)})
	}
	return out, nil
}

func TestVerificationServiceSend(t *testing.T) {
	mail, sms := &fakeSES{}, &fakeSNS{}
	v := NewVerificationService(mail, sms, "noreply@example.com", zap.NewNop())

	if err := v.Send(context.Background(), "email", "a@example.com", "123456"); err != nil {
		t.Fatal(err)
	}
	if mail.in == nil || mail.in.Destination.ToAddresses[0] != "a@example.com" || aws.ToString(mail.in.Source) != "noreply@example.com" {
		t.Fatalf("unexpected email %+v", mail.in)
	}
	if !strings.Contains(aws.ToString(mail.in.Message.Body.Text.Data), "123456") {
		t.Error("email body does not contain the code")
	}

	if err := v.Send(context.Background(), "sms", "+15550100", "654321"); err != nil {
		t.Fatal(err)
	}
	if aws.ToString(sms.in.PhoneNumber) != "+15550100" || !strings.Contains(aws.ToString(sms.in.Message), "654321") {
		t.Errorf("unexpected sms %+v", sms.in)
	}

	var ie *InputError
	if err := v.Send(context.Background(), "fax", "x", "1"); !errors.As(err, &ie) {
		t.Errorf("err = %v, want InputError", err)
	}
}

func TestVerificationServiceSendFailure(t *testing.T) {
	v := NewVerificationService(&fakeSES{err: errors.New("throttled")}, &fakeSNS{err: errors.New("opted out")}, "x", zap.NewNop())
	if err := v.SendVerificationEmail(context.Background(), "a@example.com", "1"); err == nil {
		t.Error("expected an email error")
	}
	if err := v.SendVerificationSMS(context.Background(), "+1", "1"); err == nil {
		t.Error("expected an sms error")
	}
}

func TestImageUploader(t *testing.T) {
	client := &fakeS3{}
	u := NewImageUploader(client, "pics", "https://cdn.example.com/")
	u.now = func() time.Time { return time.Unix(0, 42) }

	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg"))
	url, err := u.UploadProfilePicture(context.Background(), 9, uri)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/profile-pictures/9-42.jpg" {
		t.Errorf("url = %q", url)
	}
	if aws.ToString(client.in.Bucket) != "pics" || aws.ToString(client.in.ContentType) != "image/jpeg" || string(client.body) != "jpeg" {
		t.Errorf("unexpected upload %+v", client.in)
	}

	var ie *InputError
	if _, err := u.UploadProfilePicture(context.Background(), 9, "not a data uri"); !errors.As(err, &ie) {
		t.Errorf("err = %v, want InputError", err)
	}
}

func TestFoodImageService(t *testing.T) {
	client := &fakeRekognition{labels: []string{"Pizza", "Food"}}
	s := NewFoodImageService(client)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	names, err := s.SuggestFoodNames(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Pizza" {
		t.Errorf("names = %v", names)
	}
	if aws.ToInt32(client.in.MaxLabels) != 5 || aws.ToFloat32(client.in.MinConfidence) != 75 {
		t.Errorf("unexpected request %+v", client.in)
	}
	if string(client.in.Image.Bytes) != "png" {
		t.Errorf("image bytes = %q", client.in.Image.Bytes)
	}

	var ie *InputError
	if _, err := s.SuggestFoodNames(context.Background(), "garbage"); !errors.As(err, &ie) {
		t.Errorf("err = %v, want InputError", err)
	}
}
