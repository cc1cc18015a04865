// internal/notify/notifier.go
package notify

import (
	"context"
	"strings"
	"time"

	commonaws "travelbot/internal/common/aws"
	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

const (
	StatusSent    = "sent"
	StatusPartial = "partial"

	ChannelEmail = "email"
	ChannelSMS   = "sms"

	emailSubject = "Your trip itinerary"
	maxSMSLength = 1600
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Request asks for an itinerary to be sent to an email address, a phone
// number, or both.
type Request struct {
	SessionID string
	Email     string
	Phone     string
	Summary   string
}

// Result lists the channels that were delivered. When some but not all
// requested channels fail, Status is StatusPartial and Failed names them, so
// a caller retrying the request can ask only for what is missing.
type Result struct {
	NotificationID string           `json:"notificationId"`
	Status         string           `json:"status"`
	Channels       []string         `json:"channels"`
	Failed         []ChannelFailure `json:"failed,omitempty"`
	SentAt         string           `json:"sentAt"`
}

type ChannelFailure struct {
	Channel string `json:"channel"`
	Error   string `json:"error"`
}

// Notifier shares a finished itinerary over SES email and SNS SMS.
type Notifier struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// New loads AWS credentials for the configured region. It is only called
// when at least one channel is enabled.
func New(ctx context.Context, config *Config, log logger.Logger) (*Notifier, error) {
	awsCfg, err := commonaws.LoadConfig(ctx, config.AWSRegion, 3)
	if err != nil {
		return nil, err
	}
	return NewWithClients(config, commonaws.NewSESClient(awsCfg), commonaws.NewSNSClient(awsCfg), log), nil
}

func NewWithClients(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// Share sends req.Summary on every requested channel. A request naming a
// disabled channel is refused before anything is sent. Each channel is tried
// independently; an error is returned only when no channel was delivered.
func (n *Notifier) Share(ctx context.Context, req Request) (*Result, error) {
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if email == "" && phone == "" {
		return nil, apperrors.NewValidationFailedError("An email address or phone number is required.", "no recipient")
	}
	if email != "" && (!n.config.EmailEnabled || n.sesClient == nil) {
		return nil, apperrors.NewNotificationDisabledError(ChannelEmail)
	}
	if phone != "" && (!n.config.SMSEnabled || n.snsClient == nil) {
		return nil, apperrors.NewNotificationDisabledError(ChannelSMS)
	}

	if n.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.config.Timeout)
		defer cancel()
	}

	result := &Result{
		NotificationID: uuid.New().String(),
		Channels:       []string{},
	}

	var firstErr error
	deliver := func(channel string, send func() error) {
		if err := send(); err != nil {
			n.logger.Error("itinerary delivery failed", map[string]interface{}{
				"channel":   channel,
				"error":     err.Error(),
				"sessionId": req.SessionID,
			})
			result.Failed = append(result.Failed, ChannelFailure{Channel: channel, Error: err.Error()})
			if firstErr == nil {
				firstErr = apperrors.NewNotificationSendFailedError(channel, err)
			}
			return
		}
		result.Channels = append(result.Channels, channel)
	}

	if email != "" {
		deliver(ChannelEmail, func() error { return n.sendEmail(ctx, email, emailSubject, req.Summary) })
	}
	if phone != "" {
		deliver(ChannelSMS, func() error { return n.sendSMS(ctx, phone, smsBody(req.Summary)) })
	}
	if len(result.Channels) == 0 {
		return nil, firstErr
	}

	result.Status = StatusSent
	if len(result.Failed) > 0 {
		result.Status = StatusPartial
	}
	result.SentAt = time.Now().UTC().Format(time.RFC3339)

	n.logger.Info("itinerary shared", map[string]interface{}{
		"sessionId":      req.SessionID,
		"notificationId": result.NotificationID,
		"channels":       result.Channels,
		"status":         result.Status,
	})
	return result, nil
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if n.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.config.SenderID),
			},
		}
	}
	_, err := n.snsClient.Publish(ctx, input)
	return err
}

func smsBody(summary string) string {
	runes := []rune(summary)
	if len(runes) <= maxSMSLength {
		return summary
	}
	return string(runes[:maxSMSLength-3]) + "..."
}
