package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoRecipient = errors.New("recipient is required")
	ErrNoSender    = errors.New("sender is required")
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient sends Owner notifications through Amazon SES v2.
type SESClient struct {
	client sesAPI
	sender string
}

// NewSESClient builds a client from static credentials. Arena only ever
// sends from one verified address, given as sender.
func NewSESClient(accessKeyID, secretAccessKey, region, sender string) (*SESClient, error) {
	if accessKeyID == "" || secretAccessKey == "" || region == "" {
		return nil, errors.New("ses credentials and region are required")
	}
	if strings.TrimSpace(sender) == "" {
		return nil, ErrNoSender
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESClient{client: sesv2.NewFromConfig(awsCfg), sender: strings.TrimSpace(sender)}, nil
}

func (c *SESClient) Send(ctx context.Context, recipient, subject, body string) error {
	return c.SendFrom(ctx, recipient, subject, body, "")
}

// SendFrom sends with an explicit From address; blank uses the configured
// sender.
func (c *SESClient) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	if c == nil || c.client == nil {
		return errors.New("ses client is not initialized")
	}

	to := strings.TrimSpace(recipient)
	if to == "" {
		return ErrNoRecipient
	}
	from := strings.TrimSpace(sender)
	if from == "" {
		from = c.sender
	}
	if from == "" {
		return ErrNoSender
	}

	if _, err := c.client.SendEmail(ctx, plainTextEmail(from, to, Message{Subject: subject, Body: body})); err != nil {
		log.Error().Err(err).Str("recipient", to).Str("subject", subject).Msg("SES send failed")
		return fmt.Errorf("send ses email: %w", err)
	}
	return nil
}

func plainTextEmail(from, to string, msg Message) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
}
