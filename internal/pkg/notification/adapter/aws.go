package adapter

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/apusetone/chat-service/internal/pkg/notification/port"
)

const charset = "UTF-8"

// LoadAWSConfig resolves credentials from the default chain for region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws: load config: %w", err)
	}
	return cfg, nil
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends plain-text email through Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
}

func NewSESSender(cfg aws.Config, from string) *SESSender {
	return &SESSender{client: ses.NewFromConfig(cfg), from: from}
}

var _ port.EmailSender = (*SESSender)(nil)

func (s *SESSender) SendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String(charset)},
			},
		},
	})
	return err
}

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes to platform endpoints; device tokens are endpoint ARNs.
type SNSSender struct {
	client snsAPI
}

func NewSNSSender(cfg aws.Config) *SNSSender {
	return &SNSSender{client: sns.NewFromConfig(cfg)}
}

var _ port.PushSender = (*SNSSender)(nil)

func (s *SNSSender) Push(ctx context.Context, msg port.PushMessage) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(msg.DeviceToken),
		MessageStructure: aws.String("json"),
		Message:          aws.String(msg.Body),
	})
	return err
}
