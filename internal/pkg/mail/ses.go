package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const utf8Charset = "UTF-8"

// SESConfig configures the Amazon SES implementation.
//
// Credentials left empty resolve through the default AWS chain, which is what
// Lambda deployments rely on.
type SESConfig struct {
	// Region is the AWS region.
	Region string
	// Endpoint overrides the AWS endpoint.
	Endpoint string
	// AccessKey is the static access key ID.
	AccessKey string
	// SecretKey is the static secret access key.
	SecretKey string
	// SessionToken is the optional session token.
	SessionToken string
	// From is the default sender when Message.From is empty.
	From string
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES is a Mail implementation backed by the Amazon SES v2 API.
type SES struct {
	client      sesAPI
	defaultFrom string
}

// NewSES constructs an SES mail sender.
func NewSES(ctx context.Context, cfg SESConfig) (*SES, error) {
	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(cfg.Region))
	} else if cfg.Endpoint != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion("us-east-1"))
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &SES{client: client, defaultFrom: cfg.From}, nil
}

// Send delivers msg and returns the SES MessageId.
func (s *SES) Send(ctx context.Context, msg Message) (string, error) {
	from, err := msg.sender(s.defaultFrom)
	if err != nil {
		return "", err
	}

	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(utf8Charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String(utf8Charset)},
				},
			},
		},
	}
	if msg.ReplyTo != "" {
		in.ReplyToAddresses = []string{msg.ReplyTo}
	}

	out, err := s.client.SendEmail(ctx, in)
	if err != nil {
		return "", fmt.Errorf("ses: send: %w", err)
	}

	return aws.ToString(out.MessageId), nil
}

// Close implements io.Closer for interface compatibility.
func (s *SES) Close() error {
	return nil
}
