package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	out *sesv2.SendEmailOutput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	return f.out, f.err
}

func TestSES_Send(t *testing.T) {
	api := &fakeSES{out: &sesv2.SendEmailOutput{MessageId: aws.String("ses-id-1")}}
	s := &SES{client: api, defaultFrom: "orders@naghmateas.com"}

	id, err := s.Send(context.Background(), Message{
		To:       []string{"info@naghmateas.com"},
		ReplyTo:  "amine@example.com",
		Subject:  "Nouvelle demande de thé personnalisé de Amine",
		TextBody: "Bonjour",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-id-1", id)

	require.NotNil(t, api.in)
	assert.Equal(t, "orders@naghmateas.com", aws.ToString(api.in.FromEmailAddress))
	assert.Equal(t, []string{"info@naghmateas.com"}, api.in.Destination.ToAddresses)
	assert.Equal(t, []string{"amine@example.com"}, api.in.ReplyToAddresses)
	assert.Equal(t, "Bonjour", aws.ToString(api.in.Content.Simple.Body.Text.Data))
	assert.Equal(t, "UTF-8", aws.ToString(api.in.Content.Simple.Subject.Charset))
}

func TestSES_Send_Error(t *testing.T) {
	boom := errors.New("throttled")
	s := &SES{client: &fakeSES{err: boom}, defaultFrom: "orders@naghmateas.com"}

	_, err := s.Send(context.Background(), Message{To: []string{"info@naghmateas.com"}})
	assert.ErrorIs(t, err, boom)

	_, err = s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
