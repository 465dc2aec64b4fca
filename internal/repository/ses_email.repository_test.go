package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/require"
)

type fakeSes struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSes) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func Test_emailRepositoryHandler_SendEmail(t *testing.T) {
	t.Run("sends html to every recipient", func(t *testing.T) {
		ses := &fakeSes{}
		handler := &emailRepositoryHandler{sesClient: ses, fromEmail: "index@example.com"}

		id, err := handler.SendEmail(
			context.Background(),
			[]string{"a@example.com", "b@example.com"},
			"OMXC25CAP proposal",
			"<p>hi</p>",
		)
		require.NoError(t, err)
		require.Equal(t, "msg-1", id)
		require.Equal(t, "index@example.com", aws.ToString(ses.input.FromEmailAddress))
		require.Equal(t, []string{"a@example.com", "b@example.com"}, ses.input.Destination.ToAddresses)
		require.Equal(t, "<p>hi</p>", aws.ToString(ses.input.Content.Simple.Body.Html.Data))
	})

	t.Run("no recipients", func(t *testing.T) {
		handler := &emailRepositoryHandler{sesClient: &fakeSes{}}
		_, err := handler.SendEmail(context.Background(), nil, "s", "b")
		require.Error(t, err)
	})

	t.Run("ses error is wrapped", func(t *testing.T) {
		sesErr := errors.New("throttled")
		handler := &emailRepositoryHandler{sesClient: &fakeSes{err: sesErr}}
		_, err := handler.SendEmail(context.Background(), []string{"a@example.com"}, "s", "b")
		require.ErrorIs(t, err, sesErr)
	})
}
