package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSESClient implements SESClient for testing
type MockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
	last          *ses.SendEmailInput
}

func (m *MockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.last = params
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESEmailService_SendOTPEmail(t *testing.T) {
	client := &MockSESClient{}
	svc := NewSESEmailServiceWithClient(client, "noreply@educenter.uz", "https://educenter.uz/verify", 5*time.Minute, slog.Default())

	err := svc.SendOTPEmail(context.Background(), "ann@example.com", "Ann", "123456")
	require.NoError(t, err)
	require.NotNil(t, client.last)

	input := client.last
	assert.Equal(t, "noreply@educenter.uz", aws.ToString(input.Source))
	assert.Equal(t, []string{"ann@example.com"}, input.Destination.ToAddresses)

	html := aws.ToString(input.Message.Body.Html.Data)
	assert.Contains(t, html, "Hello Ann")
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "about 5 minutes")
	assert.Contains(t, html, "data:image/png;base64,")

	text := aws.ToString(input.Message.Body.Text.Data)
	assert.Contains(t, text, "123456")
	assert.Contains(t, text, "https://educenter.uz/verify?email=ann%40example.com&otp=123456")
}

func TestSESEmailService_SendFailure(t *testing.T) {
	client := &MockSESClient{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	svc := NewSESEmailServiceWithClient(client, "noreply@educenter.uz", "https://educenter.uz/verify", 5*time.Minute, slog.Default())

	err := svc.SendOTPEmail(context.Background(), "ann@example.com", "Ann", "123456")
	assert.ErrorContains(t, err, "failed to send email")
}

func TestVerificationLink(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"plain base", "https://x.uz/verify", "https://x.uz/verify?"},
		{"base with query", "https://x.uz/verify?lang=uz", "https://x.uz/verify?lang=uz&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := verificationLink(tt.base, "a+b@x.com", "000111")
			assert.True(t, strings.HasPrefix(link, tt.want), link)

			parsed, err := url.Parse(link)
			require.NoError(t, err)
			assert.Equal(t, "a+b@x.com", parsed.Query().Get("email"))
			assert.Equal(t, "000111", parsed.Query().Get("otp"))
		})
	}
}

func TestLogEmailService(t *testing.T) {
	tests := []struct {
		env      string
		wantCode bool
	}{
		{"development", true},
		{"production", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			svc := NewLogEmailService(logger, tt.env)

			require.NoError(t, svc.SendOTPEmail(context.Background(), "ann@example.com", "Ann", "654321"))

			out := buf.String()
			assert.NotContains(t, out, "ann@example.com")
			assert.Equal(t, tt.wantCode, strings.Contains(out, "654321"))
		})
	}
}
