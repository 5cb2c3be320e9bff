package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/skip2/go-qrcode"

	pkglogger "github.com/BradenHooton/educenter/pkg/logger"
)

// EmailService delivers one-time codes to users
type EmailService interface {
	SendOTPEmail(ctx context.Context, to, name, code string) error
}

// SESClient is the subset of the SES client used to send mail
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESEmailService sends OTP emails using AWS SES
type SESEmailService struct {
	client        SESClient
	fromAddress   string
	verifyURLBase string
	validFor      time.Duration
	logger        *slog.Logger
}

// NewSESEmailService loads the default AWS credential chain for region
func NewSESEmailService(ctx context.Context, region, fromAddress, verifyURLBase string, validFor time.Duration, logger *slog.Logger) (*SESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESEmailServiceWithClient(ses.NewFromConfig(cfg), fromAddress, verifyURLBase, validFor, logger), nil
}

func NewSESEmailServiceWithClient(client SESClient, fromAddress, verifyURLBase string, validFor time.Duration, logger *slog.Logger) *SESEmailService {
	return &SESEmailService{
		client:        client,
		fromAddress:   fromAddress,
		verifyURLBase: verifyURLBase,
		validFor:      validFor,
		logger:        logger,
	}
}

type otpEmailData struct {
	Name    string
	Code    string
	Link    string
	QRCode  template.URL
	Minutes int
}

var otpHTMLTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; padding: 16px; background-color: #f8f9fa; border-radius: 4px; }
        .button { display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <p>Hello {{.Name}},</p>
        <p>Use this code to verify your account:</p>
        <div class="code">{{.Code}}</div>
        <p>The code is valid for about {{.Minutes}} minutes.</p>
        <p><a href="{{.Link}}" class="button">Verify account</a></p>
        {{if .QRCode}}<p>Or scan this code with your phone:</p>
        <p><img src="{{.QRCode}}" alt="Verification QR code" width="200" height="200"></p>{{end}}
        <div class="footer">
            <p>If you did not create an account you can ignore this email.</p>
        </div>
    </div>
</body>
</html>
`))

// SendOTPEmail sends the code together with a verification link and a QR
// code of that link
func (s *SESEmailService) SendOTPEmail(ctx context.Context, to, name, code string) error {
	link := verificationLink(s.verifyURLBase, to, code)

	data := otpEmailData{
		Name:    name,
		Code:    code,
		Link:    link,
		Minutes: int(s.validFor.Minutes()),
	}

	// A missing QR code still leaves the code and the link
	if png, err := qrcode.Encode(link, qrcode.Medium, 256); err != nil {
		s.logger.Warn("failed to render verification QR code", slog.Any("error", err))
	} else {
		data.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	var htmlBody bytes.Buffer
	if err := otpHTMLTemplate.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	textBody := fmt.Sprintf(`Hello %s,

Use this code to verify your account: %s

The code is valid for about %d minutes.

Or open this link:
%s

If you did not create an account you can ignore this email.
`, name, code, data.Minutes, link)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Your verification code"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody.String()),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send OTP email via SES",
			slog.String("email", pkglogger.SanitizedEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("OTP email sent",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

// verificationLink builds base?email=..&otp=..
func verificationLink(base, email, code string) string {
	params := url.Values{}
	params.Set("email", email)
	params.Set("otp", code)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

// LogEmailService writes the code to the log instead of sending it.
// Meant for development; the code is redacted in production.
type LogEmailService struct {
	logger *slog.Logger
	env    string
}

func NewLogEmailService(logger *slog.Logger, env string) *LogEmailService {
	return &LogEmailService{logger: logger, env: env}
}

func (s *LogEmailService) SendOTPEmail(ctx context.Context, to, name, code string) error {
	s.logger.InfoContext(ctx, "OTP email delivered to log",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		pkglogger.RedactedAttr("otp", code, s.env))
	return nil
}
