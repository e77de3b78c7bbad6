package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/logger"
)

// TwilioSender delivers passcodes over SMS through Twilio. Without configured
// credentials it degrades to logging the code locally and reporting success,
// which keeps development flows working end to end.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    *zap.Logger
}

// NewTwilioSender builds a sender from settings. The client stays nil when
// credentials are absent.
func NewTwilioSender(cfg config.TwilioSettings, log *zap.Logger) *TwilioSender {
	if log == nil {
		log = zap.NewNop()
	}

	var client *twilio.RestClient
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	} else {
		log.Info("twilio credentials not configured, sms sender running in log mode")
	}

	return &TwilioSender{
		client: client,
		from:   cfg.FromNumber,
		log:    log,
	}
}

// Send delivers the passcode and blocks until the provider accepts it.
func (s *TwilioSender) Send(_ context.Context, phoneNumber, code string) error {
	if s.client == nil {
		s.log.Info("dev mode otp",
			zap.String("phone", phoneNumber),
			zap.String("code", code),
		)
		return nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(phoneNumber)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("Your verification code is: %s. Valid for 5 minutes.", code))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}

	s.log.Info("otp sms sent", zap.String("phone", logger.MaskPhone(phoneNumber)))
	return nil
}

// SendAsync dispatches the passcode in the background; failures are logged.
func (s *TwilioSender) SendAsync(phoneNumber, code string) {
	go func() {
		if err := s.Send(context.Background(), phoneNumber, code); err != nil {
			s.log.Error("async otp sms failed",
				zap.String("phone", logger.MaskPhone(phoneNumber)),
				zap.Error(err),
			)
		}
	}()
}

var _ port.SMSSender = (*TwilioSender)(nil)
