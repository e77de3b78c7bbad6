package port

import "context"

// SMSSender delivers one-time passcodes to phone numbers. Send blocks until
// the provider accepts or rejects the message; SendAsync dispatches in the
// background and surfaces failures only through logs. Initial OTP issuance
// uses the async mode, resends use the awaited mode.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, code string) error
	SendAsync(phoneNumber, code string)
}
