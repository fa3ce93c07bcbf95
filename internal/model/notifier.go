package model

import "context"

// EmailNotifier sends purpose-specific templated messages. A transport
// failure surfaces as an error to the caller; retry policy, if any,
// belongs to the implementation.
type EmailNotifier interface {
	SendConfirmation(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
	SendEmailChange(ctx context.Context, to, link string) error
	SendAccountDeletion(ctx context.Context, to, link string) error
	SendSensitiveChange(ctx context.Context, to, link string) error
}
