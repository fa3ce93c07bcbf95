package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/nkosarev/bookstore-server/internal/model"
)

var _ model.EmailNotifier = (*SMTPNotifier)(nil)

// SMTPNotifier delivers purpose-specific action emails over SMTP.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier creates a notifier for the given SMTP endpoint.
func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (n *SMTPNotifier) SendConfirmation(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Confirm your email address",
		"Thanks for registering. Click the button below to confirm your email address.",
		"Confirm email", link)
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Reset your password",
		"A password reset was requested for your account. Click the button below to choose a new password.",
		"Reset password", link)
}

func (n *SMTPNotifier) SendEmailChange(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Confirm your new email address",
		"An email change was requested for your account. Click the button below to confirm the new address.",
		"Confirm new email", link)
}

func (n *SMTPNotifier) SendAccountDeletion(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Confirm account deletion",
		"Account deletion was requested. Click the button below to confirm. This cannot be undone.",
		"Delete account", link)
}

func (n *SMTPNotifier) SendSensitiveChange(ctx context.Context, to, link string) error {
	return n.send(ctx, to, "Confirm account change",
		"A sensitive change was requested for your account. Click the button below to confirm it.",
		"Confirm change", link)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, intro, action, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.from, "Bookstore"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", renderHTML(intro, action, link))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}
	return nil
}

// renderHTML produces a minimal inline-styled message that degrades to a
// plain link when the button is stripped by the client.
func renderHTML(intro, action, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; background-color: #f7f9fc;">
	<table align="center" border="0" cellpadding="0" cellspacing="0" width="520" style="background-color: #ffffff; border-radius: 8px; padding: 24px;">
		<tr>
			<td style="color: #333333; font-size: 15px; line-height: 1.6;">
				<p style="margin-top: 0;">%s</p>
				<p style="text-align: center; padding: 16px 0;">
					<a href="%s" target="_blank" style="display: inline-block; background-color: #2d6cdf; color: #ffffff; font-weight: bold; text-decoration: none; padding: 12px 28px; border-radius: 4px;">%s</a>
				</p>
				<p style="margin-bottom: 0;">If the button does not work, copy this link into your browser:<br/><a href="%s" style="color: #2d6cdf; word-break: break-all;">%s</a></p>
				<p style="color: #888888; font-size: 12px; margin-bottom: 0;">The link is valid for 24 hours. If you did not request this, you can ignore this email.</p>
			</td>
		</tr>
	</table>
</body>
</html>`, intro, link, action, link, link)
}
