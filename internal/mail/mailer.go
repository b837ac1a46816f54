package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends the password recovery email over SMTP. Success means the
// message was accepted by the transport, not that it was delivered.
type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

func NewMailer(host string, port int, user, password, fromName, fromEmail string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *Mailer) SendRecoveryEmail(ctx context.Context, correo, url string) error {
	msg := gomail.NewMsg()
	if err := msg.From(fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)); err != nil {
		return fmt.Errorf("remitente inválido: %w", err)
	}
	if err := msg.To(correo); err != nil {
		return fmt.Errorf("destinatario inválido: %w", err)
	}
	msg.Subject("Recuperación de contraseña")
	msg.SetBodyString(gomail.TypeTextHTML, recoveryBody(url))

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.user),
		gomail.WithPassword(m.password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("cliente SMTP (host=%s port=%d): %w", m.host, m.port, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("envío de correo (host=%s port=%d): %w", m.host, m.port, err)
	}
	return nil
}

func recoveryBody(url string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px;">
					<tr>
						<td style="background-color: #667eea; padding: 30px 20px; text-align: center;">
							<h1 style="color: #ffffff; margin: 0; font-size: 24px;">Recuperación de contraseña</h1>
						</td>
					</tr>
					<tr>
						<td style="padding: 30px;">
							<p style="color: #333;">Recibimos una solicitud para restablecer la contraseña de su cuenta.</p>
							<p style="text-align: center; margin: 30px 0;">
								<a href="%s" style="background-color: #667eea; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Restablecer contraseña</a>
							</p>
							<p style="color: #666; font-size: 13px;">El enlace expira en poco tiempo. Si usted no solicitó este cambio, ignore este correo.</p>
						</td>
					</tr>
					<tr>
						<td style="background-color: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #e0e0e0;">
							<p style="margin: 0; color: #999; font-size: 12px;">Este es un correo automático, por favor no responder directamente</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>
`, url)
}
