package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// MailService delivers transactional mail over SMTP (Mailtrap in dev).
type MailService struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendLoginLink mails the Bloom login link to a campus address.
func (ms *MailService) SendLoginLink(to, verificationURL string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", ms.From)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Ignite the spark: Your Bloom Login Link")
	message.SetBody("text/html", loginLinkBody(verificationURL))

	dialer := gomail.NewDialer(ms.Host, ms.Port, ms.Username, ms.Password)
	if err := dialer.DialAndSend(message); err != nil {
		log.Printf("❌ Error sending email to %s: %v", to, err)
		return fmt.Errorf("failed to send login email: %w", err)
	}

	log.Printf("✅ Login email sent to %s", to)
	return nil
}

func loginLinkBody(verificationURL string) string {
	return fmt.Sprintf(`
<div style="margin:0;padding:0;background:#f7d3d6;font-family:Georgia,serif;">
  <table width="100%%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:40px 15px;">
        <table cellpadding="0" cellspacing="0"
          style="max-width:420px;background:linear-gradient(180deg,#b94a57,#f0b4b8);border-radius:26px;padding:36px 28px;color:white;text-align:center;">
          <h1 style="margin:0;font-size:38px;font-weight:500;letter-spacing:1px;">Bloom</h1>
          <p style="margin:6px 0 28px;font-style:italic;">Someone around you might be feeling the same.</p>
          <h2 style="font-size:22px;font-weight:400;margin-bottom:12px;">Your letter has arrived 💌</h2>
          <p style="font-size:15px;line-height:1.6;margin-bottom:26px;">
            Someone nearby might already be wondering about you.
            Before the story unfolds, we just need to make sure it's really you.
          </p>
          <a href="%s"
            style="display:inline-block;background:#ffffff;color:#b94a57;padding:14px 30px;border-radius:30px;font-size:16px;font-weight:600;text-decoration:none;">
            Verify &amp; Enter ✨
          </a>
          <p style="margin-top:32px;font-size:12px;">
            This link will expire soon for your safety.<br/>
            If you didn't request this, you can ignore the message.
          </p>
        </table>
      </td>
    </tr>
  </table>
</div>`, verificationURL)
}
