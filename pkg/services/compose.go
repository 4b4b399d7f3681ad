package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/callmint/backend/pkg/clients/smtpmail"
	"github.com/callmint/backend/pkg/models"
)

// NotificationPair holds the two messages produced for one submission: the
// operator-facing alert and the submitter-facing confirmation. Both carry
// the same facts in a plain-text and an HTML rendering.
type NotificationPair struct {
	Admin smtpmail.Message
	User  smtpmail.Message
}

// Lead quality heuristic weights for contact submissions
const (
	leadPointsCompany     = 20
	leadPointsPhone       = 15
	leadPointsPlan        = 25
	leadPointsLongMessage = 10

	detailedMessageLength = 100
)

// LeadScore rates a contact submission so the operator can triage inbound
// leads without opening every message.
func LeadScore(f *models.ContactForm) int {
	score := 0
	if f.Company != "" {
		score += leadPointsCompany
	}
	if f.Phone != "" {
		score += leadPointsPhone
	}
	if f.Plan != "" {
		score += leadPointsPlan
	}
	if len(f.Message) > detailedMessageLength {
		score += leadPointsLongMessage
	}
	return score
}

// LeadTier buckets a lead score for subject-line urgency framing
func LeadTier(score int) string {
	switch {
	case score >= 50:
		return "HOT"
	case score >= 25:
		return "WARM"
	default:
		return "NEW"
	}
}

const (
	tollFreeNumber = "+1 833 722 1177 (Toll-free)"
	laLocalNumber  = "+1 323 649 8803 (LA Local)"
)

// ComposeContact builds the operator alert and the auto-reply for a contact
// form submission. The operator message's reply-to is the submitter so a
// human can answer directly from their mail client.
func ComposeContact(f *models.ContactForm, now time.Time) NotificationPair {
	company := f.Company
	if company == "" {
		company = "Unknown Company"
	}
	score := LeadScore(f)
	tier := LeadTier(score)
	received := now.Format("January 2, 2006 at 3:04 PM")

	scoreLines := []string{
		scoreLine("Company provided", f.Company != "", leadPointsCompany),
		scoreLine("Phone provided", f.Phone != "", leadPointsPhone),
		scoreLine("Plan selected", f.Plan != "", leadPointsPlan),
		scoreLine("Detailed message", len(f.Message) > detailedMessageLength, leadPointsLongMessage),
	}

	adminText := fmt.Sprintf(`New Contact Form Submission - CallMint.tech

Name: %s
Email: %s
Phone: %s
Company: %s
Interested Plan: %s
Received: %s

Message:
%s

Lead Quality Score: %d (%s)
%s

Respond within 2 hours to keep the lead warm.
`,
		f.Name, f.Email, orDefault(f.Phone, "Not provided"), company,
		orDefault(f.Plan, "Not specified"), received, f.Message,
		score, tier, strings.Join(scoreLines, "\n"))

	adminHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0ea5e9;">New Contact Form Submission - CallMint.tech</h2>
    <div style="background: #f9f9f9; padding: 20px; border-radius: 8px;">
      <p><strong>Name:</strong> %s</p>
      <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
      <p><strong>Phone:</strong> %s</p>
      <p><strong>Company:</strong> %s</p>
      <p><strong>Interested Plan:</strong> %s</p>
      <p><strong>Received:</strong> %s</p>
    </div>
    <div style="background: #fff; padding: 15px; border-left: 4px solid #0ea5e9; margin: 15px 0;">
      <h3 style="margin-top: 0;">Message</h3>
      <p style="white-space: pre-wrap;">%s</p>
    </div>
    <div style="background: #e8f5e8; padding: 15px; border-radius: 6px;">
      <h4 style="margin-top: 0;">Lead Quality Score: %d (%s)</h4>
      <pre style="font-family: inherit; margin: 0; white-space: pre-wrap;">%s</pre>
    </div>
    <p style="color: #64748b;">Respond within 2 hours to keep the lead warm.</p>
  </div>
</body>
</html>`,
		esc(f.Name), esc(f.Email), esc(f.Email), esc(orDefault(f.Phone, "Not provided")),
		esc(company), esc(orDefault(f.Plan, "Not specified")), received, esc(f.Message),
		score, tier, esc(strings.Join(scoreLines, "\n")))

	userText := fmt.Sprintf(`Hi %s!

Thank you for reaching out to CallMint.tech! We've received your message and
are excited to help transform your business with AI-powered call automation.

What happens next?
- Our AI specialist will review your inquiry within 2 hours
- We'll schedule a personalized demo tailored to your needs
- You'll see how our AI agents can revolutionize your business communications

While you wait, feel free to view our pricing plans:
https://callmint.tech/pricing

Questions? Simply reply to this email or call us:
%s
%s

CallMint.tech - Transform Your Business with AI Agents
`, f.Name, tollFreeNumber, laLocalNumber)

	userHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #0ea5e9, #8b5cf6); color: white; padding: 30px; text-align: center; border-radius: 8px;">
      <h1 style="margin: 0;">CallMint.tech</h1>
      <p style="margin: 10px 0 0;">AI Agents &amp; Custom AI Systems</p>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 8px; margin-top: 20px;">
      <h2>Hi %s!</h2>
      <p>Thank you for reaching out to CallMint.tech! We've received your message and are excited to help transform your business with AI-powered call automation.</p>
      <h3>What happens next?</h3>
      <ul>
        <li>Our AI specialist will review your inquiry within 2 hours</li>
        <li>We'll schedule a personalized demo tailored to your needs</li>
        <li>You'll see how our AI agents can revolutionize your business communications</li>
      </ul>
      <p>While you wait, feel free to <a href="https://callmint.tech/pricing">view our pricing plans</a>.</p>
      <p>Questions? Simply reply to this email or call us:<br>%s<br>%s</p>
    </div>
    <div style="background: #333; color: white; padding: 20px; text-align: center; margin-top: 20px; border-radius: 8px;">
      <p style="margin: 0;">CallMint.tech - Transform Your Business with AI Agents</p>
    </div>
  </div>
</body>
</html>`, esc(f.Name), tollFreeNumber, laLocalNumber)

	return NotificationPair{
		Admin: smtpmail.Message{
			Subject: fmt.Sprintf("[%s LEAD] %s from %s - CallMint.tech", tier, f.Name, company),
			Text:    adminText,
			HTML:    adminHTML,
			ReplyTo: f.Email,
		},
		User: smtpmail.Message{
			To:      f.Email,
			Subject: "Thank you for contacting CallMint.tech! Your AI transformation starts here",
			Text:    userText,
			HTML:    userHTML,
		},
	}
}

// ComposeConsultation builds the operator alert and the booking confirmation
// for a consultation request. Date and time arrive pre-validated.
func ComposeConsultation(f *models.ConsultationForm, now time.Time) NotificationPair {
	formattedDate := f.PreferredDate
	if date, err := time.Parse("2006-01-02", f.PreferredDate); err == nil {
		formattedDate = date.Format("Monday, January 2, 2006")
	}
	formattedTime := f.PreferredTime
	if clock, err := time.Parse("15:04", f.PreferredTime); err == nil {
		formattedTime = clock.Format("3:04 PM")
	}
	received := now.Format("January 2, 2006 at 3:04 PM")

	adminText := fmt.Sprintf(`New Free Consultation Request

A potential client has requested a consultation. Please contact this lead
within 24 hours to confirm the appointment.

Full Name: %s
Email: %s
Phone: %s
Preferred Date: %s
Preferred Time: %s
Received: %s

Next steps:
- Contact the client within 24 hours
- Confirm the consultation date and time
- Send a calendar invitation
- Prepare consultation materials
`, f.FullName, f.Email, f.Phone, formattedDate, formattedTime, received)

	adminHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 20px; border-radius: 8px; text-align: center;">
      <h1 style="margin: 0; font-size: 24px;">New Free Consultation Request</h1>
      <p style="margin: 10px 0 0;">A potential client has requested a consultation</p>
    </div>
    <div style="background: #fef3c7; border: 1px solid #f59e0b; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <strong>Action required:</strong> contact this lead within 24 hours to confirm the appointment.
    </div>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; border-left: 4px solid #10b981;">
      <p><strong>Full Name:</strong> %s</p>
      <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
      <p><strong>Phone:</strong> <a href="tel:%s">%s</a></p>
      <p><strong>Preferred Date:</strong> %s</p>
      <p><strong>Preferred Time:</strong> %s</p>
      <p><strong>Received:</strong> %s</p>
    </div>
    <div style="background: #ecfdf5; padding: 20px; border-radius: 8px; border: 1px solid #10b981; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #065f46;">Next Steps</h3>
      <ul style="margin: 0;">
        <li>Contact the client within 24 hours</li>
        <li>Confirm the consultation date and time</li>
        <li>Send a calendar invitation</li>
        <li>Prepare consultation materials</li>
      </ul>
    </div>
  </div>
</body>
</html>`,
		esc(f.FullName), esc(f.Email), esc(f.Email), esc(f.Phone), esc(f.Phone),
		formattedDate, formattedTime, received)

	userText := fmt.Sprintf(`Dear %s,

Thank you for requesting a free consultation with our team! We're excited to
learn about your business needs and show you how our AI solutions can help
transform your operations.

Your Consultation Request:
Date: %s
Time: %s
Contact Email: %s

What happens next?
- Confirmation call: our team will contact you within 24 hours
- Calendar invitation: you'll receive a calendar invite with meeting details
- Consultation: a 30-45 minute session covering your specific needs

Need to make changes? Reply to this email or call us directly.

Best regards,
The CallMint.tech Team
`, f.FullName, formattedDate, formattedTime, f.Email)

	userHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 20px; border-radius: 8px; text-align: center;">
      <h1 style="margin: 0; font-size: 24px;">Consultation Request Received!</h1>
      <p style="margin: 10px 0 0;">Thank you for your interest in our AI solutions</p>
    </div>
    <p>Dear %s,</p>
    <p>Thank you for requesting a free consultation with our team! We're excited to learn about your business needs and show you how our AI solutions can help transform your operations.</p>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; border-left: 4px solid #10b981;">
      <h3 style="margin-top: 0; color: #10b981;">Your Consultation Request</h3>
      <p><strong>Date:</strong> %s</p>
      <p><strong>Time:</strong> %s</p>
      <p><strong>Contact Email:</strong> %s</p>
    </div>
    <div style="background: #ecfdf5; padding: 20px; border-radius: 8px; border: 1px solid #10b981; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #065f46;">What Happens Next?</h3>
      <ul style="margin: 0;">
        <li><strong>Confirmation call:</strong> our team will contact you within 24 hours</li>
        <li><strong>Calendar invitation:</strong> you'll receive a calendar invite with meeting details</li>
        <li><strong>Consultation:</strong> a 30-45 minute session covering your specific needs</li>
      </ul>
    </div>
    <p>Need to make changes? Reply to this email or call us directly.</p>
    <p>Best regards,<br><strong>The CallMint.tech Team</strong></p>
  </div>
</body>
</html>`, esc(f.FullName), formattedDate, formattedTime, esc(f.Email))

	return NotificationPair{
		Admin: smtpmail.Message{
			Subject: fmt.Sprintf("New Consultation Request: %s - %s at %s", f.FullName, formattedDate, formattedTime),
			Text:    adminText,
			HTML:    adminHTML,
			ReplyTo: f.Email,
		},
		User: smtpmail.Message{
			To:      f.Email,
			Subject: fmt.Sprintf("Consultation Request Confirmed - %s at %s", formattedDate, formattedTime),
			Text:    userText,
			HTML:    userHTML,
		},
	}
}

// ComposeAgentRequest builds the operator alert and the confirmation for a
// dashboard agent request, including attached knowledge-file metadata.
func ComposeAgentRequest(f *models.AgentRequestForm, now time.Time) NotificationPair {
	received := now.Format("January 2, 2006 at 3:04 PM")
	plan := orDefault(f.SubscriptionPlan, "Not specified")

	filesText := "None"
	if len(f.KnowledgeFiles) > 0 {
		var lines []string
		for _, kf := range f.KnowledgeFiles {
			lines = append(lines, fmt.Sprintf("- %s (%d bytes)", kf.Name, kf.Size))
		}
		filesText = strings.Join(lines, "\n")
	}

	additional := ""
	if f.AdditionalInfo != "" {
		additional = fmt.Sprintf("\nAdditional Information:\n%s\n", f.AdditionalInfo)
	}

	adminText := fmt.Sprintf(`New AI Agent Submission - CallMint.tech

Agent Configuration:
Agent Type: %s
Voice Preference: %s
Knowledge Base: %s
Knowledge Files:
%s
CRM/Tech Stack: %s

Customer Information:
Full Name: %s
Email: %s
WhatsApp Number: %s
Subscription Plan: %s
%s
Submission Details:
Submission Date: %s
User Name: %s
`,
		f.AgentType, f.VoicePreference, orDefault(f.KnowledgeBase, "Not specified"),
		filesText, orDefault(f.CRMTechStack, "Not specified"),
		f.FullName, f.Email, f.WhatsAppNumber, plan, additional,
		received, orDefault(f.UserName, "Not specified"))

	additionalHTML := ""
	if f.AdditionalInfo != "" {
		additionalHTML = fmt.Sprintf(`
    <div style="background: white; padding: 15px; border-left: 4px solid #16a34a; margin: 15px 0; border-radius: 4px;">
      <h3 style="margin-top: 0;">Additional Information</h3>
      <p style="white-space: pre-wrap;">%s</p>
    </div>`, esc(f.AdditionalInfo))
	}

	adminHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #16a34a, #15803d); color: white; padding: 20px; border-radius: 8px;">
      <h2 style="margin: 0;">New AI Agent Submission - CallMint.tech</h2>
    </div>
    <div style="background: #f9f9f9; padding: 20px; border-radius: 8px; margin-top: 20px;">
      <div style="background: white; padding: 15px; border-left: 4px solid #16a34a; margin: 15px 0; border-radius: 4px;">
        <h3 style="margin-top: 0;">Agent Configuration</h3>
        <p><strong>Agent Type:</strong> %s</p>
        <p><strong>Voice Preference:</strong> %s</p>
        <p><strong>Knowledge Base:</strong> %s</p>
        <p><strong>Knowledge Files:</strong></p>
        <pre style="font-family: inherit; white-space: pre-wrap; margin: 0;">%s</pre>
        <p><strong>CRM/Tech Stack:</strong> %s</p>
      </div>
      <div style="background: white; padding: 15px; border-left: 4px solid #16a34a; margin: 15px 0; border-radius: 4px;">
        <h3 style="margin-top: 0;">Customer Information</h3>
        <p><strong>Full Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>WhatsApp Number:</strong> %s</p>
        <p><strong>Subscription Plan:</strong> %s</p>
      </div>%s
      <div style="background: white; padding: 15px; border-left: 4px solid #16a34a; margin: 15px 0; border-radius: 4px;">
        <h3 style="margin-top: 0;">Submission Details</h3>
        <p><strong>Submission Date:</strong> %s</p>
        <p><strong>User Name:</strong> %s</p>
      </div>
    </div>
  </div>
</body>
</html>`,
		esc(f.AgentType), esc(f.VoicePreference), esc(orDefault(f.KnowledgeBase, "Not specified")),
		esc(filesText), esc(orDefault(f.CRMTechStack, "Not specified")),
		esc(f.FullName), esc(f.Email), esc(f.WhatsAppNumber), esc(plan), additionalHTML,
		received, esc(orDefault(f.UserName, "Not specified")))

	planForUser := orDefault(f.SubscriptionPlan, "To be determined")

	userText := fmt.Sprintf(`Hi %s!

Thank you for submitting your AI agent request! We've received your %s agent
configuration and are excited to help transform your business with AI-powered
automation.

What happens next?
- Our AI specialist will review your requirements within a few hours
- We'll contact you via WhatsApp (%s) or email to discuss details
- We'll begin building your custom AI agent based on your specifications

Your Request Summary:
- Agent Type: %s
- Voice Preference: %s
- Subscription Plan: %s

Questions? Simply reply to this email or contact us:
%s
%s

CallMint.tech - Transform Your Business with AI Agents
`,
		f.FullName, f.AgentType, f.WhatsAppNumber,
		f.AgentType, f.VoicePreference, planForUser,
		tollFreeNumber, laLocalNumber)

	userHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #16a34a, #15803d); color: white; padding: 30px; text-align: center; border-radius: 8px;">
      <h1 style="margin: 0;">CallMint.tech</h1>
      <p style="margin: 10px 0 0;">AI Agent Request Confirmation</p>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 8px; margin-top: 20px;">
      <h2>Hi %s!</h2>
      <p>Thank you for submitting your AI agent request! We've received your %s agent configuration and are excited to help transform your business with AI-powered automation.</p>
      <h3>What happens next?</h3>
      <ul>
        <li>Our AI specialist will review your requirements within a few hours</li>
        <li>We'll contact you via WhatsApp (%s) or email to discuss details</li>
        <li>We'll begin building your custom AI agent based on your specifications</li>
      </ul>
      <p><strong>Your Request Summary:</strong></p>
      <ul>
        <li>Agent Type: %s</li>
        <li>Voice Preference: %s</li>
        <li>Subscription Plan: %s</li>
      </ul>
      <p>Questions? Simply reply to this email or contact us:<br>%s<br>%s</p>
    </div>
    <div style="background: #333; color: white; padding: 20px; text-align: center; margin-top: 20px; border-radius: 8px;">
      <p style="margin: 0;">CallMint.tech - Transform Your Business with AI Agents</p>
    </div>
  </div>
</body>
</html>`,
		esc(f.FullName), esc(f.AgentType), esc(f.WhatsAppNumber),
		esc(f.AgentType), esc(f.VoicePreference), esc(planForUser),
		tollFreeNumber, laLocalNumber)

	return NotificationPair{
		Admin: smtpmail.Message{
			Subject: fmt.Sprintf("New AI Agent Request: %s - %s", f.AgentType, f.FullName),
			Text:    adminText,
			HTML:    adminHTML,
			ReplyTo: f.Email,
		},
		User: smtpmail.Message{
			To:      f.Email,
			Subject: "AI Agent Request Received - CallMint.tech",
			Text:    userText,
			HTML:    userHTML,
		},
	}
}

func scoreLine(label string, present bool, points int) string {
	if present {
		return fmt.Sprintf("- %s: yes (+%d points)", label, points)
	}
	return fmt.Sprintf("- %s: no", label)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func esc(s string) string {
	return html.EscapeString(s)
}
