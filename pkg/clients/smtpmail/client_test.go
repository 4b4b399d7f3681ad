package smtpmail

import (
	"errors"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"

	"github.com/callmint/backend/pkg/config"
	apperrors "github.com/callmint/backend/pkg/errors"
)

func testEmailConfig() *config.EmailConfig {
	return &config.EmailConfig{
		Host:         "smtp.example.com",
		Port:         587,
		Username:     "mailer@callmint.tech",
		Password:     "secret",
		FromEmail:    "noreply@callmint.tech",
		FromName:     "CallMint.tech",
		ContactEmail: "support@callmint.tech",
	}
}

func TestClassifyAuthRejection(t *testing.T) {
	for _, code := range []int{530, 534, 535} {
		err := classify(&textproto.Error{Code: code, Msg: "authentication failed"})
		if err.Code != apperrors.CodeAuth {
			t.Errorf("code %d classified as %s, want AUTH", code, err.Code)
		}
	}
}

func TestClassifyOtherProtocolRejection(t *testing.T) {
	err := classify(&textproto.Error{Code: 550, Msg: "mailbox unavailable"})
	if err.Code != apperrors.CodeGeneric {
		t.Errorf("classified as %s, want GENERIC", err.Code)
	}
}

func TestClassifyConnectionFailures(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if err := classify(opErr); err.Code != apperrors.CodeConnection {
		t.Errorf("dial error classified as %s, want CONNECTION", err.Code)
	}
	if err := classify(io.EOF); err.Code != apperrors.CodeConnection {
		t.Errorf("EOF classified as %s, want CONNECTION", err.Code)
	}
}

func TestClassifyUnknownError(t *testing.T) {
	err := classify(errors.New("something odd"))
	if err.Code != apperrors.CodeGeneric {
		t.Errorf("classified as %s, want GENERIC", err.Code)
	}
}

func TestClassifyPreservesCause(t *testing.T) {
	cause := &textproto.Error{Code: 535, Msg: "bad credentials"}
	err := classify(cause)

	var protoErr *textproto.Error
	if !errors.As(err, &protoErr) || protoErr.Code != 535 {
		t.Error("classified error should unwrap to the protocol cause")
	}
}

func TestMissingConfigFailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.EmailConfig)
	}{
		{"no host", func(c *config.EmailConfig) { c.Host = "" }},
		{"no username", func(c *config.EmailConfig) { c.Username = "" }},
		{"no password", func(c *config.EmailConfig) { c.Password = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testEmailConfig()
			tc.mutate(cfg)
			client := NewClient(cfg)

			if err := client.Verify(); !apperrors.IsUnavailable(err) {
				t.Errorf("Verify = %v, want config-class failure", err)
			}
			if _, err := client.Send(Message{To: "jane@acme.com", Subject: "x", Text: "y"}); !apperrors.IsUnavailable(err) {
				t.Errorf("Send = %v, want config-class failure", err)
			}
		})
	}
}

func TestBuildMIMEHeaders(t *testing.T) {
	client := &clientImpl{cfg: testEmailConfig()}
	msg := Message{
		To:      "jane@acme.com",
		Subject: "Your consultation is booked",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		ReplyTo: "jane@acme.com",
	}
	raw := string(client.buildMIME(msg, msg.To, "<abc@callmint.tech>"))

	for _, header := range []string{
		"From: CallMint.tech <noreply@callmint.tech>\r\n",
		"To: jane@acme.com\r\n",
		"Subject: Your consultation is booked\r\n",
		"Reply-To: jane@acme.com\r\n",
		"Message-ID: <abc@callmint.tech>\r\n",
		"MIME-Version: 1.0\r\n",
	} {
		if !strings.Contains(raw, header) {
			t.Errorf("missing header %q", header)
		}
	}
	if !strings.Contains(raw, `Content-Type: multipart/alternative; boundary="`) {
		t.Error("missing multipart content type")
	}
	if !strings.Contains(raw, "Content-Type: text/plain; charset=UTF-8") {
		t.Error("missing plain-text part")
	}
	if !strings.Contains(raw, "Content-Type: text/html; charset=UTF-8") {
		t.Error("missing HTML part")
	}
	if !strings.Contains(raw, "plain body") || !strings.Contains(raw, "<p>html body</p>") {
		t.Error("missing message bodies")
	}
}

func TestBuildMIMEBoundaryCloses(t *testing.T) {
	client := &clientImpl{cfg: testEmailConfig()}
	raw := string(client.buildMIME(Message{Text: "body"}, "jane@acme.com", "<id@callmint.tech>"))

	start := strings.Index(raw, `boundary="`)
	if start < 0 {
		t.Fatal("no boundary declared")
	}
	rest := raw[start+len(`boundary="`):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		t.Fatal("unterminated boundary declaration")
	}
	boundary := rest[:end]

	if !strings.Contains(raw, "--"+boundary+"--\r\n") {
		t.Error("multipart body is not terminated")
	}
}

func TestBuildMIMEOmitsEmptyParts(t *testing.T) {
	client := &clientImpl{cfg: testEmailConfig()}
	raw := string(client.buildMIME(Message{Text: "only text"}, "jane@acme.com", "<id@callmint.tech>"))

	if strings.Contains(raw, "text/html") {
		t.Error("HTML part should be omitted when empty")
	}
	if strings.Contains(raw, "Reply-To:") {
		t.Error("Reply-To header should be omitted when empty")
	}
}

func TestBuildMIMEPlainFromWithoutName(t *testing.T) {
	cfg := testEmailConfig()
	cfg.FromName = ""
	client := &clientImpl{cfg: cfg}
	raw := string(client.buildMIME(Message{Text: "body"}, "jane@acme.com", "<id@callmint.tech>"))

	if !strings.Contains(raw, "From: noreply@callmint.tech\r\n") {
		t.Error("bare sender address expected when no display name is configured")
	}
}

func TestNewMessageIDUsesSenderDomain(t *testing.T) {
	client := &clientImpl{cfg: testEmailConfig()}
	id := client.newMessageID()

	if !strings.HasPrefix(id, "<") || !strings.HasSuffix(id, "@callmint.tech>") {
		t.Errorf("message id = %q, want <uuid@callmint.tech>", id)
	}

	if id2 := client.newMessageID(); id2 == id {
		t.Error("message ids should be unique per call")
	}
}

func TestNewMessageIDFallbackDomain(t *testing.T) {
	cfg := testEmailConfig()
	cfg.FromEmail = "not-an-address"
	client := &clientImpl{cfg: cfg}

	if id := client.newMessageID(); !strings.HasSuffix(id, "@callmint.tech>") {
		t.Errorf("message id = %q, want fallback domain", id)
	}
}
