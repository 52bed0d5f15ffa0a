package mailer

import (
	"bytes"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// buildMsg assembles a multipart/alternative message.
func buildMsg(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, oops.Code("MAIL_BAD_FROM").With("from", msg.From).Wrap(err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, oops.Code("MAIL_BAD_TO").Wrap(err)
	}
	m.Subject(msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

// rawMIME renders msg as RFC 5322 bytes.
func rawMIME(msg Message) ([]byte, error) {
	m, err := buildMsg(msg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, oops.Code("MAIL_ENCODE_FAILED").Wrap(err)
	}
	return buf.Bytes(), nil
}
