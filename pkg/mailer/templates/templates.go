package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
const (
	Welcome       = "welcome"
	PasswordReset = "password_reset"
	MailTest      = "mail_test"
)

// ErrUnknownTemplate is returned by Render for a name with no embedded files.
var ErrUnknownTemplate = errors.New("unknown mail template")

// EmailData defines the fields available to every mail template.
type EmailData struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`

	AppName     string `json:"AppName"`
	CompanyName string `json:"CompanyName"`
	SupportURL  string `json:"SupportURL"`

	VerifyURL string `json:"VerifyURL"`
	ResetURL  string `json:"ResetURL"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	Time          string    `json:"Time"`
}

// ToMap converts EmailData to the JSON-safe map carried by EmailJob.Data,
// so a job renders the same inline or after a trip through the queue.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// orDefault backs {{ .Value | default "Fallback" }}.
func orDefault(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

// Both sets are parsed once from the embedded files; a broken template fails at start-up.
var (
	textSet = texttpl.Must(texttpl.New("mail").
		Funcs(texttpl.FuncMap{"default": orDefault}).
		Option("missingkey=zero").
		ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("mail").
		Funcs(htmpl.FuncMap{"default": orDefault}).
		Option("missingkey=zero").
		ParseFS(FS, "*.html.tmpl"))
)

func execText(file string, data any) (string, error) {
	if textSet.Lookup(file) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, file)
	}
	var buf bytes.Buffer
	if err := textSet.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

func execHTML(file string, data any) (string, error) {
	if htmlSet.Lookup(file) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, file)
	}
	var buf bytes.Buffer
	if err := htmlSet.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces the subject (trimmed), plain-text and HTML bodies of name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execHTML(name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
