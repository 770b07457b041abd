package core

import (
	"bytes"
	"context"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/http"
	"net/mail"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// Send renders and delivers one message, returning the transport outcome.
		Send(ctx context.Context, msg *EmailMessage) error
		// SendMessages sends messages concurrently, errors are logged
		SendMessages(messages ...*EmailMessage)
	}
)

// EmailTemplates caches the parsed email templates: {name: {ext: *Template}}
type EmailTemplates struct {
	cache   map[string]map[string]interface{}
	appName string
	baseURL string
}

// ParseEmailTemplates parses every `<name>.txt` and `<name>.gohtml` found in `dir` of `fsys`,
// each one extending `_base.txt` / `_base.gohtml`.
// missingkey=error is set when `strict` (DEV|TEST).
func ParseEmailTemplates(fsys fs.FS, dir, appName, frontendBaseURL string, strict bool) (*EmailTemplates, error) {
	tmpls := &EmailTemplates{
		cache:   make(map[string]map[string]interface{}),
		appName: appName,
		baseURL: frontendBaseURL,
	}

	fps, err := fs.Glob(fsys, path.Join(dir, "*"))
	if err != nil {
		return nil, errors.Wrap(err, "listing email templates")
	}

	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		entry, ok := tmpls.cache[name]
		if !ok {
			entry = make(map[string]interface{})
			tmpls.cache[name] = entry
		}
		if ext == ".txt" {
			tmpl, err := texttmpl.ParseFS(fsys, path.Join(dir, "_base.txt"), fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fp)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry[ext] = tmpl
		} else {
			tmpl, err := htmltmpl.ParseFS(fsys, path.Join(dir, "_base.gohtml"), fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fp)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry[ext] = tmpl
		}
	}
	return tmpls, nil
}

func (t *EmailTemplates) get(name, ext string) (interface{}, bool) {
	if t == nil {
		return nil, false
	}
	entry, ok := t.cache[name]
	if !ok {
		return nil, false
	}
	tmpl, ok := entry[ext]
	return tmpl, ok
}

// Has reports whether a template with this name was parsed.
func (t *EmailTemplates) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cache[name]
	return ok
}

func (m *EmailMessage) getContextData(t *EmailTemplates) ContextData {
	return ContextData{
		AppName:         t.appName,
		FrontendBaseURL: t.baseURL,
		Data:            m.TemplateData,
	}
}

func (m *EmailMessage) renderText(t *EmailTemplates) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	tmplEntry, ok := t.get(m.TemplateName, ".txt")
	if !ok {
		return nil
	}
	tmpl, ok := tmplEntry.(*texttmpl.Template)
	if !ok {
		return nil
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData(t)); err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) renderHTML(t *EmailTemplates) error {
	if m.TemplateName == "" {
		return nil
	}

	tmplEntry, ok := t.get(m.TemplateName, ".gohtml")
	if !ok {
		return nil
	}
	tmpl, ok := tmplEntry.(*htmltmpl.Template)
	if !ok {
		return nil
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData(t)); err != nil {
		return err
	}
	m.HTMLContent = buff.String()
	return nil
}

// Render fills TextContent and HTMLContent. `t` may be nil for non-templated messages.
func (m *EmailMessage) Render(t *EmailTemplates) error {
	if m.TemplateName != "" && t == nil {
		return errors.Errorf("no templates loaded to render %q", m.TemplateName)
	}
	if err := m.renderText(t); err != nil {
		return errors.Wrap(err, "rendering text")
	}
	if err := m.renderHTML(t); err != nil {
		return errors.Wrap(err, "rendering html")
	}
	return nil
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}

	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	// base64 encode content
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(path string, contentType ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(path), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
