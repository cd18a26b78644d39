package notification

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

type pushTemplateSpec struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type emailTemplateSpec struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type templateFile struct {
	Push  map[string]pushTemplateSpec  `yaml:"push"`
	Email map[string]emailTemplateSpec `yaml:"email"`
}

type pushTemplate struct {
	title *template.Template
	body  *template.Template
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Templates holds the parsed notification message templates. Message texts
// live in a YAML file so copy changes do not require a rebuild.
type Templates struct {
	push  map[string]pushTemplate
	email map[string]emailTemplate
}

// LoadTemplates reads and parses the template file at path.
func LoadTemplates(path string) (*Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notification templates: %w", err)
	}
	return ParseTemplates(raw)
}

// ParseTemplates parses YAML template definitions.
func ParseTemplates(raw []byte) (*Templates, error) {
	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}

	t := &Templates{
		push:  make(map[string]pushTemplate, len(file.Push)),
		email: make(map[string]emailTemplate, len(file.Email)),
	}

	for name, spec := range file.Push {
		title, err := parseOne("push."+name+".title", spec.Title)
		if err != nil {
			return nil, err
		}
		body, err := parseOne("push."+name+".body", spec.Body)
		if err != nil {
			return nil, err
		}
		t.push[name] = pushTemplate{title: title, body: body}
	}

	for name, spec := range file.Email {
		subject, err := parseOne("email."+name+".subject", spec.Subject)
		if err != nil {
			return nil, err
		}
		body, err := parseOne("email."+name+".body", spec.Body)
		if err != nil {
			return nil, err
		}
		t.email[name] = emailTemplate{subject: subject, body: body}
	}

	return t, nil
}

// RenderPush renders the named push template with data.
func (t *Templates) RenderPush(name string, data any) (title, body string, err error) {
	tmpl, ok := t.push[name]
	if !ok {
		return "", "", fmt.Errorf("unknown push template %q", name)
	}
	if title, err = execute(tmpl.title, data); err != nil {
		return "", "", err
	}
	if body, err = execute(tmpl.body, data); err != nil {
		return "", "", err
	}
	return title, body, nil
}

// RenderEmail renders the named email template with data.
func (t *Templates) RenderEmail(name string, data any) (subject, body string, err error) {
	tmpl, ok := t.email[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(tmpl.subject, data); err != nil {
		return "", "", err
	}
	if body, err = execute(tmpl.body, data); err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func parseOne(name, text string) (*template.Template, error) {
	if text == "" {
		return nil, fmt.Errorf("notification template %s is empty", name)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse notification template %s: %w", name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
