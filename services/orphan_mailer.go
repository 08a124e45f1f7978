package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/amelikova/stage-portfolio/portfolio"
)

var orphanTemplate = template.Must(template.New("orphan").Parse(`<p>Фото было загружено, но не прикреплено к проекту.</p>
<ul>
<li>Проект: {{.ProjectID}}</li>
<li>Тип: {{.Kind}}{{if eq .Kind "gallery"}}, слот {{.Slot}}{{end}}</li>
<li>Файл: <a href="{{.URL}}">{{.URL}}</a></li>
<li>Ошибка: {{.Error}}</li>
</ul>`))

// OrphanMailer tells the site owner about uploads that were never attached.
type OrphanMailer struct {
	mailer *Mailer
	owner  string
}

func NewOrphanMailer(mailer *Mailer, ownerEmail string) (*OrphanMailer, error) {
	if ownerEmail == "" {
		return nil, fmt.Errorf("OWNER_EMAIL is required")
	}
	return &OrphanMailer{mailer: mailer, owner: ownerEmail}, nil
}

func (m *OrphanMailer) ReportOrphan(ctx context.Context, orphan portfolio.Orphan) error {
	cause := ""
	if orphan.Err != nil {
		cause = orphan.Err.Error()
	}

	var body bytes.Buffer
	err := orphanTemplate.Execute(&body, struct {
		ProjectID string
		Kind      string
		Slot      int
		URL       string
		Error     string
	}{orphan.ProjectID, string(orphan.Kind), orphan.Position + 1, orphan.URL, cause})
	if err != nil {
		return fmt.Errorf("render orphan report: %w", err)
	}

	_, err = m.mailer.SendEmail(ctx, "Неприкреплённое фото в портфолио", body.String(), []string{m.owner})
	return err
}
