package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

const reportTemplate = `
<h2>Relatório de sincronização CRM — job {{.JobID}}</h2>
<p>{{.Succeeded}} de {{.Total}} contatos sincronizados com sucesso. {{.Failed}} com erro.</p>
{{if .Failures}}
<h3>Itens com erro</h3>
<ul>
{{range .Failures}}
  <li><b>{{.CustomerID}}</b>
    <ul>{{range .Errors}}<li>{{.}}</li>{{end}}</ul>
  </li>
{{end}}
</ul>
{{end}}
`

// SendSyncReport envia o resumo de um lote processado pelo worker.
func (s *EmailSender) SendSyncReport(to, jobID string, summary *entity.BatchSummary) error {
	data := SyncReportData{
		JobID:     jobID,
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	}
	for _, r := range summary.Results {
		if r.Failed() {
			data.Failures = append(data.Failures, SyncReportFailure{
				CustomerID: r.CustomerID,
				Errors:     r.Errors,
			})
		}
	}

	t, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("erro ao montar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@liguemedicina.com")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Sync CRM concluído: %d/%d ok (job %s)", data.Succeeded, data.Total, jobID))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
