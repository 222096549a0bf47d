package documents

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/internal/settings"
)

// docStyles is inlined into every generated document so the HTML prints the
// same anywhere it is opened.
const docStyles = `
  body { font-family: 'Helvetica', 'Arial', sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 20px; }
  .doc-container { max-width: 800px; margin: 0 auto; background: white; padding: 40px; }
  .header { text-align: center; margin-bottom: 40px; border-bottom: 2px solid #333; padding-bottom: 20px; }
  .header h1 { font-size: 24px; text-transform: uppercase; margin: 0; font-weight: bold; letter-spacing: 1px; }
  .header p { margin: 5px 0 0; font-size: 14px; color: #666; }
  .section-title { font-size: 16px; font-weight: bold; text-transform: uppercase; margin-top: 30px; margin-bottom: 15px; border-bottom: 1px solid #ddd; padding-bottom: 5px; color: #222; }
  .info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; margin-bottom: 30px; background: #f9f9f9; padding: 20px; border-radius: 8px; border: 1px solid #eee; }
  .info-item { margin-bottom: 5px; }
  .label { font-weight: bold; color: #444; margin-right: 5px; }
  .content-text { text-align: justify; margin-bottom: 15px; }
  .field-block { margin-bottom: 20px; }
  .field-label { font-weight: bold; display: block; margin-bottom: 5px; color: #111; }
  .field-value { display: block; text-align: justify; background: #fff; }
  .signature-box { margin-top: 80px; text-align: center; }
  .signature-line { width: 300px; border-top: 1px solid #333; margin: 0 auto 10px; }
  .footer { margin-top: 50px; font-size: 10px; text-align: center; color: #999; border-top: 1px solid #eee; padding-top: 10px; }
`

const declarationTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<style>{{.Styles}}</style>
</head>
<body>
<div class="doc-container">
  <div class="header"><h1>Declaração</h1></div>
  <div class="content-text" style="margin-top: 60px; line-height: 2; font-size: 16px;">
    <p>
      Declaro para os devidos fins que o(a) Sr(a). <strong>{{.Patient.FullName}}</strong>,
      inscrito(a) no CPF sob nº <strong>{{if .Patient.CPF}}{{.Patient.CPF}}{{else}}___________{{end}}</strong>,
      esteve em atendimento psicológico sob meus cuidados nesta data.
    </p>
  </div>
  <div class="signature-box" style="margin-top: 100px;">
    <div class="signature-line"></div>
    <p><strong>{{.Settings.Name}}</strong></p>
    <p>Psicólogo(a) - CRP {{.Settings.CRP}}</p>
    <p style="margin-top: 20px; font-size: 14px;">{{.IssuedAt}}</p>
  </div>
</div>
</body>
</html>
`

const reportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<style>{{.Styles}}</style>
</head>
<body>
<div class="doc-container">
  <div class="header"><h1>Laudo Psicológico</h1></div>
  <div class="info-grid">
    <div class="info-item"><span class="label">PACIENTE:</span> {{.Patient.FullName}}</div>
    <div class="info-item"><span class="label">DATA NASCIMENTO:</span> {{if .BirthDate}}{{.BirthDate}}{{else}}-{{end}}</div>
    <div class="info-item"><span class="label">CPF:</span> {{if .Patient.CPF}}{{.Patient.CPF}}{{else}}-{{end}}</div>
    <div class="info-item"><span class="label">DATA EMISSÃO:</span> {{.IssuedAt}}</div>
  </div>
  <div class="content-body">
    <div class="section-title">1. Histórico Clínico Resumido</div>
    <div class="content-text">{{if .Patient.ClinicalHistory}}{{nl2br .Patient.ClinicalHistory}}{{else}}Não informado.{{end}}</div>
    <div class="section-title">2. Diagnóstico</div>
    <div class="content-text">{{if .Patient.Diagnosis}}{{.Patient.Diagnosis}}{{else}}Em avaliação.{{end}}</div>
    <div class="section-title">3. Observações</div>
    <div class="content-text">
      Paciente encontra-se em acompanhamento psicológico regular sob meus cuidados profissionais.
      {{if .Patient.Notes}}<br><br>{{nl2br .Patient.Notes}}{{end}}
    </div>
  </div>
  <div class="signature-box">
    <div class="signature-line"></div>
    <p><strong>{{.Settings.Name}}</strong></p>
    <p>Psicólogo(a) - CRP {{.Settings.CRP}}</p>
  </div>
</div>
</body>
</html>
`

const sessionRecordTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<style>{{.Styles}}</style>
</head>
<body>
<div class="doc-container">
  <div class="header">
    <h1>Prontuário de Sessão</h1>
    <p>Registro Clínico Individual</p>
  </div>
  <div class="info-grid">
    <div class="info-item"><span class="label">PACIENTE:</span> {{.Patient.FullName}}</div>
    <div class="info-item"><span class="label">DATA:</span> {{.SessionDate}}</div>
    <div class="info-item"><span class="label">HORÁRIO:</span> {{.Session.StartTime}} às {{.Session.EndTime}}</div>
    <div class="info-item"><span class="label">MODALIDADE:</span> {{.Session.Modality}}</div>
  </div>
  <div class="content-body">
    <div class="section-title">1. Registro Técnico</div>
    <div class="content-text">{{if .Notes.TechnicalRegister}}{{nl2br .Notes.TechnicalRegister}}{{else}}Não registrado.{{end}}</div>
    <div class="section-title">2. Detalhamento da Sessão</div>
    {{if .Notes.Summary}}<div class="field-block"><span class="field-label">Resumo do Conteúdo:</span><span class="field-value">{{.Notes.Summary}}</span></div>{{end}}
    {{if .Notes.KeyPoints}}<div class="field-block"><span class="field-label">Pontos-Chave:</span><span class="field-value">{{.Notes.KeyPoints}}</span></div>{{end}}
    {{if .Notes.Feelings}}<div class="field-block"><span class="field-label">Sentimentos Expressos:</span><span class="field-value">{{.Notes.Feelings}}</span></div>{{end}}
    {{if .Notes.Behaviors}}<div class="field-block"><span class="field-label">Comportamentos Observados:</span><span class="field-value">{{.Notes.Behaviors}}</span></div>{{end}}
    {{if .Notes.Interventions}}<div class="field-block"><span class="field-label">Intervenções Terapêuticas:</span><span class="field-value">{{.Notes.Interventions}}</span></div>{{end}}
    {{if .Notes.Evolution}}<div class="field-block"><span class="field-label">Evolução Percebida:</span><span class="field-value">{{.Notes.Evolution}}</span></div>{{end}}
    {{if .Notes.Insights}}<div class="field-block"><span class="field-label">Insights:</span><span class="field-value">{{.Notes.Insights}}</span></div>{{end}}
  </div>
  <div class="signature-box">
    <div class="signature-line"></div>
    <p><strong>{{.Settings.Name}}</strong></p>
    <p>Psicólogo(a) - CRP {{.Settings.CRP}}</p>
  </div>
  <div class="footer">
    Documento gerado automaticamente pelo sistema PsiPro em {{.GeneratedAt}}
  </div>
</div>
</body>
</html>
`

// Renderer turns patient and session data into printable pt-BR HTML
// documents.
type Renderer struct {
	declaration   *template.Template
	report        *template.Template
	sessionRecord *template.Template
}

// NewRenderer parses the built-in templates. Template errors are programmer
// errors, so it panics like template.Must.
func NewRenderer() *Renderer {
	funcs := template.FuncMap{"nl2br": nl2br}
	return &Renderer{
		declaration:   template.Must(template.New("declaration").Funcs(funcs).Parse(declarationTemplate)),
		report:        template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
		sessionRecord: template.Must(template.New("session_record").Funcs(funcs).Parse(sessionRecordTemplate)),
	}
}

// nl2br escapes free text and turns newlines into <br> tags.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// formatDateBR renders a YYYY-MM-DD date as DD/MM/YYYY. Unparseable input is
// returned as-is.
func formatDateBR(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// Declaration renders an attendance declaration issued on the given date.
func (r *Renderer) Declaration(p patients.Patient, s settings.Settings, issuedAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := r.declaration.Execute(&buf, struct {
		Styles   template.CSS
		Patient  patients.Patient
		Settings settings.Settings
		IssuedAt string
	}{template.CSS(docStyles), p, s, issuedAt.Format("02/01/2006")})
	if err != nil {
		return "", fmt.Errorf("documents: render declaration: %w", err)
	}
	return buf.String(), nil
}

// Report renders a simple psychological report from the patient's clinical
// history and diagnosis.
func (r *Renderer) Report(p patients.Patient, s settings.Settings, issuedAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := r.report.Execute(&buf, struct {
		Styles    template.CSS
		Patient   patients.Patient
		Settings  settings.Settings
		BirthDate string
		IssuedAt  string
	}{template.CSS(docStyles), p, s, formatDateBR(p.BirthDate), issuedAt.Format("02/01/2006")})
	if err != nil {
		return "", fmt.Errorf("documents: render report: %w", err)
	}
	return buf.String(), nil
}

// SessionRecord renders a session record from an appointment's clinical
// notes. Missing notes render as an empty record.
func (r *Renderer) SessionRecord(p patients.Patient, s settings.Settings, appt appointments.Appointment, generatedAt time.Time) (string, error) {
	notes := appt.ClinicalRecord
	if notes == nil {
		notes = &appointments.ClinicalNotes{}
	}
	var buf bytes.Buffer
	err := r.sessionRecord.Execute(&buf, struct {
		Styles      template.CSS
		Patient     patients.Patient
		Settings    settings.Settings
		Session     appointments.Appointment
		Notes       *appointments.ClinicalNotes
		SessionDate string
		GeneratedAt string
	}{template.CSS(docStyles), p, s, appt, notes, formatDateBR(appt.Date), generatedAt.Format("02/01/2006 15:04")})
	if err != nil {
		return "", fmt.Errorf("documents: render session record: %w", err)
	}
	return buf.String(), nil
}
