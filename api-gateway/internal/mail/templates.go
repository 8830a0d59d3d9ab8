package mail

import (
	"bytes"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"
)

const notificationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
  <div style="background:linear-gradient(135deg,#2563eb 0%,#1e40af 100%);padding:40px 30px;text-align:center;color:white;">
    <h1 style="margin:0;font-size:28px;">📬 Nouveau Message</h1>
    <p style="margin:10px 0 0 0;font-size:14px;opacity:0.9;">Webly Admin</p>
  </div>
  <div style="padding:40px 30px;">
    <p style="margin:0;font-size:13px;color:#64748b;text-transform:uppercase;">Reçu le</p>
    <p style="margin:8px 0 24px 0;font-size:16px;color:#1e293b;">{{.Msg.Date}} à {{.Msg.Time}}</p>
    <h3 style="font-size:14px;color:#64748b;text-transform:uppercase;">Coordonnées du Contact</h3>
    <p>👤 {{.Msg.Name}}</p>
    <p>📧 <a href="mailto:{{.Msg.Email}}">{{.Msg.Email}}</a></p>
    {{- if .Msg.Phone}}
    <p>📱 <a href="tel:{{.Msg.Phone}}">{{.Msg.Phone}}</a></p>
    {{- end}}
    {{- if .Msg.Company}}
    <p>🏢 {{.Msg.Company}}</p>
    {{- end}}
    <h3 style="font-size:14px;color:#64748b;text-transform:uppercase;">💬 Contenu du Message</h3>
    <p style="line-height:1.8;white-space:pre-wrap;word-wrap:break-word;">{{.Msg.Message}}</p>
    <div style="text-align:center;margin:30px 0;">
      <a href="{{.AdminURL}}" style="display:inline-block;background:#2563eb;color:white;padding:14px 40px;text-decoration:none;border-radius:8px;">➜ Accéder au Tableau de Bord</a>
    </div>
  </div>
  <div style="background:#f8fafc;padding:25px 30px;text-align:center;font-size:12px;color:#94a3b8;">
    Ceci est un message automatique. Veuillez ne pas répondre directement à cet email.<br>
    Consultez votre tableau de bord pour répondre au message.
  </div>
</div>
</body>
</html>`

const notificationText = `Nouveau message reçu:

Nom: {{.Msg.Name}}
Email: {{.Msg.Email}}
{{if .Msg.Phone}}Téléphone: {{.Msg.Phone}}
{{end}}{{if .Msg.Company}}Entreprise: {{.Msg.Company}}
{{end}}
Message:
{{.Msg.Message}}

Date: {{.Msg.Date}} à {{.Msg.Time}}
`

const invoiceHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
  <div style="background:linear-gradient(135deg,#10b981 0%,#059669 100%);padding:40px 30px;text-align:center;color:white;">
    <h1 style="margin:0;font-size:28px;">📋 Facture</h1>
  </div>
  <div style="padding:40px 30px;">
    <p style="font-size:12px;color:#64748b;text-transform:uppercase;">Numéro de facture</p>
    <p style="font-size:18px;font-weight:700;">#{{.Number}}</p>
    <p style="font-size:12px;color:#64748b;text-transform:uppercase;">Date</p>
    <p>{{.FormattedDate}}</p>
    <p style="font-size:12px;color:#64748b;text-transform:uppercase;">Facturé à</p>
    <p>{{.CustomerName}}<br>{{.CustomerEmail}}</p>
    <table style="width:100%;border-collapse:collapse;margin:20px 0;">
      <thead><tr><th style="text-align:left;">Description</th><th style="text-align:right;">Montant</th></tr></thead>
      <tbody><tr><td>{{.ServiceName}}</td><td style="text-align:right;">{{.Amount}}€</td></tr></tbody>
    </table>
    <p style="text-align:right;font-size:18px;font-weight:700;">Total: {{.Amount}}€</p>
    <p style="font-size:12px;color:#64748b;">ID de Transaction: {{.TransactionID}}</p>
    <p style="color:#059669;">✅ Paiement reçu et confirmé. Cette facture est votre preuve d'achat.</p>
  </div>
  <div style="background:#f8fafc;padding:25px 30px;text-align:center;font-size:12px;color:#94a3b8;">
    Merci pour votre confiance ! Cette facture est valable pour une durée de 2 ans.<br>
    Gardez-la précieusement pour vos archives comptables.
  </div>
</div>
</body>
</html>`

const invoiceText = `FACTURE #{{.Number}}
{{.Rule}}

Facturé à:
{{.CustomerName}}
{{.CustomerEmail}}

Description: {{.ServiceName}}
Montant: {{.Amount}}€
Total: {{.Amount}}€

Date: {{.FormattedDate}}
ID de Transaction: {{.TransactionID}}

Merci pour votre achat !
Webly - Plateforme de Services
`

var (
	notificationHTMLTmpl = htmltemplate.Must(htmltemplate.New("notification").Parse(notificationHTML))
	notificationTextTmpl = texttemplate.Must(texttemplate.New("notification").Parse(notificationText))
	invoiceHTMLTmpl      = htmltemplate.Must(htmltemplate.New("invoice").Parse(invoiceHTML))
	invoiceTextTmpl      = texttemplate.Must(texttemplate.New("invoice").Parse(invoiceText))
)

type executor interface {
	Execute(w io.Writer, data any) error
}

func render(tmpl executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDate formats t like "15 octobre 2026".
func FrenchDate(t time.Time) string {
	var b strings.Builder
	b.WriteString(t.Format("2"))
	b.WriteByte(' ')
	b.WriteString(frenchMonths[t.Month()-1])
	b.WriteByte(' ')
	b.WriteString(t.Format("2006"))
	return b.String()
}
