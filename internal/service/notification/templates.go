package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jwalitptl/salon-api/internal/model"
)

const displayDate = "02.01.2006"

const layoutHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; text-align: center;">{{.Title}}</h2>
  <div style="background-color: {{.Background}}; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">{{.Headline}}</h3>
    <div style="margin: 15px 0;">
      <strong>Müşteri:</strong> {{.Customer}}<br>
      <strong>Telefon:</strong> {{.Phone}}<br>
      <strong>Hizmet:</strong> {{.Service}}<br>
      <strong>Uzman:</strong> {{.Expert}}<br>
      <strong>Tarih:</strong> {{.Date}}<br>
      <strong>Saat:</strong> {{.Time}}<br>
      {{- if .Price}}
      <strong>Fiyat:</strong> {{.Price}} TL<br>
      {{- end}}
      {{- if .Status}}
      <strong>Durum:</strong> {{.Status}}
      {{- end}}
    </div>
    {{- if .Notes}}
    <div style="background-color: #e9ecef; padding: 15px; border-radius: 5px; margin-top: 20px;">
      <p style="margin: 0; color: #495057;">
        <strong>Önemli Notlar:</strong><br>
        {{- range .Notes}}
        • {{.}}<br>
        {{- end}}
      </p>
    </div>
    {{- end}}
  </div>
  <div style="text-align: center; margin-top: 30px; color: #6c757d;">
    <p>Bu e-posta otomatik olarak gönderilmiştir. Lütfen yanıtlamayınız.</p>
    <p>{{.Business}} - Müşteri Yönetim Sistemi</p>
  </div>
</div>
`

var emailTemplate = template.Must(template.New("appointment").Parse(layoutHTML))

type emailView struct {
	Title      string
	Headline   string
	Background string
	Customer   string
	Phone      string
	Service    string
	Expert     string
	Date       string
	Time       string
	Price      string
	Status     string
	Notes      []string
	Business   string
}

var confirmationNotes = []string{
	"Randevunuzdan 15 dakika önce gelmenizi rica ederiz.",
	"Herhangi bir değişiklik için lütfen bizimle iletişime geçin.",
	"Randevunuzu iptal etmek isterseniz en az 24 saat önceden haber verin.",
}

// statusLabel is the customer facing name of a status.
func statusLabel(s model.AppointmentStatus) string {
	switch s {
	case model.AppointmentStatusConfirmed:
		return "Onaylandı"
	case model.AppointmentStatusCancelled:
		return "İptal Edildi"
	case model.AppointmentStatusCompleted:
		return "Tamamlandı"
	default:
		return "Beklemede"
	}
}

func baseView(apt *model.Appointment, business string) emailView {
	v := emailView{
		Date:     apt.Date.Format(displayDate),
		Time:     apt.Time,
		Business: business,
	}
	if apt.Customer != nil {
		v.Customer = apt.Customer.Name
		v.Phone = apt.Customer.Phone
	}
	if apt.Service != nil {
		v.Service = apt.Service.Name
	}
	if apt.Expert != nil {
		v.Expert = apt.Expert.Name
	}
	return v
}

func renderEmail(v emailView) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

func confirmationEmail(apt *model.Appointment, business string) (subject, body string, err error) {
	v := baseView(apt, business)
	v.Title = "Randevu Onayı"
	v.Headline = "Randevunuz Başarıyla Oluşturuldu!"
	v.Background = "#f8f9fa"
	v.Notes = confirmationNotes
	if apt.Service != nil {
		v.Price = apt.Service.Price.String()
	}
	body, err = renderEmail(v)
	return "Randevu Onayı - " + business, body, err
}

func updateEmail(apt *model.Appointment, business string) (subject, body string, err error) {
	v := baseView(apt, business)
	v.Title = "Randevu Güncellendi"
	v.Headline = "Randevunuz Güncellendi!"
	v.Background = "#fff3cd"
	v.Status = statusLabel(apt.Status)
	body, err = renderEmail(v)
	return "Randevu Güncellendi - " + business, body, err
}

func customerName(apt *model.Appointment) string {
	if apt.Customer == nil {
		return ""
	}
	return apt.Customer.Name
}

func confirmationSMS(apt *model.Appointment, business string) string {
	return fmt.Sprintf("Sayın %s, randevunuz %s %s tarihinde onaylandı. %s.",
		customerName(apt), apt.Date.Format(displayDate), apt.Time, business)
}

func updateSMS(apt *model.Appointment, business string) string {
	var label string
	switch apt.Status {
	case model.AppointmentStatusCompleted:
		label = "Tamamlandı"
	case model.AppointmentStatusCancelled:
		label = "İptal Edildi"
	default:
		label = "Güncellendi"
	}
	return fmt.Sprintf("Sayın %s, randevunuz güncellendi: %s %s (%s). %s.",
		customerName(apt), apt.Date.Format(displayDate), apt.Time, label, business)
}
