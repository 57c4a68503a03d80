package handlers

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
)

const legalUpdated = "October 2026"

var legalPage = template.Must(template.New("legal").Parse(`<!DOCTYPE html>
<html><head><title>{{.Title}} - {{.App}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>{{.Title}}</h1>
<p>Last updated: {{.Updated}}</p>
{{range .Sections}}<h2>{{.Heading}}</h2>
<p>{{.Body}}</p>
{{end}}<h2>Contact</h2>
<p>For questions, contact us at {{.Contact}}</p>
</body></html>`))

type legalSection struct {
	Heading string
	Body    string
}

type legalDoc struct {
	Title    string
	App      string
	Updated  string
	Contact  string
	Sections []legalSection
}

type LegalHandler struct {
	appName string
	contact string
}

func NewLegalHandler(appName, contact string) *LegalHandler {
	return &LegalHandler{appName: appName, contact: contact}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return h.render(c, "Privacy Policy", []legalSection{
		{"Information We Collect", "We collect your email address, your profile name and occupation, the plant photos you scan and your chat messages with the assistant."},
		{"How We Use Your Information", "Photos and messages are sent to our AI provider to identify plants and diagnose diseases. Your location is used only to fetch weather for care advice and is not stored."},
		{"Data Storage", "Your data is stored on encrypted servers. We do not sell your personal information to third parties."},
		{"Account Deletion", "You can ask us to delete your account and all associated data at any time."},
	})
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return h.render(c, "Terms of Service", []legalSection{
		{"Acceptance", "By using " + h.appName + ", you agree to these terms."},
		{"Advice", "Diagnoses and care recommendations are generated automatically and may be wrong. Consult an agronomist before treating valuable crops."},
		{"User Conduct", "You agree not to post offensive, illegal, or harmful content in the forum. Reported content may be removed by moderators."},
		{"Premium", "Premium removes the daily scan and chat limits and adds the 3-day forecast."},
		{"Termination", "We may suspend or terminate accounts that violate these terms."},
	})
}

func (h *LegalHandler) render(c *fiber.Ctx, title string, sections []legalSection) error {
	c.Type("html")
	return legalPage.Execute(c.Response().BodyWriter(), legalDoc{
		Title:    title,
		App:      h.appName,
		Updated:  legalUpdated,
		Contact:  h.contact,
		Sections: sections,
	})
}
