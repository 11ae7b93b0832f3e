package entity

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultLang is used for absent or unsupported language codes.
const DefaultLang = "en"

// The description label, the placeholders and the signature are the same in
// every language.
const (
	descriptionLabel = "Dream Tea Description:"
	signature        = "Naghma Tea Website"
	phoneMissing     = "Not provided"
	quantityMissing  = "N/A"
)

// Locale holds the translatable fragments of the request email.
type Locale struct {
	// Subject is a fmt format receiving the customer name.
	Subject      string
	Greeting     string
	DetailsLabel string
	Thanks       string

	Name     string
	Email    string
	Phone    string
	Quantity string
}

var locales = map[string]Locale{
	"en": {
		Subject:      "Custom Tea Request from %s",
		Greeting:     "Hello,\n\nA new custom tea request was submitted with the following details:",
		DetailsLabel: "Details",
		Thanks:       "Regards",
		Name:         "Name",
		Email:        "Email",
		Phone:        "Phone",
		Quantity:     "Quantity",
	},
	"fr": {
		Subject:      "Demande de thé personnalisé de %s",
		Greeting:     "Bonjour,\n\nUne nouvelle demande de thé personnalisé a été soumise avec les détails suivants:",
		DetailsLabel: "Détails",
		Thanks:       "Cordialement",
		Name:         "Nom",
		Email:        "Email",
		Phone:        "Téléphone",
		Quantity:     "Quantité",
	},
	"ar": {
		Subject:      "طلب شاي مخصص من %s",
		Greeting:     "مرحباً،\n\nتم إرسال طلب شاي مخصص جديد بالمواصفات التالية:",
		DetailsLabel: "التفاصيل",
		Thanks:       "مع التحية",
		Name:         "الاسم",
		Email:        "البريد الإلكتروني",
		Phone:        "رقم الهاتف",
		Quantity:     "الكمية",
	},
}

// LocaleFor returns the resolved locale code and its fragments. Matching is
// exact; anything unknown resolves to DefaultLang.
func LocaleFor(lang string) (string, Locale) {
	if l, ok := locales[lang]; ok {
		return lang, l
	}
	return DefaultLang, locales[DefaultLang]
}

// Compose renders s into a Message. Values are inserted verbatim and lines
// are joined with "\n" without a trailing newline.
func Compose(s Submission) Message {
	lang, l := LocaleFor(s.Lang)

	lines := []string{
		l.Greeting,
		"",
		l.DetailsLabel + ":",
		l.Name + ": " + s.CustomerName,
		l.Email + ": " + s.CustomerEmail,
		l.Phone + ": " + lo.CoalesceOrEmpty(s.CustomerPhone, phoneMissing),
		l.Quantity + ": " + lo.CoalesceOrEmpty(s.Quantity, quantityMissing),
		"",
		descriptionLabel,
		s.DreamTea,
		"",
		l.Thanks,
		signature,
	}

	return Message{
		Lang:    lang,
		Subject: fmt.Sprintf(l.Subject, s.CustomerName),
		Text:    strings.Join(lines, "\n"),
		ReplyTo: s.CustomerEmail,
	}
}
