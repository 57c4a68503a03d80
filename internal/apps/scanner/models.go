package scanner

import "github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/advice"

type Kind string

const (
	KindIdentify Kind = "identify"
	KindDiagnose Kind = "diagnose"
)

// Language of the model's answer. Russian unless the client asks for Kazakh.
type Language string

const (
	LanguageRussian Language = "ru"
	LanguageKazakh  Language = "kk"
)

func ParseLanguage(s string) Language {
	if Language(s) == LanguageKazakh {
		return LanguageKazakh
	}
	return LanguageRussian
}

func (l Language) name() string {
	if l == LanguageKazakh {
		return "Казахский"
	}
	return "Русский"
}

type ScanResult struct {
	Kind           Kind                   `json:"kind"`
	Identification *advice.Identification `json:"identification,omitempty"`
	Diagnosis      []advice.Section       `json:"diagnosis,omitempty"`
	Raw            string                 `json:"raw"`
	Remaining      int                    `json:"remaining"`
}

type EligibilityResponse struct {
	CanScan   bool `json:"can_scan"`
	Remaining int  `json:"remaining"`
	Premium   bool `json:"premium"`
}
