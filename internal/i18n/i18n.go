// Package i18n holds the static translation tables the core touches:
// user-facing error messages per taxonomy code and classification labels.
package i18n

import "github.com/fotocoach/coachd/internal/models"

const fallbackLanguage = "en"

var errorMessages = map[string]map[models.ErrorType]string{
	"en": {
		models.ErrorValidation:    "Something was wrong with the request. Please try again.",
		models.ErrorConfig:        "The service is not fully configured. Please contact the operator.",
		models.ErrorRateLimit:     "I'm receiving many requests right now. Please wait a minute and try again.",
		models.ErrorQuotaExceeded: "The service has reached its usage quota. The operator has been informed.",
		models.ErrorOverloaded:    "The assistant is overloaded at the moment. Please try again shortly.",
		models.ErrorAuth:          "The service credentials were rejected. Please contact the operator.",
		models.ErrorDailyLimit:    "Today's conversation limit has been reached. Please come back tomorrow.",
		models.ErrorMonthlyLimit:  "This month's conversation limit has been reached. Please come back next month.",
		models.ErrorUnknown:       "Something went wrong. Please try again.",
	},
	"da": {
		models.ErrorValidation:    "Der var noget galt med forespørgslen. Prøv igen.",
		models.ErrorConfig:        "Tjenesten er ikke fuldt konfigureret. Kontakt venligst operatøren.",
		models.ErrorRateLimit:     "Jeg modtager mange forespørgsler lige nu. Vent et minut og prøv igen.",
		models.ErrorQuotaExceeded: "Tjenesten har nået sin kvote. Operatøren er informeret.",
		models.ErrorOverloaded:    "Assistenten er overbelastet i øjeblikket. Prøv igen om lidt.",
		models.ErrorAuth:          "Tjenestens legitimationsoplysninger blev afvist. Kontakt venligst operatøren.",
		models.ErrorDailyLimit:    "Dagens samtalegrænse er nået. Kom tilbage i morgen.",
		models.ErrorMonthlyLimit:  "Månedens samtalegrænse er nået. Kom tilbage næste måned.",
		models.ErrorUnknown:       "Noget gik galt. Prøv igen.",
	},
	"sv": {
		models.ErrorValidation:    "Något var fel med förfrågan. Försök igen.",
		models.ErrorConfig:        "Tjänsten är inte helt konfigurerad. Kontakta operatören.",
		models.ErrorRateLimit:     "Jag tar emot många förfrågningar just nu. Vänta en minut och försök igen.",
		models.ErrorQuotaExceeded: "Tjänsten har nått sin kvot. Operatören har informerats.",
		models.ErrorOverloaded:    "Assistenten är överbelastad just nu. Försök igen om en stund.",
		models.ErrorAuth:          "Tjänstens autentisering avvisades. Kontakta operatören.",
		models.ErrorDailyLimit:    "Dagens samtalsgräns har nåtts. Kom tillbaka i morgon.",
		models.ErrorMonthlyLimit:  "Månadens samtalsgräns har nåtts. Kom tillbaka nästa månad.",
		models.ErrorUnknown:       "Något gick fel. Försök igen.",
	},
	"no": {
		models.ErrorValidation:    "Noe var galt med forespørselen. Prøv igjen.",
		models.ErrorConfig:        "Tjenesten er ikke fullt konfigurert. Kontakt operatøren.",
		models.ErrorRateLimit:     "Jeg mottar mange forespørsler akkurat nå. Vent et minutt og prøv igjen.",
		models.ErrorQuotaExceeded: "Tjenesten har nådd kvoten sin. Operatøren er informert.",
		models.ErrorOverloaded:    "Assistenten er overbelastet for øyeblikket. Prøv igjen om litt.",
		models.ErrorAuth:          "Tjenestens påloggingsinformasjon ble avvist. Kontakt operatøren.",
		models.ErrorDailyLimit:    "Dagens samtalegrense er nådd. Kom tilbake i morgen.",
		models.ErrorMonthlyLimit:  "Månedens samtalegrense er nådd. Kom tilbake neste måned.",
		models.ErrorUnknown:       "Noe gikk galt. Prøv igjen.",
	},
	"de": {
		models.ErrorValidation:    "Mit der Anfrage stimmte etwas nicht. Bitte versuche es erneut.",
		models.ErrorConfig:        "Der Dienst ist nicht vollständig konfiguriert. Bitte wende dich an den Betreiber.",
		models.ErrorRateLimit:     "Ich erhalte gerade viele Anfragen. Bitte warte eine Minute und versuche es erneut.",
		models.ErrorQuotaExceeded: "Der Dienst hat sein Kontingent erreicht. Der Betreiber wurde informiert.",
		models.ErrorOverloaded:    "Der Assistent ist momentan überlastet. Bitte versuche es gleich noch einmal.",
		models.ErrorAuth:          "Die Zugangsdaten des Dienstes wurden abgelehnt. Bitte wende dich an den Betreiber.",
		models.ErrorDailyLimit:    "Das tägliche Gesprächslimit ist erreicht. Bitte komm morgen wieder.",
		models.ErrorMonthlyLimit:  "Das monatliche Gesprächslimit ist erreicht. Bitte komm nächsten Monat wieder.",
		models.ErrorUnknown:       "Etwas ist schiefgelaufen. Bitte versuche es erneut.",
	},
}

var classificationLabels = map[string]map[models.Classification]string{
	"en": {
		models.ClassificationObstacle:     "Obstacle",
		models.ClassificationOutcome:      "Outcome",
		models.ClassificationReflection:   "Reflection",
		models.ClassificationUnclassified: "Unclassified",
	},
	"da": {
		models.ClassificationObstacle:     "Forhindring",
		models.ClassificationOutcome:      "Resultat",
		models.ClassificationReflection:   "Refleksion",
		models.ClassificationUnclassified: "Uklassificeret",
	},
	"sv": {
		models.ClassificationObstacle:     "Hinder",
		models.ClassificationOutcome:      "Resultat",
		models.ClassificationReflection:   "Reflektion",
		models.ClassificationUnclassified: "Oklassificerad",
	},
	"no": {
		models.ClassificationObstacle:     "Hindring",
		models.ClassificationOutcome:      "Resultat",
		models.ClassificationReflection:   "Refleksjon",
		models.ClassificationUnclassified: "Uklassifisert",
	},
	"de": {
		models.ClassificationObstacle:     "Hindernis",
		models.ClassificationOutcome:      "Ergebnis",
		models.ClassificationReflection:   "Reflexion",
		models.ClassificationUnclassified: "Unklassifiziert",
	},
}

// ErrorMessage returns the localized, human-actionable message for an error
// code, falling back to English and then to the unknown-error message.
func ErrorMessage(language string, t models.ErrorType) string {
	table, ok := errorMessages[language]
	if !ok {
		table = errorMessages[fallbackLanguage]
	}
	if msg, ok := table[t]; ok {
		return msg
	}
	return table[models.ErrorUnknown]
}

// ClassificationLabel returns the localized display label for a tag.
func ClassificationLabel(language string, c models.Classification) string {
	table, ok := classificationLabels[language]
	if !ok {
		table = classificationLabels[fallbackLanguage]
	}
	if label, ok := table[c]; ok {
		return label
	}
	return table[models.ClassificationUnclassified]
}
