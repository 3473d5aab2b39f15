package classifier

import "github.com/fotocoach/coachd/internal/models"

// Base keyword lexicons per language. Matching is plain substring matching on
// lowercased text: in the Scandinavian languages and German the keywords show
// up inflected inside longer words, and substring hits are cheap. The
// occasional false positive on an unrelated substring is accepted.

const defaultLanguage = "en"

var obstacleKeywords = map[string][]string{
	"en": {"problem", "stuck", "can't", "cannot", "struggle", "difficult", "challenge", "issue", "worried", "anxious", "frustrated", "confused", "blocking", "prevent"},
	"da": {"problem", "fast", "kan ikke", "kæmper", "svært", "udfordring", "bekymret", "frustreret", "forvirret", "blokerer", "forhindrer"},
	"sv": {"problem", "fast", "kan inte", "kämpar", "svårt", "utmaning", "orolig", "frustrerad", "förvirrad", "blockerar", "hindrar"},
	"no": {"problem", "fast", "kan ikke", "strever", "vanskelig", "utfordring", "bekymret", "frustrert", "forvirret", "blokkerer", "forhindrer"},
	"de": {"problem", "festgefahren", "kann nicht", "kämpfe", "schwierig", "herausforderung", "besorgt", "frustriert", "verwirrt", "blockiert", "verhindert"},
}

var outcomeKeywords = map[string][]string{
	"en": {"achieved", "accomplished", "completed", "success", "reached", "goal", "want to", "will", "plan to", "going to", "better", "improved", "hope", "wish"},
	"da": {"opnået", "fuldført", "succes", "nået", "mål", "vil gerne", "vil", "planlægger", "bedre", "forbedret", "håber", "ønsker"},
	"sv": {"uppnått", "slutfört", "framgång", "nått", "mål", "vill", "ska", "planerar", "bättre", "förbättrat", "hoppas", "önskar"},
	"no": {"oppnådd", "fullført", "suksess", "nådd", "mål", "vil", "skal", "planlegger", "bedre", "forbedret", "håper", "ønsker"},
	"de": {"erreicht", "abgeschlossen", "erfolg", "ziel", "möchte", "werde", "plane", "besser", "verbessert", "hoffe", "wünsche"},
}

var reflectionKeywords = map[string][]string{
	"en": {"think", "feel", "realize", "understand", "learned", "noticed", "seems", "perhaps", "maybe", "wonder", "considering", "aware"},
	"da": {"tænker", "føler", "indser", "forstår", "lærte", "bemærkede", "virker", "måske", "spekulerer", "overvejer", "opmærksom"},
	"sv": {"tänker", "känner", "inser", "förstår", "lärde", "märkte", "verkar", "kanske", "undrar", "överväger", "medveten"},
	"no": {"tenker", "føler", "innser", "forstår", "lærte", "la merke til", "virker", "kanskje", "lurer", "vurderer", "oppmerksom"},
	"de": {"denke", "fühle", "erkenne", "verstehe", "gelernt", "bemerkt", "scheint", "vielleicht", "frage mich", "erwäge", "bewusst"},
}

// stopWords are tokens the learner never picks up, across all five languages.
var stopWords = buildStopWords(
	// English
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
	"her", "was", "one", "our", "out", "has", "his", "how", "its", "may",
	"who", "did", "get", "him", "she", "too", "use", "that", "this", "with",
	"have", "from", "they", "been", "were", "what", "when", "your", "just",
	"about", "would", "there", "their", "really", "very", "some",
	// Danish / Norwegian
	"det", "der", "den", "til", "med", "har", "ikke", "jeg", "som", "var",
	"men", "noe", "kan", "ble", "mig", "meg", "han", "hun", "dette", "eller",
	// Swedish
	"och", "att", "inte", "jag", "ett", "min", "mitt", "denna", "hade",
	// German
	"und", "die", "das", "ist", "ich", "ein", "eine", "nicht", "mit", "auf",
	"sich", "auch", "aber", "habe", "mich", "mein", "sehr",
)

func buildStopWords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// baseTerms returns the base lexicon for a category, falling back to the
// default language for languages we do not carry.
func baseTerms(category models.Classification, language string) []string {
	var table map[string][]string
	switch category {
	case models.ClassificationObstacle:
		table = obstacleKeywords
	case models.ClassificationOutcome:
		table = outcomeKeywords
	default:
		table = reflectionKeywords
	}
	if terms, ok := table[language]; ok {
		return terms
	}
	return table[defaultLanguage]
}
