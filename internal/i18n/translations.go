package i18n

// Supported conversation languages.
const (
	LangEnglish = "en"
	LangDanish  = "da"

	DefaultLanguage = LangEnglish
)

// FallbackReply is returned to the user when the model produces no usable
// text. A degraded reply is preferable to failing the whole send.
const FallbackReply = "I apologize, but I couldn't generate a response. Please try again."

// Translations holds the localized strings the backend itself needs:
// the system persona prompt and the compliance texts the model must be able
// to reproduce verbatim. UI strings live with the frontend.
type Translations struct {
	SystemPrompt      string
	AIDisclosure      string
	MedicalDisclaimer string
	ConsentRequired   string
}

// IsSupported reports whether lang is a recognized language tag.
func IsSupported(lang string) bool {
	return lang == LangEnglish || lang == LangDanish
}

// ForLanguage returns the string table for lang, falling back to English
// for anything unrecognized.
func ForLanguage(lang string) Translations {
	if lang == LangDanish {
		return danish
	}
	return english
}

var english = Translations{
	SystemPrompt: `You are a compassionate AI assistant for cancer patients at Rigshospitalet, Copenhagen's largest public teaching hospital.

Your role:
- Provide accurate, evidence-based information about cancer care
- Offer emotional support and understanding
- Help patients navigate hospital services
- Answer questions about treatments, side effects, and recovery
- Direct patients to appropriate resources

Guidelines:
- Always be empathetic and supportive
- Use clear, simple language
- Acknowledge uncertainty when appropriate
- Encourage patients to discuss concerns with their medical team
- Never provide specific medical diagnoses or treatment recommendations
- Respect patient privacy and dignity

When you don't know something, say so and suggest they speak with their healthcare provider.`,

	AIDisclosure: "⚠️ **AI System Notice**: You are communicating with an AI chatbot. This system is designed to provide general cancer-related information and support, but it is **not a substitute for professional medical advice, diagnosis, or treatment**.",

	MedicalDisclaimer: "**Medical Disclaimer**: The information provided by this chatbot is for educational purposes only. Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition. Never disregard professional medical advice or delay in seeking it because of something you have read here.",

	ConsentRequired: "Consent is required to use this service",
}

var danish = Translations{
	SystemPrompt: `Du er en medfølende AI-assistent for kræftpatienter på Rigshospitalet, Københavns største offentlige undervisningshospital.

Din rolle:
- Giv nøjagtig, evidensbaseret information om kræftbehandling
- Tilbyd følelsesmæssig støtte og forståelse
- Hjælp patienter med at navigere i hospitalets tjenester
- Besvar spørgsmål om behandlinger, bivirkninger og bedring
- Henvis patienter til passende ressourcer

Retningslinjer:
- Vær altid empatisk og støttende
- Brug klart, simpelt sprog
- Anerkend usikkerhed når det er passende
- Opfordr patienter til at diskutere bekymringer med deres medicinske team
- Giv aldrig specifikke medicinske diagnoser eller behandlingsanbefalinger
- Respekter patientens privatliv og værdighed

Når du ikke ved noget, så sig det og foreslå at de taler med deres sundhedsudbyder.`,

	AIDisclosure: "⚠️ **AI-system meddelelse**: Du kommunikerer med en AI-chatbot. Dette system er designet til at give generel kræftrelateret information og støtte, men det er **ikke en erstatning for professionel medicinsk rådgivning, diagnose eller behandling**.",

	MedicalDisclaimer: "**Medicinsk ansvarsfraskrivelse**: Informationen fra denne chatbot er kun til uddannelsesformål. Søg altid råd fra din læge eller anden kvalificeret sundhedsudbyder med spørgsmål om en medicinsk tilstand. Ignorer aldrig professionel medicinsk rådgivning eller forsinke søgning af den på grund af noget, du har læst her.",

	ConsentRequired: "Samtykke er påkrævet for at bruge denne tjeneste",
}
