package models

// Contact methods accepted by the incident intake form.
const (
	ContactPhone     = "Phone"
	ContactEmail     = "Email"
	ContactText      = "Text message"
	ContactInPerson  = "In-person"
	InjuriesVisible  = "Yes"
	InjuriesNotShown = "No"
)

type Location struct {
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lng float64 `json:"lng" binding:"gte=-180,lte=180"`
}

// IncidentReport is the body of POST /api/generate-text.
type IncidentReport struct {
	Name               string   `json:"name" binding:"required,min=2"`
	Phone              string   `json:"phone"`
	Location           Location `json:"location"`
	OccurrenceDuration string   `json:"occurrenceDuration" binding:"required,min=1"`
	Frequency          string   `json:"frequency" binding:"required,min=1"`
	VisibleInjuries    string   `json:"visibleInjuries" binding:"required,oneof=Yes No"`
	PreferredContact   []string `json:"preferredContact" binding:"required,min=1,dive,oneof='Phone' 'Email' 'Text message' 'In-person'"`
	CurrentSituation   string   `json:"currentSituation" binding:"required,min=5"`
	Culprit            string   `json:"culprit" binding:"required,min=5"`
}

// WantsContact reports whether method is among the preferred contact methods.
func (r IncidentReport) WantsContact(method string) bool {
	for _, m := range r.PreferredContact {
		if m == method {
			return true
		}
	}
	return false
}

type TextGenerationResult struct {
	GeminiResponse string `json:"gemini_response"`
	GemmaResponse  string `json:"gemma_response"`
}

// TextRequest is used by the decomposition and poem endpoints.
type TextRequest struct {
	Text string `json:"text" binding:"required,min=5"`
}

type TextResult struct {
	Text string `json:"text"`
}

type ImageGenerationRequest struct {
	GeneratedText string `json:"generatedText"`
	ImagePrompt   string `json:"imagePrompt" binding:"required,min=3"`
}

type ImageGenerationResult struct {
	Images []string `json:"images"`
}

// GeneratedImage is raw model output before it is stored or inlined.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// ReportExportRequest is the body of POST /api/incident-report/pdf.
type ReportExportRequest struct {
	Report        IncidentReport `json:"report"`
	GeneratedText string         `json:"generatedText" binding:"required"`
	Model         string         `json:"model"`
	ImageURL      string         `json:"imageUrl"`
}
