package services

import (
	"fmt"
	"strings"

	"cipherhaven/internal/models"
)

const (
	expansionPrompt = "You help survivors of abuse put their experience into words. " +
		"Using the structured incident details below, write a clear, first-person account " +
		"suitable for sharing with a counselor or legal advisor. Keep every fact given, " +
		"do not invent names, places or events, and keep a calm and supportive tone"

	decompositionPrompt = "Break the following account into short, factual statements, one per line, " +
		"covering what happened, when, how often, who was involved and what help is wanted. " +
		"Do not add information that is not in the text"

	poemPrompt = "Write a short, gentle poem of encouragement for the person who wrote the " +
		"following text. Do not repeat personal details from it"

	imageStylePrompt = "Soft, hopeful illustration, no text, no people's faces"
)

// DescribeIncident renders the intake form as the data block sent to the text models.
func DescribeIncident(r models.IncidentReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	if r.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", r.Phone)
	}
	fmt.Fprintf(&b, "Location: %.5f, %.5f\n", r.Location.Lat, r.Location.Lng)
	fmt.Fprintf(&b, "Going on for: %s\n", r.OccurrenceDuration)
	fmt.Fprintf(&b, "Frequency: %s\n", r.Frequency)
	fmt.Fprintf(&b, "Visible injuries: %s\n", r.VisibleInjuries)
	fmt.Fprintf(&b, "Preferred contact: %s\n", strings.Join(r.PreferredContact, ", "))
	fmt.Fprintf(&b, "Current situation: %s\n", r.CurrentSituation)
	fmt.Fprintf(&b, "Person responsible: %s", r.Culprit)
	return b.String()
}

func withData(instruction, data string) string {
	return instruction + ". The data is " + data
}

const maxImageContext = 400

// ImagePrompt combines the user's image prompt with the start of the chosen text.
func ImagePrompt(req models.ImageGenerationRequest) string {
	prompt := strings.TrimSpace(req.ImagePrompt)
	text := strings.TrimSpace(req.GeneratedText)
	if text != "" {
		if r := []rune(text); len(r) > maxImageContext {
			text = string(r[:maxImageContext])
		}
		prompt += ". Mood taken from this text: " + text
	}
	return prompt + ". " + imageStylePrompt
}
