package llm

import "fmt"

// StatusPrompt asks whether the comments describe a resolved issue.
func StatusPrompt(comments string) string {
	return fmt.Sprintf("Classify the following financial issue as 'Resolved' or 'Unresolved': %s", comments)
}

// SummaryPrompt asks for a short summary of an open issue.
func SummaryPrompt(comments string) string {
	return fmt.Sprintf("Summarize this financial issue: %s", comments)
}

// NextStepsPrompt asks for follow-up actions on an open issue.
func NextStepsPrompt(comments string) string {
	return fmt.Sprintf("Suggest next steps for resolving: %s", comments)
}

// PatternPrompt asks for the resolution pattern a closed case followed.
func PatternPrompt(comments string) string {
	return fmt.Sprintf("Identify resolution pattern from this case: %s", comments)
}
