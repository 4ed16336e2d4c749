package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	"github.com/noah-isme/idea-observation-api/internal/models"
)

// ReportAssembler turns an observation graph into narrative report text.
// Implementations must return the same text for the same entries.
type ReportAssembler interface {
	Assemble(detail *models.ObservationDetail) dto.ReportDraft
}

var (
	positiveVocabulary   = []string{"on task", "appropriate", "correct", "engaged"}
	concernVocabulary    = []string{"off task", "disrupt", "refus", "aggress", "elop"}
	transitionVocabulary = []string{"transition"}
)

// KeywordAssembler drafts reports from vocabulary matches over entry behavior and context.
type KeywordAssembler struct{}

// NewKeywordAssembler returns the default assembler.
func NewKeywordAssembler() *KeywordAssembler {
	return &KeywordAssembler{}
}

// Assemble implements ReportAssembler.
func (a *KeywordAssembler) Assemble(detail *models.ObservationDetail) dto.ReportDraft {
	stats := CountKeywords(detail.Entries)
	name := strings.TrimSpace(detail.Student.FirstName)
	if name == "" {
		name = "The student"
	}
	return dto.ReportDraft{
		ObservationID:   detail.ID,
		Status:          detail.Status,
		Summary:         summaryText(name, detail, stats),
		Recommendations: recommendationsText(name, stats),
		Stats:           stats,
	}
}

// CountKeywords tallies entries per vocabulary. An entry counts at most once per vocabulary.
func CountKeywords(entries []models.ObservationEntry) dto.KeywordStats {
	stats := dto.KeywordStats{TotalEntries: len(entries)}
	for _, entry := range entries {
		behavior := strings.ToLower(entry.Behavior)
		context := strings.ToLower(entry.Context)
		if containsAny(behavior, positiveVocabulary) {
			stats.PositiveEntries++
		}
		if containsAny(behavior, concernVocabulary) {
			stats.ConcernEntries++
		}
		if containsAny(behavior, transitionVocabulary) || containsAny(context, transitionVocabulary) {
			stats.TransitionEntries++
		}
	}
	return stats
}

func containsAny(text string, vocabulary []string) bool {
	for _, word := range vocabulary {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func summaryText(name string, detail *models.ObservationDetail, stats dto.KeywordStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s was observed in %s on %s", name, detail.Setting, detail.Date.Format("January 2, 2006"))
	if detail.EndTime != nil {
		fmt.Fprintf(&b, " from %s to %s", detail.StartTime, *detail.EndTime)
	} else {
		fmt.Fprintf(&b, " starting at %s", detail.StartTime)
	}
	fmt.Fprintf(&b, " with %s and %s present. ", plural(detail.TotalStudents, "student"), plural(detail.TotalTeachers, "adult"))
	fmt.Fprintf(&b, "The purpose of the observation was: %s. ", strings.TrimSuffix(detail.Purpose, "."))
	if stats.TotalEntries == 1 {
		b.WriteString("1 behavior entry was recorded during the session.")
	} else {
		fmt.Fprintf(&b, "%s were recorded during the session.", plural(stats.TotalEntries, "behavior entry"))
	}

	if stats.TotalEntries == 0 {
		b.WriteString("\n\nNo behavior entries were recorded, so no pattern of behavior can be described from this session.")
		return b.String()
	}

	b.WriteString("\n\n")
	switch {
	case stats.PositiveEntries > 0 && stats.ConcernEntries == 0:
		fmt.Fprintf(&b, "%s demonstrated consistent classroom ready behaviors. %s described on task, engaged or appropriate responses, and no disruptive behaviors were observed.",
			name, plural(stats.PositiveEntries, "entry"))
	case stats.PositiveEntries > 0:
		fmt.Fprintf(&b, "%s showed a mixed profile. %s described on task, engaged or appropriate responses, while %s noted concerns such as off task, disruptive or refusal behaviors.",
			name, plural(stats.PositiveEntries, "entry"), plural(stats.ConcernEntries, "entry"))
	case stats.ConcernEntries > 0:
		fmt.Fprintf(&b, "%s noted concerns such as off task, disruptive or refusal behaviors, and no entries described sustained on task engagement.",
			plural(stats.ConcernEntries, "entry"))
	default:
		fmt.Fprintf(&b, "The recorded behaviors did not indicate a clear pattern of either engagement or concern for %s.", name)
	}

	b.WriteString("\n\n")
	if stats.TransitionEntries > 0 {
		fmt.Fprintf(&b, "%s occurred during or around transitions, which warrant attention when planning supports for %s.",
			plural(stats.TransitionEntries, "entry"), name)
	} else {
		b.WriteString("No difficulties were recorded around transitions between activities.")
	}
	return b.String()
}

func recommendationsText(name string, stats dto.KeywordStats) string {
	var paragraphs []string
	if stats.ConcernEntries > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"A brief cue to orient %s to the speaker or visual display at the start of directions can reinforce attention. Clear expectations paired with a visual anchor and planned proximity can reduce the concerns recorded in this session.",
			name))
	}
	if stats.TransitionEntries > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Predictable routines for transitions, such as a warning before activities change and a visual schedule, are recommended to help %s shift between tasks.",
			name))
	}
	if stats.PositiveEntries > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Timely performance feedback highlighting accurate responses and engagement will reinforce the strengths %s showed during this session.",
			name))
	}
	if len(paragraphs) == 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Additional observations across settings are recommended to establish a baseline for %s before supports are selected.",
			name))
	}
	return strings.Join(paragraphs, "\n\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	switch {
	case strings.HasSuffix(noun, "y"):
		noun = strings.TrimSuffix(noun, "y") + "ies"
	default:
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
