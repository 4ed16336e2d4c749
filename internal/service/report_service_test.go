package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/dto"
	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

func newReportFixture(t *testing.T) (*observationFixture, *ReportService) {
	t.Helper()
	f := newObservationFixture(t)
	return f, NewReportService(f.svc, nil, validator.New(), f.metrics, zap.NewNop())
}

func recordSession(t *testing.T, f *observationFixture, behaviors ...string) *models.Observation {
	t.Helper()
	ctx := context.Background()
	obs := f.create(t, observerID)
	for i, behavior := range behaviors {
		req := validEntryRequest("09"+string(rune('0'+i))+"0", "09:"+string(rune('0'+i))+"0", behavior)
		_, err := f.svc.AppendEntry(ctx, observerID, obs.ID, req)
		require.NoError(t, err)
	}
	_, err := f.svc.Stop(ctx, observerID, obs.ID, dto.StopObservationRequest{EndTime: "09:45"})
	require.NoError(t, err)
	return obs
}

func TestCountKeywords(t *testing.T) {
	entries := []models.ObservationEntry{
		{Behavior: "On Task with worksheet", Context: "Independent work"},
		{Behavior: "Refused to start", Context: "Transition to math"},
		{Behavior: "Disruptive humming", Context: "Lecture"},
		{Behavior: "Engaged but off task briefly", Context: "Group"},
		{Behavior: "Walked in line", Context: "Hallway"},
	}

	stats := CountKeywords(entries)
	assert.Equal(t, dto.KeywordStats{TotalEntries: 5, PositiveEntries: 2, ConcernEntries: 3, TransitionEntries: 1}, stats)
}

func TestKeywordAssemblerDeterministic(t *testing.T) {
	detail := &models.ObservationDetail{
		Observation: models.Observation{
			ID: "obs-1", Status: models.ObservationStatusCompleted, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00", Setting: "Math block", TotalStudents: 22, TotalTeachers: 2, Purpose: "Baseline",
		},
		Student: models.StudentDetail{Student: models.Student{FirstName: "Maya"}},
		Entries: []models.ObservationEntry{
			{Behavior: "On task", Context: "Warm up"},
			{Behavior: "Eloped from room", Context: "Transition to recess"},
		},
	}

	assembler := NewKeywordAssembler()
	first := assembler.Assemble(detail)
	second := assembler.Assemble(detail)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("assemble not deterministic (-first +second):\n%s", diff)
	}

	assert.Equal(t, "obs-1", first.ObservationID)
	assert.False(t, first.Saved)
	assert.Contains(t, first.Summary, "Maya was observed in Math block on March 1, 2024")
	assert.Contains(t, first.Summary, "2 behavior entries were recorded")
	assert.Contains(t, first.Summary, "mixed profile")
	assert.Contains(t, first.Recommendations, "transitions")
	assert.Len(t, strings.Split(first.Recommendations, "\n\n"), 3)
}

func TestKeywordAssemblerNoEntries(t *testing.T) {
	detail := &models.ObservationDetail{
		Observation: models.Observation{ID: "obs-1", StartTime: "09:00", Setting: "Art", TotalStudents: 1, TotalTeachers: 1, Purpose: "Check in."},
		Entries:     []models.ObservationEntry{},
	}

	draft := NewKeywordAssembler().Assemble(detail)
	assert.Contains(t, draft.Summary, "The student was observed in Art")
	assert.Contains(t, draft.Summary, "1 student and 1 adult present")
	assert.Contains(t, draft.Summary, "No behavior entries were recorded")
	assert.Contains(t, draft.Recommendations, "Additional observations")
}

func TestReportServiceDraft(t *testing.T) {
	f, svc := newReportFixture(t)
	obs := recordSession(t, f, "On task", "Off task during transition")

	draft, err := svc.Draft(context.Background(), observerID, obs.ID)
	require.NoError(t, err)
	assert.False(t, draft.Saved)
	assert.Equal(t, models.ObservationStatusCompleted, draft.Status)
	assert.Equal(t, 2, draft.Stats.TotalEntries)
	assert.Equal(t, 1, draft.Stats.ConcernEntries)
	assert.Contains(t, draft.Summary, "Maya")

	_, err = svc.Draft(context.Background(), otherObserverID, obs.ID)
	requireCode(t, err, appErrors.ErrForbidden)
}

func TestReportServiceSave(t *testing.T) {
	f, svc := newReportFixture(t)
	ctx := context.Background()
	obs := recordSession(t, f, "Engaged in group work")
	summary := "  Maya stayed engaged.  "

	saved, err := svc.Save(ctx, observerID, obs.ID, dto.SaveReportRequest{Summary: &summary})
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	assert.Equal(t, models.ObservationStatusReviewed, saved.Status)
	assert.Equal(t, "Maya stayed engaged.", saved.Summary)

	generated := NewKeywordAssembler()
	detail, err := f.svc.Get(ctx, observerID, obs.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.Assemble(detail).Recommendations, saved.Recommendations)
	assert.Equal(t, FormatReportNotes("Maya stayed engaged.", saved.Recommendations), *detail.Notes)

	reread, err := svc.Draft(ctx, observerID, obs.ID)
	require.NoError(t, err)
	assert.True(t, reread.Saved)
	assert.Equal(t, "Maya stayed engaged.", reread.Summary)
	assert.Equal(t, saved.Recommendations, reread.Recommendations)
}

func TestReportServiceResaveKeepsEditedText(t *testing.T) {
	f, svc := newReportFixture(t)
	ctx := context.Background()
	obs := recordSession(t, f, "On task")
	summary := "Edited summary."
	recommendations := "Edited recommendations."

	_, err := svc.Save(ctx, observerID, obs.ID, dto.SaveReportRequest{Summary: &summary})
	require.NoError(t, err)
	saved, err := svc.Save(ctx, observerID, obs.ID, dto.SaveReportRequest{Recommendations: &recommendations})
	require.NoError(t, err)
	assert.Equal(t, summary, saved.Summary)
	assert.Equal(t, recommendations, saved.Recommendations)

	reread, err := svc.Draft(ctx, observerID, obs.ID)
	require.NoError(t, err)
	assert.Equal(t, summary, reread.Summary)
	assert.Equal(t, recommendations, reread.Recommendations)
}

func TestReportServiceSaveRejectsMarkerInSummary(t *testing.T) {
	f, svc := newReportFixture(t)
	ctx := context.Background()
	obs := recordSession(t, f, "On task")
	summary := "Calm morning.\n\nRECOMMENDATIONS: none"

	_, err := svc.Save(ctx, observerID, obs.ID, dto.SaveReportRequest{Summary: &summary})
	requireCode(t, err, appErrors.ErrValidation)

	detail, err := f.svc.Get(ctx, observerID, obs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ObservationStatusCompleted, detail.Status)

	recommendations := "Keep the visual schedule.\n\nRECOMMENDATIONS: review in May"
	saved, err := svc.Save(ctx, observerID, obs.ID, dto.SaveReportRequest{Recommendations: &recommendations})
	require.NoError(t, err)
	reread, err := svc.Draft(ctx, observerID, obs.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Summary, reread.Summary)
	assert.Equal(t, recommendations, reread.Recommendations)
}

func TestReportServiceSaveRequiresStoppedObservation(t *testing.T) {
	f, svc := newReportFixture(t)
	obs := f.create(t, observerID)

	_, err := svc.Save(context.Background(), observerID, obs.ID, dto.SaveReportRequest{})
	requireCode(t, err, appErrors.ErrInvalidTransition)

	_, err = svc.Save(context.Background(), otherObserverID, obs.ID, dto.SaveReportRequest{})
	requireCode(t, err, appErrors.ErrForbidden)
}

func TestReportServiceRenderPDF(t *testing.T) {
	f, svc := newReportFixture(t)
	obs := recordSession(t, f, "On task", "Refused worksheet")

	body, filename, err := svc.RenderPDF(context.Background(), observerID, obs.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Equal(t, "observation-"+obs.ID+"-report.pdf", filename)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, "observation_reports_rendered_total", "pdf"))
}

func TestReportNotesRoundTrip(t *testing.T) {
	notes := FormatReportNotes("First paragraph.\n\nSecond.", "Use a timer.")
	assert.Equal(t, "SUMMARY: First paragraph.\n\nSecond.\n\nRECOMMENDATIONS: Use a timer.", notes)

	summary, recommendations, ok := ParseReportNotes(notes)
	require.True(t, ok)
	assert.Equal(t, "First paragraph.\n\nSecond.", summary)
	assert.Equal(t, "Use a timer.", recommendations)

	_, _, ok = ParseReportNotes("free form notes")
	assert.False(t, ok)
}
