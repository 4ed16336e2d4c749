package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

// In-memory stores shared by the service tests. Lookups return copies so that services
// only change stored state through explicit writes.

type memSchools struct {
	items map[string]models.School
}

func newMemSchools(schools ...models.School) *memSchools {
	m := &memSchools{items: map[string]models.School{}}
	for _, s := range schools {
		m.items[s.ID] = s
	}
	return m
}

func (m *memSchools) List(ctx context.Context) ([]models.School, error) {
	out := make([]models.School, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memSchools) FindByID(ctx context.Context, id string) (*models.School, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memSchools) Create(ctx context.Context, school *models.School) error {
	school.ID = fmt.Sprintf("school-%d", len(m.items)+1)
	m.items[school.ID] = *school
	return nil
}

type memTeachers struct {
	items map[string]models.Teacher
}

func newMemTeachers(teachers ...models.Teacher) *memTeachers {
	m := &memTeachers{items: map[string]models.Teacher{}}
	for _, t := range teachers {
		m.items[t.ID] = t
	}
	return m
}

func (m *memTeachers) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.items {
		if filter.SchoolID == "" || t.SchoolID == filter.SchoolID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTeachers) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (m *memTeachers) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = fmt.Sprintf("teacher-%d", len(m.items)+1)
	m.items[teacher.ID] = *teacher
	return nil
}

type memClassrooms struct {
	items     map[string]models.Classroom
	createErr error
}

func newMemClassrooms(classrooms ...models.Classroom) *memClassrooms {
	m := &memClassrooms{items: map[string]models.Classroom{}}
	for _, c := range classrooms {
		m.items[c.ID] = c
	}
	return m
}

func (m *memClassrooms) List(ctx context.Context, filter models.ClassroomFilter) ([]models.ClassroomDetail, error) {
	var out []models.ClassroomDetail
	for _, c := range m.items {
		if filter.SchoolID != "" && c.SchoolID != filter.SchoolID {
			continue
		}
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, models.ClassroomDetail{Classroom: c})
	}
	return out, nil
}

func (m *memClassrooms) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *memClassrooms) Create(ctx context.Context, classroom *models.Classroom) error {
	if m.createErr != nil {
		return m.createErr
	}
	classroom.ID = fmt.Sprintf("classroom-%d", len(m.items)+1)
	m.items[classroom.ID] = *classroom
	return nil
}

type memStudents struct {
	items   map[string]models.Student
	order   []string
	history map[string][]models.ObservationStub
}

func newMemStudents(students ...models.Student) *memStudents {
	m := &memStudents{items: map[string]models.Student{}, history: map[string][]models.ObservationStub{}}
	for _, s := range students {
		m.items[s.ID] = s
		m.order = append(m.order, s.ID)
	}
	return m
}

func (m *memStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentListItem, error) {
	var out []models.StudentListItem
	for _, id := range m.order {
		s := m.items[id]
		if !s.IsActive && !filter.IncludeInactive {
			continue
		}
		if filter.SchoolID != "" && s.SchoolID != filter.SchoolID {
			continue
		}
		out = append(out, models.StudentListItem{Student: s})
	}
	return out, nil
}

func (m *memStudents) RecentObservations(ctx context.Context, studentIDs []string, limit int) ([]models.ObservationStub, error) {
	var out []models.ObservationStub
	for _, id := range studentIDs {
		stubs := m.history[id]
		if len(stubs) > limit {
			stubs = stubs[:limit]
		}
		out = append(out, stubs...)
	}
	return out, nil
}

func (m *memStudents) ObservationHistory(ctx context.Context, studentID string) ([]models.ObservationStub, error) {
	return m.history[studentID], nil
}

func (m *memStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memStudents) Create(ctx context.Context, student *models.Student) error {
	student.ID = fmt.Sprintf("student-%d", len(m.items)+1)
	m.items[student.ID] = *student
	m.order = append(m.order, student.ID)
	return nil
}

func (m *memStudents) Update(ctx context.Context, student *models.Student) error {
	stored, ok := m.items[student.ID]
	if !ok {
		return sql.ErrNoRows
	}
	updated := *student
	updated.IsActive = stored.IsActive
	m.items[student.ID] = updated
	return nil
}

func (m *memStudents) Deactivate(ctx context.Context, id string) error {
	s, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.IsActive = false
	m.items[id] = s
	return nil
}

type memCategories struct {
	idea     map[string]models.IdeaCategory
	behavior []models.BehaviorCategory
	listErr  error
	lists    int
	upserts  int
}

func newMemCategories(categories ...models.IdeaCategory) *memCategories {
	m := &memCategories{idea: map[string]models.IdeaCategory{}}
	for _, c := range categories {
		m.idea[c.ID] = c
	}
	return m
}

func (m *memCategories) FindIdeaCategoriesByIDs(ctx context.Context, ids []string) ([]models.IdeaCategory, error) {
	var out []models.IdeaCategory
	for _, id := range ids {
		if c, ok := m.idea[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) ListIdeaCategories(ctx context.Context) ([]models.IdeaCategory, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.IdeaCategory, 0, len(m.idea))
	for _, c := range m.idea {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memCategories) ListBehaviorCategories(ctx context.Context) ([]models.BehaviorCategory, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.behavior, nil
}

func (m *memCategories) UpsertIdeaCategory(ctx context.Context, category *models.IdeaCategory) error {
	m.upserts++
	for id, existing := range m.idea {
		if existing.Code == category.Code {
			category.ID = id
			m.idea[id] = *category
			return nil
		}
	}
	category.ID = fmt.Sprintf("idea-%d", len(m.idea)+1)
	m.idea[category.ID] = *category
	return nil
}

func (m *memCategories) UpsertBehaviorCategory(ctx context.Context, category *models.BehaviorCategory) error {
	m.upserts++
	for i := range m.behavior {
		if m.behavior[i].Name == category.Name {
			category.ID = m.behavior[i].ID
			m.behavior[i] = *category
			return nil
		}
	}
	category.ID = fmt.Sprintf("behavior-%d", len(m.behavior)+1)
	m.behavior = append(m.behavior, *category)
	return nil
}

type memObservers struct {
	items map[string]models.ObserverSummary
}

func (m *memObservers) Summary(ctx context.Context, id string) (*models.ObserverSummary, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type memObservations struct {
	mu        sync.Mutex
	items     map[string]models.Observation
	seq       int
	createErr error
	entries   *memEntries
}

func (m *memObservations) Create(ctx context.Context, obs *models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	obs.ID = fmt.Sprintf("obs-%d", m.seq)
	obs.CreatedAt = time.Date(2024, 3, 1, 9, 0, m.seq, 0, time.UTC)
	obs.UpdatedAt = obs.CreatedAt
	m.items[obs.ID] = *obs
	return nil
}

func (m *memObservations) FindByID(ctx context.Context, id string) (*models.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obs, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &obs, nil
}

func (m *memObservations) List(ctx context.Context, filter models.ObservationFilter) ([]models.ObservationListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ObservationListItem
	for _, obs := range m.items {
		if obs.ObserverID != filter.ObserverID {
			continue
		}
		if filter.StudentID != "" && obs.StudentID != filter.StudentID {
			continue
		}
		out = append(out, models.ObservationListItem{Observation: obs})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memObservations) Update(ctx context.Context, obs *models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[obs.ID]; !ok {
		return sql.ErrNoRows
	}
	m.items[obs.ID] = *obs
	return nil
}

func (m *memObservations) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	if m.entries != nil {
		m.entries.deleteFor(id)
	}
	return nil
}

type memEntries struct {
	mu    sync.Mutex
	items []models.ObservationEntry
}

func (m *memEntries) Create(ctx context.Context, entry *models.ObservationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = fmt.Sprintf("entry-%d", len(m.items)+1)
	entry.CreatedAt = time.Date(2024, 3, 1, 10, 0, len(m.items), 0, time.UTC)
	m.items = append(m.items, *entry)
	return nil
}

func (m *memEntries) ListByObservation(ctx context.Context, observationID string) ([]models.ObservationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ObservationEntry{}
	for _, e := range m.items {
		if e.ObservationID == observationID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeOfDay < out[j].TimeOfDay })
	return out, nil
}

func (m *memEntries) ListByObservations(ctx context.Context, observationIDs []string) (map[string][]models.ObservationEntry, error) {
	grouped := map[string][]models.ObservationEntry{}
	for _, id := range observationIDs {
		entries, _ := m.ListByObservation(ctx, id)
		if len(entries) > 0 {
			grouped[id] = entries
		}
	}
	return grouped, nil
}

func (m *memEntries) deleteFor(observationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, e := range m.items {
		if e.ObservationID != observationID {
			kept = append(kept, e)
		}
	}
	m.items = kept
}
