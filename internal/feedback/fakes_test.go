package feedback

import (
	"context"
	"sort"
	"time"

	"github.com/archmeta/archmeta-go/internal/catalog"
)

// fixedClock returns the same instant on every call.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeCatalog is an in-memory catalog.Store for workflow tests.
type fakeCatalog struct {
	conventions map[int64]bool
	structures  map[int64]bool
	rules       map[int64]*catalog.CodingRule
	templates   map[int64]*catalog.ClassTemplate
	examples    map[int64]*catalog.RuleExample
	nextID      int64

	failWith error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		conventions: map[int64]bool{},
		structures:  map[int64]bool{},
		rules:       map[int64]*catalog.CodingRule{},
		templates:   map[int64]*catalog.ClassTemplate{},
		examples:    map[int64]*catalog.RuleExample{},
	}
}

func (f *fakeCatalog) assignID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeCatalog) ConventionExists(ctx context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.conventions[id], nil
}

func (f *fakeCatalog) PackageStructureExists(ctx context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.structures[id], nil
}

func (f *fakeCatalog) GetCodingRule(ctx context.Context, id int64) (*catalog.CodingRule, error) {
	r, ok := f.rules[id]
	if !ok || r.Deleted {
		return nil, catalog.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeCatalog) CodingRuleExists(ctx context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	r, ok := f.rules[id]
	return ok && !r.Deleted, nil
}

func (f *fakeCatalog) CreateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	rule.ID = f.assignID()
	cp := *rule
	f.rules[rule.ID] = &cp
	return nil
}

func (f *fakeCatalog) UpdateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	if _, ok := f.rules[rule.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *rule
	f.rules[rule.ID] = &cp
	return nil
}

func (f *fakeCatalog) GetClassTemplate(ctx context.Context, id int64) (*catalog.ClassTemplate, error) {
	tmpl, ok := f.templates[id]
	if !ok || tmpl.Deleted {
		return nil, catalog.ErrNotFound
	}
	cp := *tmpl
	return &cp, nil
}

func (f *fakeCatalog) ClassTemplateExists(ctx context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	tmpl, ok := f.templates[id]
	return ok && !tmpl.Deleted, nil
}

func (f *fakeCatalog) CreateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	tmpl.ID = f.assignID()
	cp := *tmpl
	f.templates[tmpl.ID] = &cp
	return nil
}

func (f *fakeCatalog) UpdateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	if _, ok := f.templates[tmpl.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *tmpl
	f.templates[tmpl.ID] = &cp
	return nil
}

func (f *fakeCatalog) GetRuleExample(ctx context.Context, id int64) (*catalog.RuleExample, error) {
	ex, ok := f.examples[id]
	if !ok || ex.Deleted {
		return nil, catalog.ErrNotFound
	}
	cp := *ex
	return &cp, nil
}

func (f *fakeCatalog) RuleExampleExists(ctx context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	ex, ok := f.examples[id]
	return ok && !ex.Deleted, nil
}

func (f *fakeCatalog) CreateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	ex.ID = f.assignID()
	cp := *ex
	f.examples[ex.ID] = &cp
	return nil
}

func (f *fakeCatalog) UpdateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	if _, ok := f.examples[ex.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *ex
	f.examples[ex.ID] = &cp
	return nil
}

// seed helpers

func (f *fakeCatalog) seedConvention() int64 {
	id := f.assignID()
	f.conventions[id] = true
	return id
}

func (f *fakeCatalog) seedStructure() int64 {
	id := f.assignID()
	f.structures[id] = true
	return id
}

func (f *fakeCatalog) seedRule() int64 {
	id := f.assignID()
	f.rules[id] = &catalog.CodingRule{ID: id, RuleName: "seeded"}
	return id
}

func (f *fakeCatalog) seedExample() int64 {
	id := f.assignID()
	f.examples[id] = &catalog.RuleExample{ID: id, Title: "seeded"}
	return id
}

// fakeRepo is an in-memory feedback Repository with the same optimistic
// concurrency contract as the real stores.
type fakeRepo struct {
	rows   map[int64]*Queue
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]*Queue{}}
}

func (r *fakeRepo) Create(ctx context.Context, q *Queue) error {
	r.nextID++
	q.ID = r.nextID
	q.Version = 1
	cp := *q
	r.rows[q.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, q *Queue) error {
	stored, ok := r.rows[q.ID]
	if !ok {
		return &NotFoundError{ID: q.ID}
	}
	if stored.Version != q.Version {
		return ErrConcurrentModification
	}
	q.Version++
	cp := *q
	r.rows[q.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*Queue, error) {
	stored, ok := r.rows[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	cp := *stored
	return &cp, nil
}

func (r *fakeRepo) FindSlice(ctx context.Context, criteria SliceCriteria) ([]*Queue, error) {
	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []*Queue
	for _, id := range ids {
		if criteria.Cursor != nil && id >= *criteria.Cursor {
			continue
		}
		q := r.rows[id]
		if !matchesCriteria(q, criteria) {
			continue
		}
		cp := *q
		out = append(out, &cp)
		if len(out) == criteria.Size()+1 {
			break
		}
	}
	return out, nil
}

func matchesCriteria(q *Queue, c SliceCriteria) bool {
	contains := func(n int, hit func(i int) bool) bool {
		if n == 0 {
			return true
		}
		for i := 0; i < n; i++ {
			if hit(i) {
				return true
			}
		}
		return false
	}
	if !contains(len(c.Statuses), func(i int) bool { return c.Statuses[i] == q.Status }) {
		return false
	}
	outcomes := c.OutcomeStatuses()
	if !contains(len(outcomes), func(i int) bool { return outcomes[i] == q.Status }) {
		return false
	}
	if !contains(len(c.TargetTypes), func(i int) bool { return c.TargetTypes[i] == q.TargetType }) {
		return false
	}
	if !contains(len(c.FeedbackTypes), func(i int) bool { return c.FeedbackTypes[i] == q.FeedbackType }) {
		return false
	}
	return contains(len(c.RiskLevels), func(i int) bool { return c.RiskLevels[i] == q.RiskLevel })
}
