package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"nishtha/internal/cache"
	"nishtha/internal/model"
)

var errStore = errors.New("store unavailable")

// fakeGenerator decodes a canned response into out and records each call
type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	models   []string
	prompts  [][]Part
}

func (g *fakeGenerator) GenerateJSON(ctx context.Context, modelName string, out interface{}, parts ...Part) error {
	g.mu.Lock()
	g.models = append(g.models, modelName)
	g.prompts = append(g.prompts, parts)
	g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.response), out)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.models)
}

type memCourses struct {
	byURL map[string]*model.Course
	err   error
	saves int
}

func newMemCourses() *memCourses { return &memCourses{byURL: map[string]*model.Course{}} }

func (r *memCourses) Save(ctx context.Context, c *model.Course) error {
	if r.err != nil {
		return r.err
	}
	if c.ID == "" {
		c.ID = "course-" + c.VideoID
	}
	r.saves++
	cp := *c
	r.byURL[c.VideoURL] = &cp
	return nil
}

func (r *memCourses) GetByVideoURL(ctx context.Context, url string) (*model.Course, error) {
	return r.byURL[url], r.err
}

func (r *memCourses) GetByVideoID(ctx context.Context, id string) (*model.Course, error) {
	for _, c := range r.byURL {
		if c.VideoID == id {
			return c, r.err
		}
	}
	return nil, r.err
}

func (r *memCourses) List(ctx context.Context, limit int64) ([]model.Course, error) {
	var out []model.Course
	for _, c := range r.byURL {
		out = append(out, *c)
	}
	return out, nil
}

type memCourseCache struct {
	items map[string]*model.Course
	gets  int
}

func newMemCourseCache() *memCourseCache { return &memCourseCache{items: map[string]*model.Course{}} }

func (c *memCourseCache) Set(ctx context.Context, course *model.Course) error {
	c.items[course.VideoID] = course
	return nil
}

func (c *memCourseCache) Get(ctx context.Context, id string) (*model.Course, error) {
	c.gets++
	return c.items[id], nil
}

func (c *memCourseCache) Delete(ctx context.Context, id string) error {
	delete(c.items, id)
	return nil
}

type memLearners struct {
	mu       sync.Mutex
	learners map[string]*model.Learner
	err      error
}

func newMemLearners() *memLearners { return &memLearners{learners: map[string]*model.Learner{}} }

func (r *memLearners) AddProject(ctx context.Context, email, wallet string, p *model.VerifiedProject) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	l, ok := r.learners[email]
	if !ok {
		l = &model.Learner{ID: "learner-" + email, Email: email}
		r.learners[email] = l
	}
	if p.TransactionHash != "" {
		for _, existing := range l.VerifiedProjects {
			if existing.TransactionHash == p.TransactionHash {
				return false, nil
			}
		}
	}
	l.WalletAddress = wallet
	l.VerifiedProjects = append(l.VerifiedProjects, *p)
	return true, nil
}

func (r *memLearners) GetByEmail(ctx context.Context, email string) (*model.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.learners[email], nil
}

func (r *memLearners) FindProjectByTx(ctx context.Context, email, tx string) (*model.VerifiedProject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.learners[email]; ok {
		for i := range l.VerifiedProjects {
			if l.VerifiedProjects[i].TransactionHash == tx {
				p := l.VerifiedProjects[i]
				return &p, nil
			}
		}
	}
	return nil, nil
}

func (r *memLearners) FindProject(ctx context.Context, id string) (*model.Learner, *model.VerifiedProject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.learners {
		for i := range l.VerifiedProjects {
			if l.VerifiedProjects[i].ID == id {
				p := l.VerifiedProjects[i]
				return l, &p, nil
			}
		}
	}
	return nil, nil, nil
}

type memKeys struct {
	held     map[string]bool
	err      error
	released []string
}

func newMemKeys() *memKeys { return &memKeys{held: map[string]bool{}} }

func (k *memKeys) Claim(ctx context.Context, tx string) (bool, error) {
	if k.err != nil {
		return false, k.err
	}
	if k.held[tx] {
		return false, nil
	}
	k.held[tx] = true
	return true, nil
}

func (k *memKeys) Release(ctx context.Context, tx string) error {
	delete(k.held, tx)
	k.released = append(k.released, tx)
	return nil
}

type memLeaderboard struct {
	counts map[string]int
}

func newMemLeaderboard() *memLeaderboard { return &memLeaderboard{counts: map[string]int{}} }

func (l *memLeaderboard) IncrProofs(ctx context.Context, email string) error {
	l.counts[email]++
	return nil
}

func (l *memLeaderboard) GetTop(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	var out []cache.LeaderboardEntry
	for email, n := range l.counts {
		out = append(out, cache.LeaderboardEntry{Email: email, Proofs: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Proofs > out[j].Proofs })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (l *memLeaderboard) GetRank(ctx context.Context, email string) (int64, error) {
	return 0, nil
}

type memCompletions struct {
	sagas map[string]*model.CompletionSaga
	err   error
}

func newMemCompletions() *memCompletions {
	return &memCompletions{sagas: map[string]*model.CompletionSaga{}}
}

func (r *memCompletions) Save(ctx context.Context, saga *model.CompletionSaga) error {
	if r.err != nil {
		return r.err
	}
	cp := *saga
	cp.Steps = append([]model.StepOutcome(nil), saga.Steps...)
	r.sagas[saga.ID] = &cp
	return nil
}

func (r *memCompletions) GetByID(ctx context.Context, id string) (*model.CompletionSaga, error) {
	s, ok := r.sagas[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memCompletions) ListMinted(ctx context.Context, email string) ([]model.CompletionSaga, error) {
	var out []model.CompletionSaga
	for _, s := range r.sagas {
		if s.Email == email && s.Mint != nil && s.Mint.Success && !s.Reconciled {
			out = append(out, *s)
		}
	}
	return out, nil
}

type memSessionCache struct {
	mu    sync.Mutex
	items map[string]model.PlayerSession
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{items: map[string]model.PlayerSession{}}
}

func (c *memSessionCache) Set(ctx context.Context, s *model.PlayerSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[s.ID] = *s
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, id string) (*model.PlayerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memSessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

func (c *memSessionCache) ListByLearner(ctx context.Context, email string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id, s := range c.items {
		if s.Email == email {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type sentMessage struct {
	session string
	kind    string
	payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	sent   []sentMessage
	closed []string
}

func (b *recordingBroadcaster) SendToSession(id, kind string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{id, kind, payload})
}

func (b *recordingBroadcaster) CloseSession(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, id)
}

func (b *recordingBroadcaster) kinds() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sent))
	for i, m := range b.sent {
		out[i] = m.kind
	}
	return out
}

var planCourse = model.Course{
	ID:          "course-1",
	VideoURL:    "https://www.youtube.com/watch?v=abc123",
	VideoID:     "abc123",
	CourseTitle: "Express Basics",
	Modules: []model.Module{
		{Name: "Intro", StartTime: 0, EndTime: 90, QuizData: []model.QuizQuestion{
			{Question: "Q", Options: []string{"A", "B", "C", "D"}, Answer: "A"},
		}},
		{Name: "Routing", StartTime: 90, EndTime: 200},
	},
}
