package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/storage"
)

const testDate = "2025-07-12"

// memStore - общее in-memory хранилище для фейковых репозиториев.
type memStore struct {
	mu sync.Mutex

	nextID  int
	houses  map[int]*models.House
	teams   map[int]*models.Team
	players map[int][]models.Player
	tables  map[int]*models.PlayTable
	prefs   map[prefKey]*models.TeamTableAssignment
	matches map[int]*models.Match
	spirit  map[dateKey]*models.SpiritAssessment
	points  map[dateKey]models.HousePoints

	recalcLocks int
	// afterMatchLocked вызывается после GetByIDForUpdate без удержания mu.
	afterMatchLocked func(id int)
}

type prefKey struct {
	teamID   int
	category models.Category
}

type dateKey struct {
	houseID int
	date    string
}

func newMemStore() *memStore {
	return &memStore{
		houses:  make(map[int]*models.House),
		teams:   make(map[int]*models.Team),
		players: make(map[int][]models.Player),
		tables:  make(map[int]*models.PlayTable),
		prefs:   make(map[prefKey]*models.TeamTableAssignment),
		matches: make(map[int]*models.Match),
		spirit:  make(map[dateKey]*models.SpiritAssessment),
		points:  make(map[dateKey]models.HousePoints),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context, exec repositories.SQLExecutor) error) error {
	return fn(ctx, nil)
}

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// --- houses

type fakeHouseRepo struct{ s *memStore }

func (r fakeHouseRepo) Create(_ context.Context, _ repositories.SQLExecutor, h *models.House) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.houses {
		if existing.Name == h.Name {
			return repositories.ErrDuplicate
		}
	}
	h.ID = r.s.id()
	clone := *h
	r.s.houses[h.ID] = &clone
	return nil
}

func (r fakeHouseRepo) UpsertByName(_ context.Context, _ repositories.SQLExecutor, h *models.House) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.houses {
		if existing.Name == h.Name {
			h.ID = existing.ID
			clone := *h
			r.s.houses[h.ID] = &clone
			return nil
		}
	}
	h.ID = r.s.id()
	clone := *h
	r.s.houses[h.ID] = &clone
	return nil
}

func (r fakeHouseRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.House, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.houses[id]
	if !ok {
		return nil, repositories.ErrHouseNotFound
	}
	clone := *h
	return &clone, nil
}

func (r fakeHouseRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.House, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.House, 0, len(r.s.houses))
	for _, h := range r.s.houses {
		clone := *h
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r fakeHouseRepo) Count(_ context.Context, _ repositories.SQLExecutor) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.houses), nil
}

// --- teams

type fakeTeamRepo struct{ s *memStore }

func (r fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.houses[t.HouseID]; !ok {
		return repositories.ErrTeamHouseInvalid
	}
	t.ID = r.s.id()
	r.s.teams[t.ID] = &models.Team{ID: t.ID, HouseID: t.HouseID, MixedPair: t.MixedPair, MensPair: t.MensPair}
	return nil
}

func (r fakeTeamRepo) Update(_ context.Context, _ repositories.SQLExecutor, t *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[t.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	if _, ok := r.s.houses[t.HouseID]; !ok {
		return repositories.ErrTeamHouseInvalid
	}
	r.s.teams[t.ID] = &models.Team{ID: t.ID, HouseID: t.HouseID, MixedPair: t.MixedPair, MensPair: t.MensPair}
	return nil
}

func (r fakeTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	delete(r.s.players, id)
	// ON DELETE SET NULL
	for _, m := range r.s.matches {
		if m.Team1ID != nil && *m.Team1ID == id {
			m.Team1ID = nil
		}
		if m.Team2ID != nil && *m.Team2ID == id {
			m.Team2ID = nil
		}
	}
	return nil
}

func (r fakeTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	clone := *t
	return &clone, nil
}

func (r fakeTeamRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		clone := *t
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r fakeTeamRepo) Count(_ context.Context, _ repositories.SQLExecutor) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.teams), nil
}

func (r fakeTeamRepo) ReplacePlayers(_ context.Context, _ repositories.SQLExecutor, teamID, houseID int, players []models.Player) ([]models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	saved := make([]models.Player, 0, len(players))
	for _, p := range players {
		p.ID = r.s.id()
		p.HouseID = houseID
		saved = append(saved, p)
	}
	r.s.players[teamID] = saved
	return saved, nil
}

func (r fakeTeamRepo) ListPlayersByTeam(_ context.Context, _ repositories.SQLExecutor) (map[int][]models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int][]models.Player, len(r.s.players))
	for id, ps := range r.s.players {
		out[id] = append([]models.Player(nil), ps...)
	}
	return out, nil
}

// --- tables

type fakeTableRepo struct{ s *memStore }

func (r fakeTableRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.PlayTable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	clone := *t
	r.s.tables[t.ID] = &clone
	return nil
}

func (r fakeTableRepo) UpsertByName(_ context.Context, _ repositories.SQLExecutor, t *models.PlayTable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tables {
		if existing.Name == t.Name {
			t.ID = existing.ID
			clone := *t
			r.s.tables[t.ID] = &clone
			return nil
		}
	}
	t.ID = r.s.id()
	clone := *t
	r.s.tables[t.ID] = &clone
	return nil
}

func (r fakeTableRepo) Update(_ context.Context, _ repositories.SQLExecutor, t *models.PlayTable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tables[t.ID]; !ok {
		return repositories.ErrTableNotFound
	}
	clone := *t
	r.s.tables[t.ID] = &clone
	return nil
}

func (r fakeTableRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.PlayTable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[id]
	if !ok {
		return nil, repositories.ErrTableNotFound
	}
	clone := *t
	return &clone, nil
}

func (r fakeTableRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.PlayTable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.PlayTable, 0, len(r.s.tables))
	for _, t := range r.s.tables {
		clone := *t
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r fakeTableRepo) Count(_ context.Context, _ repositories.SQLExecutor) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.tables), nil
}

// --- team table preferences

type fakeTeamTableRepo struct{ s *memStore }

func (r fakeTeamTableRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, a *models.TeamTableAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[a.TeamID]; !ok {
		return repositories.ErrTeamTableReferenceInvalid
	}
	k := prefKey{a.TeamID, a.Category}
	if existing, ok := r.s.prefs[k]; ok {
		a.ID = existing.ID
	} else {
		a.ID = r.s.id()
	}
	clone := *a
	r.s.prefs[k] = &clone
	return nil
}

func (r fakeTeamTableRepo) Delete(_ context.Context, _ repositories.SQLExecutor, teamID int, category models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := prefKey{teamID, category}
	if _, ok := r.s.prefs[k]; !ok {
		return repositories.ErrTeamTableAssignmentNotFound
	}
	delete(r.s.prefs, k)
	return nil
}

func (r fakeTeamTableRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.TeamTableAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.TeamTableAssignment, 0, len(r.s.prefs))
	for _, a := range r.s.prefs {
		clone := *a
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r fakeTeamTableRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.prefs = make(map[prefKey]*models.TeamTableAssignment)
	return nil
}

// --- matches

type fakeMatchRepo struct{ s *memStore }

func cloneMatch(m *models.Match) *models.Match {
	clone := *m
	return &clone
}

func (r fakeMatchRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range matches {
		m.ID = r.s.id()
		m.Version = 1
		r.s.matches[m.ID] = cloneMatch(m)
	}
	return nil
}

func (r fakeMatchRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.matches))
	r.s.matches = make(map[int]*models.Match)
	return n, nil
}

func (r fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, err := r.GetByID(ctx, exec, id)
	if err == nil && r.s.afterMatchLocked != nil {
		r.s.afterMatchLocked(id)
	}
	return m, err
}

func (r fakeMatchRepo) List(_ context.Context, _ repositories.SQLExecutor, f repositories.MatchFilter) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.Match, 0, len(r.s.matches))
	for _, m := range r.s.matches {
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		if f.Category != nil && m.Category != *f.Category {
			continue
		}
		if f.TeamID != nil && !(m.Team1ID != nil && *m.Team1ID == *f.TeamID) && !(m.Team2ID != nil && *m.Team2ID == *f.TeamID) {
			continue
		}
		list = append(list, cloneMatch(m))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MatchNumber < list[j].MatchNumber })
	return list, nil
}

func (r fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Version != m.Version {
		return repositories.ErrMatchVersionConflict
	}
	if m.TableID != nil {
		if _, ok := r.s.tables[*m.TableID]; !ok {
			return repositories.ErrMatchTableInvalid
		}
	}
	m.Version++
	r.s.matches[m.ID] = cloneMatch(m)
	return nil
}

func (r fakeMatchRepo) CountByStatus(_ context.Context, _ repositories.SQLExecutor) (models.MatchCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c models.MatchCounts
	for _, m := range r.s.matches {
		c.Total++
		switch m.Status {
		case models.MatchStatusPending:
			c.Pending++
		case models.MatchStatusPlaying:
			c.Playing++
		case models.MatchStatusCompleted:
			c.Completed++
		}
	}
	return c, nil
}

func (r fakeMatchRepo) LockForRegeneration(context.Context, repositories.SQLExecutor) error {
	return nil
}

// --- spirit

type fakeSpiritRepo struct{ s *memStore }

func (r fakeSpiritRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, a *models.SpiritAssessment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.houses[a.HouseID]; !ok {
		return repositories.ErrSpiritHouseInvalid
	}
	k := dateKey{a.HouseID, a.TournamentDate}
	if existing, ok := r.s.spirit[k]; ok {
		a.ID = existing.ID
	} else {
		a.ID = r.s.id()
	}
	clone := *a
	r.s.spirit[k] = &clone
	return nil
}

func (r fakeSpiritRepo) GetByHouseAndDate(_ context.Context, _ repositories.SQLExecutor, houseID int, date string) (*models.SpiritAssessment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.spirit[dateKey{houseID, date}]
	if !ok {
		return nil, repositories.ErrSpiritAssessmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r fakeSpiritRepo) ListByDate(_ context.Context, _ repositories.SQLExecutor, date string) ([]*models.SpiritAssessment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*models.SpiritAssessment, 0)
	for k, a := range r.s.spirit {
		if k.date == date {
			clone := *a
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].HouseID < list[j].HouseID })
	return list, nil
}

func (r fakeSpiritRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.spirit = make(map[dateKey]*models.SpiritAssessment)
	return nil
}

// --- house points

type fakePointsRepo struct{ s *memStore }

func (r fakePointsRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, rows []models.HousePoints) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range rows {
		k := dateKey{rows[i].HouseID, rows[i].TournamentDate}
		if existing, ok := r.s.points[k]; ok {
			rows[i].ID = existing.ID
		} else {
			rows[i].ID = r.s.id()
		}
		r.s.points[k] = rows[i]
	}
	return nil
}

func (r fakePointsRepo) ListByDate(_ context.Context, _ repositories.SQLExecutor, date string) ([]models.HousePoints, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]models.HousePoints, 0)
	for k, hp := range r.s.points {
		if k.date == date {
			list = append(list, hp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FinalPlacement < list[j].FinalPlacement })
	return list, nil
}

func (r fakePointsRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.points = make(map[dateKey]models.HousePoints)
	return nil
}

func (r fakePointsRepo) LockRecalculation(context.Context, repositories.SQLExecutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recalcLocks++
	return nil
}

// --- uploader

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
	size int
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	u.size = len(data)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(context.Context, string) error { return nil }

func (u *fakeUploader) GetPublicURL(key string) string { return "https://files.example.test/" + key }

// --- wiring

type testEnv struct {
	store     *memStore
	publisher *recordingPublisher
	now       time.Time

	houses      HouseService
	teams       TeamService
	tables      TableService
	matches     MatchService
	fixtures    FixtureService
	standings   StandingsService
	housePoints HousePointsService
	dashboard   DashboardService
	tournament  TournamentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	pub := &recordingPublisher{}
	logger := discardLogger()
	now := time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tx := passthroughTx{}
	houseRepo := fakeHouseRepo{store}
	teamRepo := fakeTeamRepo{store}
	tableRepo := fakeTableRepo{store}
	teamTableRepo := fakeTeamTableRepo{store}
	matchRepo := fakeMatchRepo{store}
	spiritRepo := fakeSpiritRepo{store}
	pointsRepo := fakePointsRepo{store}

	hp := NewHousePointsService(tx, houseRepo, teamRepo, matchRepo, spiritRepo, pointsRepo, pub, nil, logger)
	return &testEnv{
		store:       store,
		publisher:   pub,
		now:         now,
		houses:      NewHouseService(houseRepo, logger),
		teams:       NewTeamService(tx, teamRepo, houseRepo, tableRepo, teamTableRepo, logger),
		tables:      NewTableService(tableRepo, pub, logger),
		matches:     NewMatchService(tx, matchRepo, teamRepo, houseRepo, tableRepo, hp, pub, nil, logger, clock, testDate),
		fixtures:    NewFixtureService(tx, teamRepo, teamTableRepo, matchRepo, brackets.NewRoundRobinGenerator(), hp, pub, nil, logger, testDate),
		standings:   NewStandingsService(houseRepo, teamRepo, matchRepo),
		housePoints: hp,
		dashboard:   NewDashboardService(houseRepo, teamRepo, tableRepo, matchRepo, spiritRepo, testDate),
		tournament:  NewTournamentService(tx, houseRepo, tableRepo, matchRepo, spiritRepo, pointsRepo, pub, logger),
	}
}

func (e *testEnv) mustHouse(t *testing.T, name string) *models.House {
	t.Helper()
	h, err := e.houses.CreateHouse(context.Background(), HouseInput{Name: name})
	if err != nil {
		t.Fatalf("create house %s: %v", name, err)
	}
	return h
}

func (e *testEnv) mustTeam(t *testing.T, houseID int, mixed, mens models.Pair) *models.Team {
	t.Helper()
	team, err := e.teams.CreateTeam(context.Background(), TeamInput{HouseID: houseID, MixedPair: mixed, MensPair: mens})
	if err != nil {
		t.Fatalf("create team for house %d: %v", houseID, err)
	}
	return team
}

func (e *testEnv) mustTable(t *testing.T, name string, assignment models.TableAssignment) *models.PlayTable {
	t.Helper()
	table, err := e.tables.CreateTable(context.Background(), TableInput{Name: name, AssignedCategory: assignment})
	if err != nil {
		t.Fatalf("create table %s: %v", name, err)
	}
	return table
}

func fullPairs(prefix string) (models.Pair, models.Pair) {
	return models.Pair{Player1: prefix + " Aina", Player2: prefix + " Amir"},
		models.Pair{Player1: prefix + " Hafiz", Player2: prefix + " Iqbal"}
}

// matchBetween возвращает сохраненный матч категории между двумя командами.
func (e *testEnv) matchBetween(t *testing.T, team1, team2 int, category models.Category) *models.Match {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	for _, m := range e.store.matches {
		if m.Category == category && m.Team1ID != nil && m.Team2ID != nil && *m.Team1ID == team1 && *m.Team2ID == team2 {
			return cloneMatch(m)
		}
	}
	t.Fatalf("no %s match between teams %d and %d", category, team1, team2)
	return nil
}

func repositoriesFilterAll() repositories.MatchFilter {
	return repositories.MatchFilter{}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
