package service

import (
	"context"
	"sort"
	"strings"

	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

// memStore is a shared in-memory backing for the program and client stub
// repositories so cross-entity behavior (delete cascade, membership
// resolution) can be exercised without Mongo.
type memStore struct {
	programs      map[int64]domain.Program
	clients       map[int64]*clientRec
	nextProgramID int64
	nextClientID  int64
}

type clientRec struct {
	id          int64
	name        string
	dateOfBirth string
	contactInfo string
	programIDs  []int64
}

func newMemStore() *memStore {
	return &memStore{
		programs: make(map[int64]domain.Program),
		clients:  make(map[int64]*clientRec),
	}
}

func (m *memStore) resolveClient(rec *clientRec) domain.Client {
	refs := make([]domain.ProgramRef, 0, len(rec.programIDs))
	for _, pid := range rec.programIDs {
		if p, ok := m.programs[pid]; ok {
			refs = append(refs, domain.ProgramRef{ID: p.ID, Name: p.Name})
		}
	}
	return domain.Client{
		ID:               rec.id,
		Name:             rec.name,
		DateOfBirth:      rec.dateOfBirth,
		ContactInfo:      rec.contactInfo,
		EnrolledPrograms: refs,
	}
}

// --- stubProgramRepo ---

type stubProgramRepo struct {
	store *memStore
}

func (r *stubProgramRepo) List(_ context.Context) ([]domain.Program, error) {
	out := make([]domain.Program, 0, len(r.store.programs))
	for _, p := range r.store.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stubProgramRepo) FindByID(_ context.Context, id int64) (*domain.Program, error) {
	p, ok := r.store.programs[id]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return &p, nil
}

func (r *stubProgramRepo) FindByName(_ context.Context, name string) (*domain.Program, error) {
	for _, p := range r.store.programs {
		if p.Name == name {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrProgramNotFound
}

func (r *stubProgramRepo) Create(_ context.Context, name string) (*domain.Program, error) {
	for _, p := range r.store.programs {
		if p.Name == name {
			return nil, domain.ErrProgramNameTaken
		}
	}
	r.store.nextProgramID++
	p := domain.Program{ID: r.store.nextProgramID, Name: name}
	r.store.programs[p.ID] = p
	return &p, nil
}

func (r *stubProgramRepo) UpdateName(_ context.Context, id int64, name string) error {
	p, ok := r.store.programs[id]
	if !ok {
		return domain.ErrProgramNotFound
	}
	p.Name = name
	r.store.programs[id] = p
	return nil
}

func (r *stubProgramRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.programs[id]; !ok {
		return domain.ErrProgramNotFound
	}
	delete(r.store.programs, id)
	for _, rec := range r.store.clients {
		kept := rec.programIDs[:0]
		for _, pid := range rec.programIDs {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		rec.programIDs = kept
	}
	return nil
}

// --- stubClientRepo ---

type stubClientRepo struct {
	store *memStore
}

func (r *stubClientRepo) List(_ context.Context) ([]domain.Client, error) {
	return r.collect(func(*clientRec) bool { return true }), nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id int64) (*domain.Client, error) {
	rec, ok := r.store.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	c := r.store.resolveClient(rec)
	return &c, nil
}

func (r *stubClientRepo) SearchByName(_ context.Context, q string) ([]domain.Client, error) {
	needle := strings.ToLower(q)
	return r.collect(func(rec *clientRec) bool {
		return strings.Contains(strings.ToLower(rec.name), needle)
	}), nil
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.store.nextClientID++
	rec := &clientRec{
		id:          r.store.nextClientID,
		name:        c.Name,
		dateOfBirth: c.DateOfBirth,
		contactInfo: c.ContactInfo,
		programIDs:  []int64{},
	}
	r.store.clients[rec.id] = rec
	created := r.store.resolveClient(rec)
	return &created, nil
}

func (r *stubClientRepo) Update(_ context.Context, id int64, upd ports.ClientUpdate) error {
	rec, ok := r.store.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	if upd.Name != nil {
		rec.name = *upd.Name
	}
	if upd.DateOfBirth != nil {
		rec.dateOfBirth = *upd.DateOfBirth
	}
	if upd.ContactInfo != nil {
		rec.contactInfo = *upd.ContactInfo
	}
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.store.clients, id)
	return nil
}

func (r *stubClientRepo) AddEnrollment(_ context.Context, clientID, programID int64) (bool, error) {
	rec, ok := r.store.clients[clientID]
	if !ok {
		return false, domain.ErrClientNotFound
	}
	for _, pid := range rec.programIDs {
		if pid == programID {
			return false, nil
		}
	}
	rec.programIDs = append(rec.programIDs, programID)
	return true, nil
}

func (r *stubClientRepo) RemoveEnrollment(_ context.Context, clientID, programID int64) error {
	rec, ok := r.store.clients[clientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	kept := rec.programIDs[:0]
	for _, pid := range rec.programIDs {
		if pid != programID {
			kept = append(kept, pid)
		}
	}
	rec.programIDs = kept
	return nil
}

func (r *stubClientRepo) collect(match func(*clientRec) bool) []domain.Client {
	out := make([]domain.Client, 0, len(r.store.clients))
	for _, rec := range r.store.clients {
		if match(rec) {
			out = append(out, r.store.resolveClient(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
