package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// Handler tests run the real services over in-memory repository stubs, so
// they exercise the full decode -> validate -> service -> response path.

type stubTxManager struct{}

func (stubTxManager) Begin(context.Context) (repositories.Transaction, error) {
	return stubTx{}, nil
}

func (stubTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, stubTx{})
}

type stubTx struct{}

func (stubTx) Commit() error            { return nil }
func (stubTx) Rollback() error          { return nil }
func (stubTx) Context() context.Context { return context.Background() }

type stubCredentialRepo struct {
	byEmail map[string]*models.Credential
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byEmail: make(map[string]*models.Credential)}
}

func (s *stubCredentialRepo) Create(_ context.Context, cred *models.Credential) error {
	s.byEmail[cred.Email] = cred
	return nil
}

func (s *stubCredentialRepo) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	if cred, ok := s.byEmail[email]; ok {
		return cred, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubCredentialRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(s.byEmail, email)
	return nil
}

type stubMarshalRepo struct {
	byID map[uuid.UUID]*models.Marshal
}

func newStubMarshalRepo(profiles ...*models.Marshal) *stubMarshalRepo {
	s := &stubMarshalRepo{byID: make(map[uuid.UUID]*models.Marshal)}
	for _, p := range profiles {
		s.byID[p.ID] = p
	}
	return s
}

func (s *stubMarshalRepo) Create(_ context.Context, m *models.Marshal) error {
	s.byID[m.ID] = m
	return nil
}

func (s *stubMarshalRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Marshal, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubMarshalRepo) GetByEmail(_ context.Context, email string) (*models.Marshal, error) {
	for _, m := range s.byID {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubMarshalRepo) List(_ context.Context, scope authz.Scope) ([]*models.Marshal, error) {
	var out []*models.Marshal
	for _, m := range s.byID {
		if !m.Approved {
			continue
		}
		if scope.Kind == authz.ScopeAll || (m.RankID != nil && scope.AllowsRank(*m.RankID)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMarshalRepo) ListPending(context.Context) ([]*models.Marshal, error) {
	var out []*models.Marshal
	for _, m := range s.byID {
		if !m.Approved {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMarshalRepo) Update(_ context.Context, m *models.Marshal) error {
	s.byID[m.ID] = m
	return nil
}

func (s *stubMarshalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubMarshalRepo) CountActiveAdmins(context.Context) (int, error) {
	count := 0
	for _, m := range s.byID {
		if m.Role == models.RoleAdmin && m.Approved && !m.Suspended {
			count++
		}
	}
	return count, nil
}

func (s *stubMarshalRepo) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if m, ok := s.byID[id]; ok {
		m.LoginCount++
		m.LastLoginAt = &at
	}
	return nil
}

type stubRankRepo struct {
	byID map[uuid.UUID]*models.TaxiRank
}

func newStubRankRepo(ranks ...*models.TaxiRank) *stubRankRepo {
	s := &stubRankRepo{byID: make(map[uuid.UUID]*models.TaxiRank)}
	for _, r := range ranks {
		s.byID[r.ID] = r
	}
	return s
}

func (s *stubRankRepo) Create(_ context.Context, rank *models.TaxiRank) error {
	s.byID[rank.ID] = rank
	return nil
}

func (s *stubRankRepo) GetByID(_ context.Context, id uuid.UUID) (*models.TaxiRank, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubRankRepo) GetByName(_ context.Context, name string) (*models.TaxiRank, error) {
	for _, r := range s.byID {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubRankRepo) List(_ context.Context, search string) ([]*models.TaxiRank, error) {
	var out []*models.TaxiRank
	for _, r := range s.byID {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRankRepo) Update(_ context.Context, rank *models.TaxiRank) error {
	s.byID[rank.ID] = rank
	return nil
}

func (s *stubRankRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

type stubActivityRepo struct {
	entries []*models.ActivityLog
}

func (s *stubActivityRepo) Insert(_ context.Context, entry *models.ActivityLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubActivityRepo) List(_ context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	return s.entries, nil
}
