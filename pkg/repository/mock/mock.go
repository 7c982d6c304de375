package mock

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
)

// Store is an in-memory implementation of the account, profile and address
// repositories plus TxRunner. RunInTx restores the previous state when fn fails,
// so it can stand in for the database in atomicity tests.
//
// The *Err fields inject failures into the matching Create call.
type Store struct {
	mu     sync.Mutex
	nextID int64

	Accounts   map[int64]*models.Account
	Caregivers map[int64]*models.Caregiver
	Members    map[int64]*models.Member
	Addresses  map[int64]*models.Address

	CreateAccountErr   error
	CreateCaregiverErr error
	CreateMemberErr    error
	CreateAddressErr   error
	GetErr             error

	inTx bool
}

func NewStore() *Store {
	return &Store{
		Accounts:   map[int64]*models.Account{},
		Caregivers: map[int64]*models.Caregiver{},
		Members:    map[int64]*models.Member{},
		Addresses:  map[int64]*models.Address{},
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	accounts, caregivers, members, addresses := maps.Clone(s.Accounts), maps.Clone(s.Caregivers), maps.Clone(s.Members), maps.Clone(s.Addresses)
	s.inTx = true
	s.mu.Unlock()

	err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	if err != nil {
		s.Accounts, s.Caregivers, s.Members, s.Addresses = accounts, caregivers, members, addresses
	}
	return err
}

// InTx reports whether a RunInTx callback is currently executing.
func (s *Store) InTx() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx
}

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateAccountErr != nil {
		return 0, s.CreateAccountErr
	}
	for _, existing := range s.Accounts {
		if existing.Email == a.Email {
			return 0, apperr.ErrEmailTaken
		}
	}
	s.nextID++
	stored := *a
	stored.ID = s.nextID
	s.Accounts[stored.ID] = &stored
	return stored.ID, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if a, ok := s.Accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	for _, a := range s.Accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Accounts[a.ID]; ok {
		cp := *a
		s.Accounts[a.ID] = &cp
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Accounts, id)
	delete(s.Caregivers, id)
	delete(s.Members, id)
	delete(s.Addresses, id)
	return nil
}

func (s *Store) CreateCaregiver(ctx context.Context, c *models.Caregiver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateCaregiverErr != nil {
		return s.CreateCaregiverErr
	}
	cp := *c
	cp.Account = nil
	s.Caregivers[c.AccountID] = &cp
	return nil
}

func (s *Store) GetCaregiver(ctx context.Context, accountID int64) (*models.Caregiver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	c, ok := s.Caregivers[accountID]
	if !ok {
		return nil, nil
	}
	cp := *c
	if a, ok := s.Accounts[accountID]; ok {
		acct := *a
		cp.Account = &acct
	}
	return &cp, nil
}

func (s *Store) ListCaregivers(ctx context.Context) ([]models.Caregiver, error) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.Caregivers))
	for id := range s.Caregivers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	out := make([]models.Caregiver, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		c, _ := s.GetCaregiver(ctx, id)
		out = append(out, *c)
	}
	return out, nil
}

func (s *Store) UpdateCaregiver(ctx context.Context, c *models.Caregiver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.Account = nil
	s.Caregivers[c.AccountID] = &cp
	return nil
}

func (s *Store) CreateMember(ctx context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateMemberErr != nil {
		return s.CreateMemberErr
	}
	cp := *m
	cp.Account = nil
	s.Members[m.AccountID] = &cp
	return nil
}

func (s *Store) GetMember(ctx context.Context, accountID int64) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	m, ok := s.Members[accountID]
	if !ok {
		return nil, nil
	}
	cp := *m
	if a, ok := s.Accounts[accountID]; ok {
		acct := *a
		cp.Account = &acct
	}
	return &cp, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.Members))
	for id := range s.Members {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	out := make([]models.Member, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		m, _ := s.GetMember(ctx, id)
		out = append(out, *m)
	}
	return out, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	cp.Account = nil
	s.Members[m.AccountID] = &cp
	return nil
}

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateAddressErr != nil {
		return s.CreateAddressErr
	}
	if _, ok := s.Addresses[a.MemberID]; ok {
		return apperr.ErrConflict
	}
	cp := *a
	s.Addresses[a.MemberID] = &cp
	return nil
}

func (s *Store) GetAddress(ctx context.Context, memberID int64) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.Addresses[memberID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.Addresses[a.MemberID] = &cp
	return nil
}
