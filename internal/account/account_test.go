package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/carematch/internal/account"
	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/repository/sqlite"
	"github.com/garnizeh/carematch/internal/repository/sqlite/sqlitetest"
	"github.com/garnizeh/carematch/pkg/models"
	"github.com/garnizeh/carematch/pkg/repository/mock"
	"golang.org/x/crypto/bcrypt"
)

func strp(s string) *string { return &s }

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(auth.TokenConfig{Secret: "test-secret", Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func newHasher(t *testing.T) *auth.Hasher {
	t.Helper()
	h, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return h
}

func newSQLiteService(t *testing.T) (*account.Service, *sqlite.SQLiteRepo, *auth.Codec) {
	t.Helper()
	_, repo := sqlitetest.Open(t)
	codec := newCodec(t)
	svc := account.NewService(account.Deps{
		Accounts:   repo,
		Caregivers: repo,
		Members:    repo,
		Addresses:  repo,
		Tx:         repo,
		Hasher:     newHasher(t),
		Tokens:     codec,
	})
	return svc, repo, codec
}

func newMockService(t *testing.T) (*account.Service, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	svc := account.NewService(account.Deps{
		Accounts:   store,
		Caregivers: store,
		Members:    store,
		Addresses:  store,
		Tx:         store,
		Hasher:     newHasher(t),
		Tokens:     newCodec(t),
	})
	return svc, store
}

func caregiverInput(email string) account.CaregiverRegistration {
	rate := 20.0
	return account.CaregiverRegistration{
		AccountInput: account.AccountInput{
			Email:       email,
			GivenName:   "Carla",
			Surname:     "Gomes",
			PhoneNumber: strp("+351 912 345 678"),
			Password:    "secret1",
		},
		CaregivingType: strp("babysitter"),
		HourlyRate:     &rate,
	}
}

func memberInput(email string) account.MemberRegistration {
	return account.MemberRegistration{
		AccountInput: account.AccountInput{
			Email:     email,
			GivenName: "Miguel",
			Surname:   "Sousa",
			Password:  "secret1",
		},
		HouseRules: strp("<b>No</b> shoes inside"),
	}
}

func TestRegisterCaregiver(t *testing.T) {
	svc, repo, _ := newSQLiteService(t)
	ctx := context.Background()

	p, err := svc.RegisterCaregiver(ctx, caregiverInput("carla@example.com"))
	if err != nil {
		t.Fatalf("RegisterCaregiver: %v", err)
	}
	if p.Role != models.RoleCaregiver || p.Email != "carla@example.com" || p.UserID == 0 {
		t.Fatalf("unexpected profile: %#v", p)
	}

	c, _ := repo.GetCaregiver(ctx, p.UserID)
	if c == nil || c.CaregivingType == nil || *c.CaregivingType != "babysitter" {
		t.Fatalf("caregiver profile not stored: %#v", c)
	}
	a, _ := repo.GetAccountByID(ctx, p.UserID)
	if a.PasswordHash == "" || a.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestRegister_DuplicateEmailAndShortPassword(t *testing.T) {
	svc, _, _ := newSQLiteService(t)
	ctx := context.Background()

	if _, err := svc.RegisterMember(ctx, memberInput("dup@example.com")); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := svc.RegisterCaregiver(ctx, caregiverInput("dup@example.com"))
	if !errors.Is(err, apperr.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	in := memberInput("new@example.com")
	in.Password = "12345"
	_, err = svc.RegisterMember(ctx, in)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Fields["password"] == "" {
		t.Fatalf("expected password ValidationError, got %v", err)
	}
}

func TestRegister_ValidationBeforeWrite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*account.CaregiverRegistration)
		field  string
	}{
		{"bad phone", func(r *account.CaregiverRegistration) { r.PhoneNumber = strp("555-0100") }, "phone_number"},
		{"bad email", func(r *account.CaregiverRegistration) { r.Email = "nope" }, "email"},
		{"blank name", func(r *account.CaregiverRegistration) { r.GivenName = "  " }, "given_name"},
		{"padded password", func(r *account.CaregiverRegistration) { r.Password = " secret1 " }, "password"},
		{"negative rate", func(r *account.CaregiverRegistration) {
			rate := -3.0
			r.HourlyRate = &rate
		}, "hourly_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newMockService(t)
			in := caregiverInput("c@example.com")
			tt.mutate(&in)

			_, err := svc.RegisterCaregiver(context.Background(), in)
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("expected field %q, got %v", tt.field, verr.Fields)
			}
			if len(store.Accounts) != 0 {
				t.Fatalf("nothing should be written on validation failure")
			}
		})
	}
}

func TestRegisterMember_AddressAlwaysCreated(t *testing.T) {
	svc, repo, _ := newSQLiteService(t)
	ctx := context.Background()

	full := memberInput("full@example.com")
	full.HouseNumber = strp("12B")
	full.Street = strp("Rua Augusta")
	full.Town = strp("Lisboa")
	p, err := svc.RegisterMember(ctx, full)
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	addr, _ := repo.GetAddress(ctx, p.UserID)
	if addr == nil || *addr.HouseNumber != "12B" || *addr.Street != "Rua Augusta" || *addr.Town != "Lisboa" {
		t.Fatalf("address not stored verbatim: %#v", addr)
	}

	bare, err := svc.RegisterMember(ctx, memberInput("bare@example.com"))
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	addr, _ = repo.GetAddress(ctx, bare.UserID)
	if addr == nil {
		t.Fatalf("address record must exist even without address fields")
	}
	if addr.HouseNumber != nil || addr.Street != nil || addr.Town != nil {
		t.Fatalf("expected empty address, got %#v", addr)
	}

	m, _ := repo.GetMember(ctx, bare.UserID)
	if m.HouseRules == nil || *m.HouseRules != "No shoes inside" {
		t.Fatalf("house rules should be stripped of markup, got %v", m.HouseRules)
	}
}

func TestRegister_Atomic(t *testing.T) {
	boom := errors.New("disk full")

	t.Run("member profile fails", func(t *testing.T) {
		svc, store := newMockService(t)
		store.CreateMemberErr = boom
		_, err := svc.RegisterMember(context.Background(), memberInput("m@example.com"))
		if !errors.Is(err, apperr.ErrStorage) || !errors.Is(err, boom) {
			t.Fatalf("expected storage error wrapping cause, got %v", err)
		}
		if len(store.Accounts) != 0 {
			t.Fatalf("account must be rolled back, have %d", len(store.Accounts))
		}
	})

	t.Run("address fails", func(t *testing.T) {
		svc, store := newMockService(t)
		store.CreateAddressErr = boom
		if _, err := svc.RegisterMember(context.Background(), memberInput("m@example.com")); err == nil {
			t.Fatalf("expected error")
		}
		if len(store.Accounts) != 0 || len(store.Members) != 0 {
			t.Fatalf("account and member must be rolled back")
		}
	})

	t.Run("caregiver profile fails", func(t *testing.T) {
		svc, store := newMockService(t)
		store.CreateCaregiverErr = boom
		if _, err := svc.RegisterCaregiver(context.Background(), caregiverInput("c@example.com")); err == nil {
			t.Fatalf("expected error")
		}
		if len(store.Accounts) != 0 {
			t.Fatalf("account must be rolled back")
		}
	})

	t.Run("sqlite rollback", func(t *testing.T) {
		_, repo := sqlitetest.Open(t)
		store := mock.NewStore()
		store.CreateAddressErr = boom
		svc := account.NewService(account.Deps{
			Accounts: repo, Caregivers: repo, Members: repo, Addresses: store, Tx: repo,
			Hasher: newHasher(t), Tokens: newCodec(t),
		})
		if _, err := svc.RegisterMember(context.Background(), memberInput("m@example.com")); err == nil {
			t.Fatalf("expected error")
		}
		if a, _ := repo.GetAccountByEmail(context.Background(), "m@example.com"); a != nil {
			t.Fatalf("account must be rolled back in the database")
		}
	})
}

func TestLogin(t *testing.T) {
	svc, repo, codec := newSQLiteService(t)
	ctx := context.Background()

	p, err := svc.RegisterMember(ctx, memberInput("m@example.com"))
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}

	sess, err := svc.Login(ctx, "m@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.TokenType != "bearer" || sess.Role != models.RoleMember || sess.UserID != p.UserID {
		t.Fatalf("unexpected session: %#v", sess)
	}
	claims, err := codec.Verify(sess.AccessToken)
	if err != nil || claims.Subject != "m@example.com" || claims.Role != models.RoleMember {
		t.Fatalf("session token: %#v, %v", claims, err)
	}

	// trailing whitespace in the candidate is ignored
	if _, err := svc.Login(ctx, "m@example.com", "secret1 "); err != nil {
		t.Fatalf("Login with padded password: %v", err)
	}

	// an account without a role profile cannot log in
	hash, _ := newHasher(t).Hash("secret1")
	if _, err := repo.CreateAccount(ctx, &models.Account{Email: "orphan@example.com", GivenName: "O", Surname: "R", PasswordHash: hash}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	for name, creds := range map[string][2]string{
		"wrong password": {"m@example.com", "secret2"},
		"unknown email":  {"ghost@example.com", "secret1"},
		"email case":     {"M@example.com", "secret1"},
		"no profile":     {"orphan@example.com", "secret1"},
	} {
		_, err := svc.Login(ctx, creds[0], creds[1])
		if err != apperr.ErrInvalidCredentials {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestLogin_SessionLifetime(t *testing.T) {
	store := mock.NewStore()
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	now := start
	codec, err := auth.NewCodec(auth.TokenConfig{Secret: "s", Algorithm: "HS256"}, auth.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	svc := account.NewService(account.Deps{
		Accounts: store, Caregivers: store, Members: store, Addresses: store, Tx: store,
		Hasher: newHasher(t), Tokens: codec,
	})
	if _, err := svc.RegisterCaregiver(context.Background(), caregiverInput("c@example.com")); err != nil {
		t.Fatalf("RegisterCaregiver: %v", err)
	}

	sess, err := svc.Login(context.Background(), "c@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	now = start.Add(20 * time.Minute)
	if _, err := codec.Verify(sess.AccessToken); err != nil {
		t.Fatalf("session should outlive the 15m default: %v", err)
	}
	now = start.Add(30 * time.Minute)
	if _, err := codec.Verify(sess.AccessToken); err == nil {
		t.Fatalf("session should expire after 30m")
	}
}

func TestLogin_CorruptHash(t *testing.T) {
	svc, store := newMockService(t)
	ctx := context.Background()
	id, _ := store.CreateAccount(ctx, &models.Account{Email: "x@example.com", PasswordHash: "garbage"})
	_ = store.CreateMember(ctx, &models.Member{AccountID: id})

	_, err := svc.Login(ctx, "x@example.com", "secret1")
	if !errors.Is(err, apperr.ErrCredentialFormat) {
		t.Fatalf("expected ErrCredentialFormat, got %v", err)
	}
	if apperr.HTTPStatus(err) != 500 {
		t.Fatalf("corrupt hash is an internal fault, got %d", apperr.HTTPStatus(err))
	}
}

func TestProfileUpdateDelete(t *testing.T) {
	svc, repo, _ := newSQLiteService(t)
	ctx := context.Background()

	p, _ := svc.RegisterCaregiver(ctx, caregiverInput("c@example.com"))
	a, _ := repo.GetAccountByID(ctx, p.UserID)

	got, err := svc.Profile(ctx, a)
	if err != nil || got.Role != models.RoleCaregiver {
		t.Fatalf("Profile: %#v, %v", got, err)
	}

	updated, err := svc.UpdateAccount(ctx, a, account.AccountPatch{
		City:               strp("Porto"),
		ProfileDescription: strp("<i>Experienced</i>"),
	})
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if updated.City == nil || *updated.City != "Porto" || *updated.ProfileDescription != "Experienced" || updated.GivenName != "Carla" {
		t.Fatalf("unexpected update: %#v", updated)
	}

	if _, err := svc.UpdateAccount(ctx, a, account.AccountPatch{PhoneNumber: strp("call me")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.DeleteAccount(ctx, a); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if c, _ := repo.GetCaregiver(ctx, a.ID); c != nil {
		t.Fatalf("caregiver profile should cascade away")
	}
	if _, err := svc.Login(ctx, "c@example.com", "secret1"); err != apperr.ErrInvalidCredentials {
		t.Fatalf("deleted account must not log in, got %v", err)
	}
}

// txAwareHasher records whether Hash was called while the store had a
// transaction open.
type txAwareHasher struct {
	*auth.Hasher
	store      *mock.Store
	calls      int
	calledInTx bool
}

func (h *txAwareHasher) Hash(password string) (string, error) {
	h.calls++
	if h.store.InTx() {
		h.calledInTx = true
	}
	return h.Hasher.Hash(password)
}

func TestRegistration_HashesOutsideTransaction(t *testing.T) {
	store := mock.NewStore()
	hasher := &txAwareHasher{Hasher: newHasher(t), store: store}
	svc := account.NewService(account.Deps{
		Accounts: store, Caregivers: store, Members: store, Addresses: store, Tx: store,
		Hasher: hasher, Tokens: newCodec(t),
	})
	ctx := context.Background()

	if _, err := svc.RegisterCaregiver(ctx, caregiverInput("c@example.com")); err != nil {
		t.Fatalf("RegisterCaregiver: %v", err)
	}
	if _, err := svc.RegisterMember(ctx, memberInput("m@example.com")); err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	if hasher.calls != 2 || hasher.calledInTx {
		t.Fatalf("calls = %d, calledInTx = %v", hasher.calls, hasher.calledInTx)
	}
	if _, err := svc.Login(ctx, "m@example.com", "secret1"); err != nil {
		t.Fatalf("stored hash must verify: %v", err)
	}
}
