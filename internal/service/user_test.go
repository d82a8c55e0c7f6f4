package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Payphone-Digital/accounts/internal/dto"
	apperrors "github.com/Payphone-Digital/accounts/internal/errors"
	"github.com/Payphone-Digital/accounts/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the gorm repositories. It
// mirrors their contract: gorm sentinel errors, duplicate-key errors
// on the unique email column, FK cascades on user delete.
type memStore struct {
	users   map[uint]*model.User
	details map[uint]*model.UserDetails
	tokens  map[string]*model.AuthToken

	nextUserID  uint
	nextTokenID uint

	createErr  error  // forced error for Create
	deleteRows *int64 // forced row count for Delete
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uint]*model.User),
		details: make(map[uint]*model.UserDetails),
		tokens:  make(map[string]*model.AuthToken),
	}
}

func (m *memStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ListWithDetails(_ context.Context) ([]model.User, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user := *m.users[id]
		if details, ok := m.details[id]; ok {
			copied := *details
			user.Details = &copied
		}
		users = append(users, user)
	}
	return users, nil
}

func (m *memStore) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) Update(_ context.Context, user *model.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for id, other := range m.users {
		if id != user.ID && other.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Email = user.Email
	existing.Password = user.Password
	existing.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint) (int64, error) {
	if m.deleteRows != nil {
		return *m.deleteRows, nil
	}
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	delete(m.details, id)
	for digest, token := range m.tokens {
		if token.UserID == id {
			delete(m.tokens, digest)
		}
	}
	return 1, nil
}

func (m *memStore) Upsert(_ context.Context, userID uint, address string) (*model.UserDetails, error) {
	details, ok := m.details[userID]
	if !ok {
		details = &model.UserDetails{
			ID:        userID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		m.details[userID] = details
	}
	details.Address = address
	details.UpdatedAt = time.Now()
	copied := *details
	return &copied, nil
}

func (m *memStore) DeleteByUserID(_ context.Context, userID uint) error {
	delete(m.details, userID)
	return nil
}

func (m *memStore) CreateToken(_ context.Context, token *model.AuthToken) error {
	m.nextTokenID++
	token.ID = m.nextTokenID
	token.CreatedAt = time.Now()
	copied := *token
	m.tokens[token.TokenDigest] = &copied
	return nil
}

func (m *memStore) GetByDigest(_ context.Context, digest string) (*model.AuthToken, error) {
	token, ok := m.tokens[digest]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (m *memStore) Touch(_ context.Context, id uint) error {
	for _, token := range m.tokens {
		if token.ID == id {
			now := time.Now()
			token.LastUsedAt = &now
		}
	}
	return nil
}

// tokenStoreAdapter lets memStore satisfy TokenStore without the
// Create name colliding with UserStore's Create.
type tokenStoreAdapter struct{ *memStore }

func (a tokenStoreAdapter) Create(ctx context.Context, token *model.AuthToken) error {
	return a.CreateToken(ctx, token)
}

func newUserService(store *memStore) *UserService {
	return NewUserService(store, store, NewTokenService(tokenStoreAdapter{store}))
}

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, store *memStore, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	user := &model.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  string(hash),
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("without address", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)

		res, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "Ada@Example.com",
			Password:  "password",
		})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if res.Email != "ada@example.com" {
			t.Errorf("Expected normalized email ada@example.com, got %s", res.Email)
		}
		if res.Address != nil {
			t.Errorf("Expected no address, got %q", *res.Address)
		}

		stored := store.users[res.ID]
		if stored == nil {
			t.Fatal("Expected user to be persisted")
		}
		if stored.Password == "password" {
			t.Error("Password stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password")); err != nil {
			t.Errorf("Stored hash does not verify against password: %v", err)
		}
	})

	t.Run("with address", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)

		res, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "password",
			Address:   strPtr("12 Crescent Rd"),
		})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if res.Address == nil || *res.Address != "12 Crescent Rd" {
			t.Fatalf("Expected address in response, got %v", res.Address)
		}

		details := store.details[res.ID]
		if details == nil || details.Address != "12 Crescent Rd" {
			t.Errorf("Expected details row with address, got %+v", details)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		seedUser(t, store, "taken@example.com", "password")

		_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "taken@example.com",
			Password:  "password",
		})
		if !errors.Is(err, apperrors.ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("duplicate key race from store", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		store.createErr = gorm.ErrDuplicatedKey

		_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "password",
		})
		if !errors.Is(err, apperrors.ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists from duplicate key, got %v", err)
		}
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	fullReq := func(email string, address *string) *dto.UpdateUserRequest {
		return &dto.UpdateUserRequest{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     email,
			Password:  "updated",
			Address:   address,
		}
	}

	t.Run("unknown user", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)

		_, err := svc.UpdateUser(ctx, 42, fullReq("grace@example.com", nil))
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("email taken by another user", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		seedUser(t, store, "first@example.com", "password")
		second := seedUser(t, store, "second@example.com", "password")

		_, err := svc.UpdateUser(ctx, second.ID, fullReq("first@example.com", nil))
		if !errors.Is(err, apperrors.ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("own email unchanged succeeds", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "keep@example.com", "password")

		res, err := svc.UpdateUser(ctx, user.ID, fullReq("keep@example.com", nil))
		if err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}
		if res.Email != "keep@example.com" {
			t.Errorf("Expected email keep@example.com, got %s", res.Email)
		}
	})

	t.Run("password rehashed on every update", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "hash@example.com", "password")
		oldHash := store.users[user.ID].Password

		if _, err := svc.UpdateUser(ctx, user.ID, fullReq("hash@example.com", nil)); err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}

		newHash := store.users[user.ID].Password
		if newHash == oldHash {
			t.Error("Expected password hash to change")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(newHash), []byte("updated")); err != nil {
			t.Errorf("New hash does not verify against new password: %v", err)
		}
	})

	t.Run("address upserted when supplied", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "addr@example.com", "password")
		if _, err := store.Upsert(ctx, user.ID, "old address"); err != nil {
			t.Fatalf("failed to seed details: %v", err)
		}

		res, err := svc.UpdateUser(ctx, user.ID, fullReq("addr@example.com", strPtr("new address")))
		if err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}
		if store.details[user.ID] == nil || store.details[user.ID].Address != "new address" {
			t.Errorf("Expected details upserted to new address, got %+v", store.details[user.ID])
		}
		// The update payload never carries the details relation.
		if res.Address != nil {
			t.Errorf("Expected no address in update response, got %q", *res.Address)
		}
	})

	t.Run("address cleared when omitted", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "clear@example.com", "password")
		if _, err := store.Upsert(ctx, user.ID, "to be removed"); err != nil {
			t.Fatalf("failed to seed details: %v", err)
		}

		if _, err := svc.UpdateUser(ctx, user.ID, fullReq("clear@example.com", nil)); err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}
		if store.details[user.ID] != nil {
			t.Errorf("Expected details row removed, got %+v", store.details[user.ID])
		}
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)

		err := svc.DeleteUser(ctx, 7)
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("removes user and dependents", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "gone@example.com", "password")
		if _, err := store.Upsert(ctx, user.ID, "somewhere"); err != nil {
			t.Fatalf("failed to seed details: %v", err)
		}
		if _, err := svc.Authenticate(ctx, &dto.AuthenticateRequest{
			Email:     "gone@example.com",
			Password:  "password",
			TokenName: "tests",
		}); err != nil {
			t.Fatalf("failed to mint fixture token: %v", err)
		}

		if err := svc.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("DeleteUser returned error: %v", err)
		}
		if _, ok := store.users[user.ID]; ok {
			t.Error("Expected user row removed")
		}
		if _, ok := store.details[user.ID]; ok {
			t.Error("Expected details row removed with user")
		}
		if len(store.tokens) != 0 {
			t.Errorf("Expected tokens removed with user, %d left", len(store.tokens))
		}
	})

	t.Run("storage reports zero rows", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "stuck@example.com", "password")
		zero := int64(0)
		store.deleteRows = &zero

		err := svc.DeleteUser(ctx, user.ID)
		if !errors.Is(err, apperrors.ErrDeleteFailed) {
			t.Errorf("Expected ErrDeleteFailed, got %v", err)
		}
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newUserService(store)

	withDetails := seedUser(t, store, "housed@example.com", "password")
	if _, err := store.Upsert(ctx, withDetails.ID, "1 Main St"); err != nil {
		t.Fatalf("failed to seed details: %v", err)
	}
	seedUser(t, store, "bare@example.com", "password")

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}

	byEmail := make(map[string]dto.UserResponse, len(users))
	for _, user := range users {
		byEmail[user.Email] = user
	}

	housed := byEmail["housed@example.com"]
	if housed.Address == nil || *housed.Address != "1 Main St" {
		t.Errorf("Expected address for housed user, got %v", housed.Address)
	}
	bare := byEmail["bare@example.com"]
	if bare.Address != nil {
		t.Errorf("Expected no address for bare user, got %q", *bare.Address)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)

		_, err := svc.Authenticate(ctx, &dto.AuthenticateRequest{
			Email:     "nobody@example.com",
			Password:  "password",
			TokenName: "tests",
		})
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("incorrect password", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		seedUser(t, store, "locked@example.com", "password")

		_, err := svc.Authenticate(ctx, &dto.AuthenticateRequest{
			Email:     "locked@example.com",
			Password:  "wrong",
			TokenName: "tests",
		})
		if !errors.Is(err, apperrors.ErrIncorrectPassword) {
			t.Errorf("Expected ErrIncorrectPassword, got %v", err)
		}
	})

	t.Run("mints a named token", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		user := seedUser(t, store, "in@example.com", "password")

		token, err := svc.Authenticate(ctx, &dto.AuthenticateRequest{
			Email:     "in@example.com",
			Password:  "password",
			TokenName: "cli",
		})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if token == "" {
			t.Fatal("Expected non-empty token")
		}

		if len(store.tokens) != 1 {
			t.Fatalf("Expected 1 stored token, got %d", len(store.tokens))
		}
		for digest, stored := range store.tokens {
			if digest == token {
				t.Error("Token stored in plaintext")
			}
			if stored.Name != "cli" {
				t.Errorf("Expected token name cli, got %s", stored.Name)
			}
			if stored.UserID != user.ID {
				t.Errorf("Expected token bound to user %d, got %d", user.ID, stored.UserID)
			}
		}
	})

	t.Run("repeated authentication mints additional tokens", func(t *testing.T) {
		store := newMemStore()
		svc := newUserService(store)
		seedUser(t, store, "again@example.com", "password")

		req := &dto.AuthenticateRequest{
			Email:     "again@example.com",
			Password:  "password",
			TokenName: "tests",
		}
		first, err := svc.Authenticate(ctx, req)
		if err != nil {
			t.Fatalf("first Authenticate returned error: %v", err)
		}
		second, err := svc.Authenticate(ctx, req)
		if err != nil {
			t.Fatalf("second Authenticate returned error: %v", err)
		}
		if first == second {
			t.Error("Expected distinct tokens per authentication")
		}
		if len(store.tokens) != 2 {
			t.Errorf("Expected 2 stored tokens, got %d", len(store.tokens))
		}
	})
}
