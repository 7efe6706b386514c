package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/showcase/internal/models"
)

type mockUserRepo struct {
	CreateUserFunc func(ctx context.Context, u models.User) error
	GetUserFunc    func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u models.User) error {
	return m.CreateUserFunc(ctx, u)
}

func (m *mockUserRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	return m.GetUserFunc(ctx, username)
}

type mockConnections struct {
	ConnectionsForUserFunc func(ctx context.Context, userID string) ([]models.Connection, error)
}

func (m *mockConnections) ConnectionsForUser(ctx context.Context, userID string) ([]models.Connection, error) {
	return m.ConnectionsForUserFunc(ctx, userID)
}

func newTestUserService(repo UserRepository, conns ConnectionLister) *UserService {
	svc := NewUserService(repo, conns)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestCreateUser_HashesPassword(t *testing.T) {
	var stored models.User
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			stored = u
			return nil
		},
	}
	svc := newTestUserService(repo, nil)

	err := svc.CreateUser(context.Background(), models.User{Username: "alice", FirstName: "Alice", LastName: "A"}, "p")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if stored.Username != "alice" || stored.FirstName != "Alice" || stored.LastName != "A" {
		t.Errorf("CreateUser stored %+v", stored)
	}
	if err := bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("p")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			return models.ErrUsernameAlreadyInUse
		},
	}
	svc := newTestUserService(repo, nil)

	err := svc.CreateUser(context.Background(), models.User{Username: "bob"}, "secret")
	if !errors.Is(err, models.ErrUsernameAlreadyInUse) {
		t.Fatalf("CreateUser error = %v; want %v", err, models.ErrUsernameAlreadyInUse)
	}
}

func TestCreateUser_PasswordTooLong(t *testing.T) {
	called := false
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			called = true
			return nil
		},
	}
	svc := newTestUserService(repo, nil)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'x'
	}
	if err := svc.CreateUser(context.Background(), models.User{Username: "carol"}, string(long)); err == nil {
		t.Fatal("expected hash error for 73-byte password")
	}
	if called {
		t.Error("repository must not be called when hashing fails")
	}
}

func TestGetUserAndConnections(t *testing.T) {
	repo := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username != "dave" {
				t.Errorf("GetUser received username = %q; want %q", username, "dave")
			}
			return &models.User{Username: "dave", FirstName: "Dave"}, nil
		},
	}
	conns := &mockConnections{
		ConnectionsForUserFunc: func(ctx context.Context, userID string) ([]models.Connection, error) {
			return []models.Connection{{UserID: userID, ProviderID: "twitter"}}, nil
		},
	}
	svc := newTestUserService(repo, conns)

	u, err := svc.GetUser(context.Background(), "dave")
	if err != nil || u.FirstName != "Dave" {
		t.Fatalf("GetUser = %+v, %v", u, err)
	}
	got, err := svc.Connections(context.Background(), "dave")
	if err != nil {
		t.Fatalf("Connections returned error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "dave" {
		t.Errorf("Connections = %+v", got)
	}
}
