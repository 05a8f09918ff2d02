package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill-atlas/internal/domain/user"
)

type stubUserRepo struct {
	users map[uuid.UUID]user.User

	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]user.User{}}
}

func (m *stubUserRepo) CreateUser(_ context.Context, u user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID] = u
	return nil
}

func (m *stubUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *stubUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *stubUserRepo) UpdateSkills(_ context.Context, id uuid.UUID, skills user.Skills, skillPoints int) error {
	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Skills = &skills
	u.SkillPoints = skillPoints
	m.users[id] = u
	return nil
}

func (m *stubUserRepo) ListWithSkills(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Skills != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestRegister_NormalizesEmailAndHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Ada  ",
		Email:    "  Ada@Example.COM ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "ada@example.com" || u.Name != "Ada" {
		t.Fatalf("input not normalized: %+v", u)
	}
	if u.PasswordHash != "" {
		t.Fatalf("returned user must not expose the hash")
	}

	stored := repo.users[u.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc := NewService(newStubUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo)

	in := RegisterInput{Email: "a@b.c", Password: "longenough"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Login(context.Background(), LoginInput{Email: "A@B.C", Password: "longenough"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "a@b.c" || u.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "wrong password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@b.c", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
