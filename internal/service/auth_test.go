package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"mdnotes/internal/service"
	"mdnotes/internal/storage"
	"mdnotes/internal/storage/mocks"
)

func TestAuth_Signup(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		mockSetup func(*mocks.MockUserStore)
		wantErr   error
		wantVal   bool
	}{
		{
			name:     "success",
			email:    "User@Example.com",
			password: "longenough",
			mockSetup: func(m *mocks.MockUserStore) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *storage.UserRecord) error {
						if u.Email != "user@example.com" {
							t.Errorf("Create() email = %q, want normalized", u.Email)
						}
						if u.PasswordHash == "longenough" {
							t.Error("Create() stored the plaintext password")
						}
						u.ID = "u1"
						return nil
					})
			},
		},
		{
			name:      "invalid email",
			email:     "nope",
			password:  "longenough",
			mockSetup: func(m *mocks.MockUserStore) {},
			wantVal:   true,
		},
		{
			name:      "short password",
			email:     "a@b.com",
			password:  "short",
			mockSetup: func(m *mocks.MockUserStore) {},
			wantVal:   true,
		},
		{
			name:     "duplicate email",
			email:    "a@b.com",
			password: "longenough",
			mockSetup: func(m *mocks.MockUserStore) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(storage.ErrDuplicate)
			},
			wantErr: service.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := mocks.NewMockUserStore(ctrl)
			sessions := mocks.NewMockSessionStore(ctrl)
			tt.mockSetup(users)

			auth := service.NewAuth(users, sessions, time.Hour, bcrypt.MinCost)
			user, err := auth.Signup(context.Background(), tt.email, tt.password)

			if tt.wantVal {
				var valErr *service.ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("Signup() error = %v, want ValidationError", err)
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Signup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signup() unexpected error: %v", err)
			}
			if user.ID != "u1" || user.Email != "user@example.com" {
				t.Errorf("Signup() = %+v", user)
			}
		})
	}
}

func TestAuth_LoginAndAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	record := &storage.UserRecord{ID: "u1", Email: "a@b.com", PasswordHash: string(hash)}

	users := mocks.NewMockUserStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	auth := service.NewAuth(users, sessions, time.Hour, bcrypt.MinCost)
	ctx := context.Background()

	users.EXPECT().GetByEmail(ctx, "a@b.com").Return(record, nil)
	sessions.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *storage.SessionRecord) error {
			s.Token = "tok-1"
			return nil
		})

	session, err := auth.Login(ctx, "a@b.com", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Token != "tok-1" || session.UserID != "u1" {
		t.Errorf("Login() = %+v", session)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Errorf("Login() expiry %v is not in the future", session.ExpiresAt)
	}

	sessions.EXPECT().GetByToken(ctx, "tok-1").Return(&storage.SessionRecord{
		Token:     "tok-1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.EXPECT().GetByID(ctx, "u1").Return(record, nil)

	user, err := auth.Authenticate(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Authenticate() user = %+v", user)
	}
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	users := mocks.NewMockUserStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	users.EXPECT().
		GetByEmail(gomock.Any(), "a@b.com").
		Return(&storage.UserRecord{ID: "u1", Email: "a@b.com", PasswordHash: string(hash)}, nil)

	auth := service.NewAuth(users, sessions, time.Hour, bcrypt.MinCost)
	_, err := auth.Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestAuth_LoginUnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	users.EXPECT().
		GetByEmail(gomock.Any(), "ghost@b.com").
		Return(nil, storage.ErrNotFound)

	auth := service.NewAuth(users, sessions, time.Hour, bcrypt.MinCost)
	_, err := auth.Login(context.Background(), "ghost@b.com", "whatever")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestAuth_AuthenticateExpiredSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().GetByToken(gomock.Any(), "old").Return(&storage.SessionRecord{
		Token:     "old",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	sessions.EXPECT().Delete(gomock.Any(), "old").Return(nil)

	auth := service.NewAuth(users, sessions, time.Hour, bcrypt.MinCost)
	_, err := auth.Authenticate(context.Background(), "old")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("Authenticate() error = %v, want ErrUnauthorized", err)
	}
}

func TestAuth_AuthenticateEmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := service.NewAuth(mocks.NewMockUserStore(ctrl), mocks.NewMockSessionStore(ctrl), time.Hour, bcrypt.MinCost)
	if _, err := auth.Authenticate(context.Background(), ""); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("Authenticate(\"\") error = %v, want ErrUnauthorized", err)
	}
}
