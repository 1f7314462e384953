package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func TestRegisterAndAuthenticateUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	user, err := svc.RegisterUser(context.Background(), "Nikola Tesla", "tesla@tesla.dk", "password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", user.HashedPassword)

	authed, err := svc.AuthenticateUser(context.Background(), "tesla@tesla.dk", "password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.AuthenticateUser(context.Background(), "tesla@tesla.dk", "wrong")
	assert.Error(t, err)
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.RegisterUser(context.Background(), "Nikola Tesla", "tesla@tesla.dk", "password")
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "Impostor", "tesla@tesla.dk", "hunter2")
	assert.Error(t, err)
}

func TestRegisterUserRequiresAllFields(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.RegisterUser(context.Background(), "", "tesla@tesla.dk", "password")
	assert.Error(t, err)

	_, err = svc.RegisterUser(context.Background(), "Nikola Tesla", "", "password")
	assert.Error(t, err)

	_, err = svc.RegisterUser(context.Background(), "Nikola Tesla", "tesla@tesla.dk", "")
	assert.Error(t, err)
}
