package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/models"
	"github.com/skillswap/skillswap/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.Message{}))
	return store.New(db)
}

func seedUser(t *testing.T, s *store.Store, name string, teach, learn models.SkillList) *models.User {
	t.Helper()
	u := &models.User{
		ID:            uuid.New(),
		Email:         fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash:  "x",
		DisplayName:   name,
		SkillsToTeach: teach,
		SkillsToLearn: learn,
		Availability:  models.Availability{},
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
