package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/jaswdr/faker"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSlotsCommand(t *testing.T) {
	out, err := execute(t, "slots", "--at", "16:45")
	require.NoError(t, err)

	assert.Equal(t, []string{"17:00", "17:30", "18:00"}, strings.Fields(out))
}

func TestSlotsCommandAfterClosing(t *testing.T) {
	out, err := execute(t, "slots", "--at", "18:00")
	require.NoError(t, err)

	assert.Contains(t, out, "no pickup slots left today")
}

func TestSlotsCommandRejectsUnknownZone(t *testing.T) {
	_, err := execute(t, "slots", "--at", "10:00", "--timezone", "Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestSlotsCommandRejectsBadTime(t *testing.T) {
	_, err := execute(t, "slots", "--at", "quarter past four")
	assert.Error(t, err)
}

func TestImportMenuRequiresSpreadsheet(t *testing.T) {
	_, err := execute(t, "import-menu")
	assert.Error(t, err)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_TIMEOUT", "3s")

	v := viper.New()
	v.SetDefault("mongo-uri", "mongodb://localhost:27017")
	v.SetDefault("mongo-database", "brewline")
	v.SetDefault("mongo-timeout", "10s")
	require.NoError(t, initConfig(v, ""))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "brewline", cfg.MongoDatabase)
	assert.Equal(t, 3*time.Second, cfg.MongoTimeout)
}

func TestFakeCustomer(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	user := fakeCustomer(faker.New(), "hash", now)

	assert.NotEmpty(t, user.Name)
	assert.Contains(t, user.Email, "@")
	assert.Equal(t, strings.ToLower(user.Email), user.Email)
	assert.Equal(t, string(auth.RoleCustomer), user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, now, user.CreatedAt)
}

func TestStarterMenu(t *testing.T) {
	items := starterMenu(time.Now())

	categories := map[string]int{}
	titles := map[string]bool{}
	for _, item := range items {
		categories[item.Category]++
		assert.False(t, titles[item.Title], "duplicate title %q", item.Title)
		titles[item.Title] = true
		assert.Greater(t, item.Price, 0.0)
		assert.True(t, item.Available)
	}

	for _, c := range []string{domain.CategoryBreakfast, domain.CategoryPastries, domain.CategoryHotBeverages, domain.CategoryColdDrinks} {
		assert.NotZero(t, categories[c], c)
	}
}
