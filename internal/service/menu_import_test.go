package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]domain.MenuImportTask
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[primitive.ObjectID]domain.MenuImportTask)}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.MenuImportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MenuImportTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &task, nil
}

func (r *memTaskRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.Status = status
	task.ErrorMessage = errorMsg
	r.tasks[id] = task
	return nil
}

func (r *memTaskRepo) Complete(_ context.Context, id primitive.ObjectID, imported int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.Status = domain.StatusCompleted
	task.ImportedCount = imported
	r.tasks[id] = task
	return nil
}

func (r *memTaskRepo) IncrementRetryCount(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.tasks[id]
	task.RetryCount++
	r.tasks[id] = task
	return nil
}

type stubParser struct {
	items []domain.MenuItem
	err   error
}

func (p *stubParser) ParseMenu(context.Context, string, string) ([]domain.MenuItem, error) {
	return p.items, p.err
}

func TestMenuImportEndToEnd(t *testing.T) {
	f := newFixture(menuItem("Latte", domain.CategoryHotBeverages, 28))
	tasks := newMemTaskRepo()
	parser := &stubParser{items: []domain.MenuItem{
		{Title: "Latte", Category: domain.CategoryHotBeverages, Price: 30, Available: true},
		{Title: "Croissant", Category: domain.CategoryPastries, Price: 25, Available: true},
	}}
	svc := NewMenuImportService(tasks, f.menuRepo, f.menu, parser, f.broker, directTx{}, testLogger)
	ctx := context.Background()

	_, err := f.menu.List(ctx, "")
	require.NoError(t, err)

	taskID, err := svc.CreateImportTask(ctx, "sheet-1", "A:G")
	require.NoError(t, err)

	msgs := f.broker.on(queue.QueueMenuImport)
	require.Len(t, msgs, 1)
	var msg domain.MenuImportMessage
	require.NoError(t, json.Unmarshal(msgs[0], &msg))
	assert.Equal(t, taskID.Hex(), msg.TaskID)

	require.NoError(t, svc.ProcessImportTask(ctx, taskID))

	task, err := svc.GetTaskStatus(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Equal(t, 2, task.ImportedCount)

	items, err := f.menu.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Croissant", items[0].Title)
	assert.Equal(t, 30.0, items[1].Price)
}

func TestMenuImportParseFailure(t *testing.T) {
	f := newFixture()
	tasks := newMemTaskRepo()
	svc := NewMenuImportService(tasks, f.menuRepo, f.menu, &stubParser{err: errors.New("sheet not found")}, f.broker, directTx{}, testLogger)
	ctx := context.Background()

	taskID, err := svc.CreateImportTask(ctx, "missing", "A:G")
	require.NoError(t, err)

	require.Error(t, svc.ProcessImportTask(ctx, taskID))

	task, err := svc.GetTaskStatus(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, task.Status)
	assert.Equal(t, 1, task.RetryCount)
}

func TestMenuImportWithoutParser(t *testing.T) {
	f := newFixture()
	svc := NewMenuImportService(newMemTaskRepo(), f.menuRepo, f.menu, nil, f.broker, directTx{}, testLogger)

	_, err := svc.CreateImportTask(context.Background(), "sheet-1", "A:G")
	require.ErrorIs(t, err, ErrImportUnavailable)
}
