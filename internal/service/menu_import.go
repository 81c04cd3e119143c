package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MenuParser interface {
	ParseMenu(ctx context.Context, spreadsheetID, readRange string) ([]domain.MenuItem, error)
}

type MenuImportService struct {
	taskRepo repo.MenuImportTaskRepository
	menuRepo repo.MenuRepository
	menu     *MenuService
	parser   MenuParser
	broker   queue.Broker
	tx       repo.Transactor
	logger   *zap.SugaredLogger
}

func NewMenuImportService(
	taskRepo repo.MenuImportTaskRepository,
	menuRepo repo.MenuRepository,
	menu *MenuService,
	parser MenuParser,
	broker queue.Broker,
	tx repo.Transactor,
	logger *zap.SugaredLogger,
) *MenuImportService {
	return &MenuImportService{
		taskRepo: taskRepo,
		menuRepo: menuRepo,
		menu:     menu,
		parser:   parser,
		broker:   broker,
		tx:       tx,
		logger:   logger,
	}
}

func (s *MenuImportService) CreateImportTask(ctx context.Context, spreadsheetID, sheetRange string) (primitive.ObjectID, error) {
	if s.parser == nil {
		return primitive.NilObjectID, ErrImportUnavailable
	}

	task := &domain.MenuImportTask{
		Status:        domain.StatusQueued,
		SpreadsheetID: spreadsheetID,
		SheetRange:    sheetRange,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create menu import task: %w", err)
	}

	message := domain.MenuImportMessage{
		TaskID:        task.ID.Hex(),
		SpreadsheetID: spreadsheetID,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuImport, messageBytes); err != nil {
		_ = s.taskRepo.UpdateStatus(ctx, task.ID, domain.StatusFailed, err.Error())
		return primitive.NilObjectID, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("menu import task created", "task_id", task.ID.Hex(), "spreadsheet_id", spreadsheetID)

	return task.ID, nil
}

func (s *MenuImportService) GetTaskStatus(ctx context.Context, taskID primitive.ObjectID) (*domain.MenuImportTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu import task: %w", err)
	}

	return task, nil
}

// ProcessImportTask reads the sheet and upserts its items together with the
// task's completion in one transaction.
func (s *MenuImportService) ProcessImportTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.Status == domain.StatusCompleted {
		return nil
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing menu import task", "task_id", taskID.Hex())

	items, err := s.parser.ParseMenu(ctx, task.SpreadsheetID, task.SheetRange)
	if err != nil && len(items) == 0 {
		s.logger.Errorw("failed to parse menu", "task_id", taskID.Hex(), "error", err)
		_ = s.taskRepo.IncrementRetryCount(ctx, taskID)
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to parse menu: %w", err)
	}
	if err != nil {
		s.logger.Warnw("some menu rows were skipped", "task_id", taskID.Hex(), "error", err)
	}

	var imported int
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.menuRepo.UpsertByTitle(ctx, items)
		if err != nil {
			return fmt.Errorf("failed to save menu items: %w", err)
		}
		imported = n

		return s.taskRepo.Complete(ctx, taskID, n)
	})
	if err != nil {
		s.logger.Errorw("failed to import menu", "task_id", taskID.Hex(), "error", err)
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return err
	}

	if s.menu != nil {
		s.menu.Invalidate()
	}

	s.logger.Infow("menu import task completed", "task_id", taskID.Hex(), "imported", imported)

	return nil
}
