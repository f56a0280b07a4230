package api

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	CreateFn  func(ctx context.Context, params service.CreateTaskParams) (*domain.Task, error)
	ListFn    func(ctx context.Context) ([]*domain.Task, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id string, params service.UpdateTaskParams) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (m *MockTaskService) Create(ctx context.Context, params service.CreateTaskParams) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, params)
	}
	return nil, nil
}

func (m *MockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *MockTaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskService) Update(
	ctx context.Context,
	id string,
	params service.UpdateTaskParams,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, params)
	}
	return nil, nil
}

func (m *MockTaskService) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// MockUploadService is a mock implementation of service.UploadService for testing
type MockUploadService struct {
	UploadFn func(ctx context.Context, params service.UploadFileParams) (*domain.UploadedFile, error)
}

func (m *MockUploadService) Upload(
	ctx context.Context,
	params service.UploadFileParams,
) (*domain.UploadedFile, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, params)
	}
	return nil, nil
}
