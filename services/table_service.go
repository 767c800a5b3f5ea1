package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

type TableInput struct {
	Name               string                 `json:"name"`
	AssignedCategory   models.TableAssignment `json:"assigned_category"`
	PriorityAssignment models.TableAssignment `json:"priority_assignment,omitempty"`
	Notes              *string                `json:"notes,omitempty"`
	SortOrder          int                    `json:"sort_order"`
}

// TableUpdateInput - частичное обновление стола, nil-поля не меняются.
type TableUpdateInput struct {
	Name               *string                 `json:"name,omitempty"`
	CurrentAssignment  *models.TableAssignment `json:"current_assignment,omitempty"`
	PriorityAssignment *models.TableAssignment `json:"priority_assignment,omitempty"`
	Notes              *string                 `json:"notes,omitempty"`
	SortOrder          *int                    `json:"sort_order,omitempty"`
}

type TableService interface {
	ListTables(ctx context.Context) ([]*models.PlayTable, error)
	CreateTable(ctx context.Context, input TableInput) (*models.PlayTable, error)
	UpdateTable(ctx context.Context, tableID int, input TableUpdateInput) (*models.PlayTable, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
	publisher EventPublisher
	logger    *slog.Logger
}

func NewTableService(tableRepo repositories.TableRepository, publisher EventPublisher, logger *slog.Logger) TableService {
	return &tableService{tableRepo: tableRepo, publisher: publisherOrNoop(publisher), logger: logger}
}

func validAssignment(a models.TableAssignment) bool {
	switch a {
	case models.TableAssignmentBoth, models.TableAssignmentAvailable, models.TableAssignmentNone:
		return true
	}
	return models.Category(a).Valid()
}

func (s *tableService) ListTables(ctx context.Context) ([]*models.PlayTable, error) {
	tables, err := s.tableRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) CreateTable(ctx context.Context, input TableInput) (*models.PlayTable, error) {
	table := &models.PlayTable{
		Name:               strings.TrimSpace(input.Name),
		AssignedCategory:   input.AssignedCategory,
		PriorityAssignment: input.PriorityAssignment,
		Notes:              input.Notes,
		SortOrder:          input.SortOrder,
	}
	if table.AssignedCategory == "" {
		table.AssignedCategory = models.TableAssignmentBoth
	}
	table.CurrentAssignment = table.AssignedCategory

	verr := &ValidationError{}
	if table.Name == "" {
		verr.add("name", "is required")
	}
	if !validAssignment(table.AssignedCategory) {
		verr.add("assigned_category", fmt.Sprintf("unknown assignment %q", table.AssignedCategory))
	}
	if table.PriorityAssignment != "" && !validAssignment(table.PriorityAssignment) {
		verr.add("priority_assignment", fmt.Sprintf("unknown assignment %q", table.PriorityAssignment))
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if err := s.tableRepo.Create(ctx, nil, table); err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "table created", slog.Int("table_id", table.ID), slog.String("name", table.Name))
	s.publisher.Publish(brackets.EventTablesUpdated, table)
	return table, nil
}

func (s *tableService) UpdateTable(ctx context.Context, tableID int, input TableUpdateInput) (*models.PlayTable, error) {
	table, err := s.tableRepo.GetByID(ctx, nil, tableID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	verr := &ValidationError{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name == "" {
			verr.add("name", "must not be empty")
		} else {
			table.Name = name
		}
	}
	if input.CurrentAssignment != nil {
		if !validAssignment(*input.CurrentAssignment) {
			verr.add("current_assignment", fmt.Sprintf("unknown assignment %q", *input.CurrentAssignment))
		}
		table.CurrentAssignment = *input.CurrentAssignment
	}
	if input.PriorityAssignment != nil {
		if *input.PriorityAssignment != "" && !validAssignment(*input.PriorityAssignment) {
			verr.add("priority_assignment", fmt.Sprintf("unknown assignment %q", *input.PriorityAssignment))
		}
		table.PriorityAssignment = *input.PriorityAssignment
	}
	if input.Notes != nil {
		table.Notes = input.Notes
	}
	if input.SortOrder != nil {
		table.SortOrder = *input.SortOrder
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if err := s.tableRepo.Update(ctx, nil, table); err != nil {
		return nil, mapRepoError(err)
	}
	s.publisher.Publish(brackets.EventTablesUpdated, table)
	return table, nil
}
