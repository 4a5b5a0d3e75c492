// Package inventory provides the application layer for the inventory ledger
package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	domain "github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
)

// InventoryService implements the inventory ledger use cases
type InventoryService struct {
	repo   outbound.InventoryRepository
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo outbound.InventoryRepository, logger *zap.Logger) inbound.InventoryService {
	return &InventoryService{
		repo:   repo,
		logger: logger.Named("inventory-service"),
	}
}

// AddItem adds a new item to the ledger
func (s *InventoryService) AddItem(ctx context.Context, cmd inbound.InventoryItemCommand) (*domain.Item, error) {
	item, err := itemFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("create inventory item", err)
	}

	s.logger.Info("Inventory item added",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.String("category", string(item.Category)),
	)

	return &item, nil
}

// UpdateItem edits an item in place, keeping its ID
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, cmd inbound.InventoryItemCommand) (*domain.Item, error) {
	item, err := itemFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	item.ID = id

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, s.mapRepoError(err, id, "update inventory item")
	}

	s.logger.Info("Inventory item updated", zap.String("item_id", id.String()))

	return &item, nil
}

// DeleteItem removes an item from the ledger
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "delete inventory item")
	}

	s.logger.Info("Inventory item deleted", zap.String("item_id", id.String()))
	return nil
}

// ClearInventory removes every item and reports how many were removed
func (s *InventoryService) ClearInventory(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("clear inventory", err)
	}

	s.logger.Warn("Inventory cleared", zap.Int64("removed", removed))
	return removed, nil
}

// GetItem returns a single item
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "find inventory item")
	}
	return &item, nil
}

// ListItems returns the ledger ordered by category then name
func (s *InventoryService) ListItems(ctx context.Context) (domain.Snapshot, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list inventory", err)
	}
	if snapshot == nil {
		snapshot = domain.Snapshot{}
	}
	return snapshot, nil
}

func (s *InventoryService) mapRepoError(err error, id uuid.UUID, operation string) error {
	if errors.Is(err, domain.ErrItemNotFound) {
		return apperrors.NewInventoryItemNotFoundError(id.String())
	}
	return apperrors.NewDatabaseError(operation, err)
}

func itemFromCommand(cmd inbound.InventoryItemCommand) (domain.Item, error) {
	category, err := domain.ParseCategory(cmd.Category)
	if err != nil {
		return domain.Item{}, apperrors.NewValidationError(err.Error())
	}

	item, err := domain.NewItem(cmd.Name, cmd.Qty, cmd.Unit, cmd.Price, category)
	if err != nil {
		return domain.Item{}, apperrors.NewValidationError(err.Error())
	}
	return item, nil
}
