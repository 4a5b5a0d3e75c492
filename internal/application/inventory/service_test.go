package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/application/inventory"
	domain "github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/infrastructure/persistence/memory"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"github.com/meadcraft/meadery/test/testutils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type InventoryServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memory.InventoryRepository
	service inbound.InventoryService
	factory *testutils.ItemFactory
}

func (s *InventoryServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.factory = testutils.NewItemFactory(42)
	s.repo = memory.NewInventoryRepository(s.factory.Snapshot(5)...)
	s.service = inventory.NewInventoryService(s.repo, zap.NewNop())
}

func (s *InventoryServiceTestSuite) TestAddItem() {
	tests := []struct {
		name     string
		cmd      inbound.InventoryItemCommand
		wantCode apperrors.ErrorCode
	}{
		{
			name: "Valid_ShouldTrimAndStore",
			cmd:  inbound.InventoryItemCommand{Name: "  Clover Honey ", Qty: 3, Unit: "kg", Price: 30, Category: "honey"},
		},
		{
			name:     "UnknownCategory_ShouldFailValidation",
			cmd:      inbound.InventoryItemCommand{Name: "Oak Chips", Qty: 1, Unit: "g", Price: 1, Category: "Wood"},
			wantCode: apperrors.CodeValidationFailed,
		},
		{
			name:     "NegativeQty_ShouldFailValidation",
			cmd:      inbound.InventoryItemCommand{Name: "Oak Chips", Qty: -1, Unit: "g", Price: 1, Category: "Adjunct"},
			wantCode: apperrors.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			item, err := s.service.AddItem(s.ctx, tt.cmd)

			if tt.wantCode != "" {
				testutils.AssertAppError(s.T(), err, tt.wantCode)
				return
			}
			s.Require().NoError(err)
			s.Equal("Clover Honey", item.Name)
			s.Equal(domain.CategoryHoney, item.Category)

			stored, err := s.service.GetItem(s.ctx, item.ID)
			s.Require().NoError(err)
			s.Equal(*item, *stored)
		})
	}
}

func (s *InventoryServiceTestSuite) TestUpdateItem() {
	s.Run("Existing_ShouldKeepID", func() {
		// Arrange
		items, err := s.service.ListItems(s.ctx)
		s.Require().NoError(err)
		target := items[0]

		// Act
		updated, err := s.service.UpdateItem(s.ctx, target.ID, inbound.InventoryItemCommand{
			Name: target.Name, Qty: 0, Unit: target.Unit, Price: 0, Category: string(target.Category),
		})

		// Assert
		s.Require().NoError(err)
		s.Equal(target.ID, updated.ID)
		s.Zero(updated.UnitPrice())
	})

	s.Run("Missing_ShouldBeNotFound", func() {
		_, err := s.service.UpdateItem(s.ctx, uuid.New(), inbound.InventoryItemCommand{
			Name: "Ghost", Qty: 1, Unit: "g", Price: 1, Category: "Spice",
		})

		testutils.AssertAppError(s.T(), err, apperrors.CodeInventoryItemNotFound)
	})
}

func (s *InventoryServiceTestSuite) TestDeleteAndClear() {
	// Arrange
	items, err := s.service.ListItems(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 5)

	// Act
	s.Require().NoError(s.service.DeleteItem(s.ctx, items[0].ID))
	removed, err := s.service.ClearInventory(s.ctx)

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(4), removed)
	testutils.AssertAppError(s.T(), s.service.DeleteItem(s.ctx, items[0].ID), apperrors.CodeInventoryItemNotFound)
	remaining, err := s.service.ListItems(s.ctx)
	s.Require().NoError(err)
	s.NotNil(remaining)
	s.Empty(remaining)
}

func (s *InventoryServiceTestSuite) TestListItems_ShouldOrderByCategoryThenName() {
	items, err := s.service.ListItems(s.ctx)
	s.Require().NoError(err)

	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if prev.Category == cur.Category {
			s.LessOrEqual(prev.Name, cur.Name)
			continue
		}
		s.Less(string(prev.Category), string(cur.Category))
	}
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
