package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oxygenixlabs/storefront/internal/repo"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/pagination"
	"gorm.io/gorm"
)

const notFoundMessage = "order not found"

// Repository persists orders and their lines.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUser(ctx context.Context, params ListParams) (*ListResult, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Order, error)
}

// ListParams scopes an order history page.
type ListParams struct {
	UserID string
	Status *enums.OrderStatus
	Page   pagination.Params
}

// ListResult is one page of orders. Cursor is empty on the last page.
type ListResult struct {
	Orders []models.Order
	Cursor string
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// NewOrderID formats an order number as ORD-<year>-<6 hex>.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%d-%s", now.Year(), suffix)
}

// Create inserts the order and its lines in one transaction. Missing id,
// status and line positions are filled in.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if strings.TrimSpace(order.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order user is required")
	}
	if len(order.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no lines")
	}

	if order.ID == "" {
		order.ID = NewOrderID(time.Now().UTC())
	}
	if order.Status == "" {
		order.Status = enums.OrderStatusProcessing
	}
	if !order.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", order.Status))
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		order.Lines[i].Position = i + 1
	}

	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, repo.Translate(err, "create order")
	}
	return order, nil
}

// ListByUser returns a page of the user's orders, newest first, optionally
// filtered by status.
func (r *repository) ListByUser(ctx context.Context, params ListParams) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Page.Limit)

	query := r.DB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", params.UserID)
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	orders := []models.Order{}
	err = query.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&orders).Error
	if err != nil {
		return nil, repo.Translate(err, "list orders")
	}

	result := &ListResult{Orders: orders}
	if len(orders) > limit {
		last := orders[limit-1]
		result.Orders = orders[:limit]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// GetForUser loads one order. Orders of other users are reported as not found.
func (r *repository) GetForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage)
	}
	return &order, nil
}
