package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oxygenixlabs/storefront/pkg/config"
	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/migrate"
	"github.com/oxygenixlabs/storefront/pkg/money"
	"github.com/oxygenixlabs/storefront/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, config.DBDriverSQLite, "up"))
	return db
}

func sampleOrder(userID string, createdAt time.Time) *models.Order {
	return &models.Order{
		UserID:   userID,
		Subtotal: 28998,
		Tax:      money.Tax(28998),
		Total:    money.Total(28998),
		ShippingAddress: models.ShippingAddress{
			FullName: "Demo User",
			Phone:    "9876543210",
			Line1:    "123 MG Road",
			City:     "Bangalore",
			State:    "Karnataka",
			Pincode:  "560001",
		},
		PaymentMethod: enums.PaymentMethodUPI,
		PaymentStatus: enums.PaymentStatusStubbed,
		Lines: []models.OrderLine{
			{ProductID: "home-compact", VariantID: "hc-200", Name: "Oxygenix Home Compact", VariantName: "HC-200", UnitPrice: 24999, Quantity: 1, LineTotal: 24999},
			{ProductID: "home-compact", VariantID: "hc-200", Name: "AMC - Annual", VariantName: "Oxygenix Home Compact HC-200", IsAddOn: true, UnitPrice: 3999, Quantity: 1, LineTotal: 3999},
		},
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetForUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleOrder("user_1", time.Now().UTC()))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "ORD-"))
	assert.Equal(t, enums.OrderStatusProcessing, created.Status)

	got, err := repo.GetForUser(ctx, created.ID, "user_1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].Position)
	assert.Equal(t, "hc-200", got.Lines[0].VariantID)
	assert.True(t, got.Lines[1].IsAddOn)
	assert.Equal(t, "AMC - Annual", got.Lines[1].Name)
	assert.Equal(t, "5219.64", got.Tax.StringFixed(2))
	assert.Equal(t, "34217.64", got.Total.StringFixed(2))
	assert.Equal(t, "560001", got.ShippingAddress.Pincode)
	assert.Equal(t, enums.PaymentStatusStubbed, got.PaymentStatus)

	_, err = repo.GetForUser(ctx, created.ID, "user_2")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListByUserFiltersAndOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older := sampleOrder("user_1", base)
	older.Status = enums.OrderStatusDelivered
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)

	newer, err := repo.Create(ctx, sampleOrder("user_1", base.Add(time.Hour)))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sampleOrder("user_2", base))
	require.NoError(t, err)

	page, err := repo.ListByUser(ctx, ListParams{UserID: "user_1"})
	require.NoError(t, err)
	all := page.Orders
	require.Len(t, all, 2)
	assert.Empty(t, page.Cursor)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Len(t, all[0].Lines, 2)

	delivered := enums.OrderStatusDelivered
	page, err = repo.ListByUser(ctx, ListParams{UserID: "user_1", Status: &delivered})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, older.ID, page.Orders[0].ID)

	page, err = repo.ListByUser(ctx, ListParams{UserID: "user_3"})
	require.NoError(t, err)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)
}

func TestListByUserPaginates(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, sampleOrder("user_1", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		ids = append([]string{created.ID}, ids...)
	}

	var seen []string
	cursor := ""
	for pages := 0; pages < 5; pages++ {
		page, err := repo.ListByUser(ctx, ListParams{UserID: "user_1", Page: pagination.Params{Limit: 2, Cursor: cursor}})
		require.NoError(t, err)
		for _, o := range page.Orders {
			seen = append(seen, o.ID)
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	assert.Equal(t, ids, seen)

	_, err := repo.ListByUser(ctx, ListParams{UserID: "user_1", Page: pagination.Params{Cursor: "!!"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateRejectsInvalidOrders(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	empty := sampleOrder("user_1", time.Now())
	empty.Lines = nil
	_, err := repo.Create(ctx, empty)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad := sampleOrder("user_1", time.Now())
	bad.Status = "lost"
	_, err = repo.Create(ctx, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = repo.Create(ctx, sampleOrder("", time.Now()))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateDuplicateIDConflicts(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	first := sampleOrder("user_1", time.Now())
	first.ID = "ORD-2026-ABCDEF"
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := sampleOrder("user_1", time.Now())
	second.ID = "ORD-2026-ABCDEF"
	_, err = repo.Create(ctx, second)
	require.Error(t, err)
	assert.False(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewOrderIDFormat(t *testing.T) {
	id := NewOrderID(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, id, len("ORD-2026-ABCDEF"))
	assert.True(t, strings.HasPrefix(id, "ORD-2026-"))
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestFromModelFormatsMoney(t *testing.T) {
	dto := FromModel(*sampleOrder("user_1", time.Now()))
	assert.Equal(t, "5219.64", dto.Tax)
	assert.Equal(t, "34217.64", dto.Total)
	assert.Equal(t, "₹34,217.64", dto.TotalDisplay)
	assert.Len(t, dto.Lines, 2)
}
