package service

import (
	"testing"

	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogServices(t *testing.T) {
	f := newFixture(t)

	t.Run("name required", func(t *testing.T) {
		_, err := f.catalog.CreateService("", "meals", 500, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("negative price refused", func(t *testing.T) {
		_, err := f.catalog.CreateService("Завтрак", "meals", -1, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("create update delete", func(t *testing.T) {
		svc, err := f.catalog.CreateService("Завтрак", "meals", 500, "шведский стол")
		require.NoError(t, err)
		assert.True(t, svc.Active)

		price := 600.0
		require.NoError(t, f.catalog.UpdateService(svc.ID, UpdateServiceInput{Price: &price}))
		services, err := f.catalog.Services()
		require.NoError(t, err)
		require.Len(t, services, 1)
		assert.Equal(t, 600.0, services[0].Price)

		require.NoError(t, f.catalog.DeleteService(svc.ID))
		assert.ErrorIs(t, f.catalog.DeleteService(svc.ID), domain.ErrNotFound)
	})
}

func TestCatalogPromocodes(t *testing.T) {
	f := newFixture(t)

	t.Run("code required", func(t *testing.T) {
		_, err := f.catalog.CreatePromocode(CreatePromocodeInput{Type: models.DiscountPercent, Value: 10})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("type must be percent or fixed", func(t *testing.T) {
		_, err := f.catalog.CreatePromocode(CreatePromocodeInput{Code: "X", Type: "bogus", Value: 10})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("value must be positive", func(t *testing.T) {
		_, err := f.catalog.CreatePromocode(CreatePromocodeInput{Code: "X", Type: models.DiscountFixed, Value: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("duplicate code refused", func(t *testing.T) {
		_, err := f.catalog.CreatePromocode(CreatePromocodeInput{
			Code: "SUMMER10", Type: models.DiscountPercent, Value: 10,
		})
		require.NoError(t, err)
		_, err = f.catalog.CreatePromocode(CreatePromocodeInput{
			Code: "SUMMER10", Type: models.DiscountFixed, Value: 500,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("update and delete", func(t *testing.T) {
		promo, err := f.catalog.CreatePromocode(CreatePromocodeInput{
			Code: "WINTER5", Type: models.DiscountPercent, Value: 5,
		})
		require.NoError(t, err)

		value := 7.0
		require.NoError(t, f.catalog.UpdatePromocode(promo.ID, UpdatePromocodeInput{Value: &value}))
		codes, err := f.catalog.Promocodes()
		require.NoError(t, err)
		require.Len(t, codes, 2)

		require.NoError(t, f.catalog.DeletePromocode(promo.ID))
		assert.ErrorIs(t, f.catalog.DeletePromocode(promo.ID), domain.ErrNotFound)
	})
}

func TestCatalogTaxes(t *testing.T) {
	f := newFixture(t)

	t.Run("name required", func(t *testing.T) {
		_, err := f.catalog.CreateTax("", 2)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("negative rate refused", func(t *testing.T) {
		_, err := f.catalog.CreateTax("НДС", -2)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("create update delete", func(t *testing.T) {
		tax, err := f.catalog.CreateTax("НДС", 2)
		require.NoError(t, err)
		assert.True(t, tax.Active)

		rate := 3.0
		require.NoError(t, f.catalog.UpdateTax(tax.ID, UpdateTaxInput{Rate: &rate}))
		taxes, err := f.catalog.Taxes()
		require.NoError(t, err)
		require.Len(t, taxes, 1)
		assert.Equal(t, 3.0, taxes[0].Rate)

		require.NoError(t, f.catalog.DeleteTax(tax.ID))
		assert.ErrorIs(t, f.catalog.DeleteTax(tax.ID), domain.ErrNotFound)
	})
}
