package sync

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRaw(t *testing.T, payload string) RawRecord {
	t.Helper()
	var raw RawRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestNormalizeCustomer(t *testing.T) {
	n := NewNormalizer()

	t.Run("full payload", func(t *testing.T) {
		raw := decodeRaw(t, `{
			"id": 6794935566,
			"email": "jane@example.com",
			"first_name": "Jane",
			"last_name": "Doe",
			"phone": "+15551234567",
			"default_address": {"city": "Austin", "country": "United States"}
		}`)

		c, err := n.NormalizeCustomer(raw)
		require.NoError(t, err)
		assert.Equal(t, "6794935566", c.ExternalID)
		assert.Equal(t, "jane@example.com", c.Email)
		assert.Equal(t, "Jane", c.FirstName)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, "Austin", c.City)
		assert.Equal(t, "United States", c.Country)
	})

	t.Run("sparse payload defaults to zero values", func(t *testing.T) {
		raw := decodeRaw(t, `{"id": 42}`)

		c, err := n.NormalizeCustomer(raw)
		require.NoError(t, err)
		assert.Equal(t, "42", c.ExternalID)
		assert.Empty(t, c.Email)
		assert.Empty(t, c.FirstName)
		assert.Empty(t, c.City)
	})

	t.Run("missing id fails", func(t *testing.T) {
		raw := decodeRaw(t, `{"email": "no-id@example.com"}`)

		_, err := n.NormalizeCustomer(raw)
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, KindCustomers, nerr.Kind)
	})
}

func TestNormalizeProduct(t *testing.T) {
	n := NewNormalizer()

	t.Run("variant fields come from first variant", func(t *testing.T) {
		raw := decodeRaw(t, `{
			"id": 9981,
			"title": "Canvas Tote",
			"vendor": "Acme",
			"product_type": "Bags",
			"status": "active",
			"variants": [
				{"sku": "TOTE-1", "taxable": true, "price": "24.99", "inventory_quantity": 130},
				{"sku": "TOTE-2", "taxable": false, "price": "29.99", "inventory_quantity": 7}
			]
		}`)

		p, err := n.NormalizeProduct(raw)
		require.NoError(t, err)
		assert.Equal(t, "9981", p.ExternalID)
		assert.Equal(t, "Canvas Tote", p.Title)
		assert.Equal(t, "TOTE-1", p.SKU)
		assert.True(t, p.Taxable)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("24.99")))
		assert.Equal(t, int64(130), p.InventoryQuantity)
	})

	t.Run("no variants leaves zero price and inventory", func(t *testing.T) {
		raw := decodeRaw(t, `{"id": 1, "title": "Gift Card"}`)

		p, err := n.NormalizeProduct(raw)
		require.NoError(t, err)
		assert.True(t, p.Price.IsZero())
		assert.Zero(t, p.InventoryQuantity)
		assert.Empty(t, p.SKU)
	})

	t.Run("missing id fails", func(t *testing.T) {
		_, err := n.NormalizeProduct(decodeRaw(t, `{"title": "Orphan"}`))
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
	})
}

func TestNormalizeOrder(t *testing.T) {
	n := NewNormalizer()

	t.Run("full payload with lines", func(t *testing.T) {
		raw := decodeRaw(t, `{
			"id": 5551,
			"order_number": 1001,
			"name": "#1001",
			"email": "jane@example.com",
			"financial_status": "paid",
			"currency": "USD",
			"total_price": "104.97",
			"subtotal_price": "94.97",
			"total_tax": "10.00",
			"processed_at": "2026-03-14T09:30:00Z",
			"customer": {"id": 6794935566},
			"line_items": [
				{"id": 71, "product_id": 9981, "title": "Canvas Tote", "sku": "TOTE-1", "quantity": 3, "price": "24.99"},
				{"id": 72, "product_id": 9982, "title": "Mug", "quantity": 1, "price": "20.00"}
			]
		}`)

		o, err := n.NormalizeOrder(raw)
		require.NoError(t, err)
		assert.Equal(t, "5551", o.ExternalID)
		assert.Equal(t, "6794935566", o.CustomerExternalID)
		assert.Equal(t, int64(1001), o.Number)
		assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("104.97")))
		assert.Equal(t, "2026-03-14T09:30:00Z", o.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"))

		require.Len(t, o.Lines, 2)
		assert.Equal(t, "9981", o.Lines[0].ProductExternalID)
		assert.Equal(t, int64(3), o.Lines[0].Quantity)
		assert.True(t, o.Lines[0].LineTotal().Equal(decimal.RequireFromString("74.97")))
	})

	t.Run("guest order keeps empty customer reference", func(t *testing.T) {
		raw := decodeRaw(t, `{"id": 5552, "total_price": "10.00"}`)

		o, err := n.NormalizeOrder(raw)
		require.NoError(t, err)
		assert.Empty(t, o.CustomerExternalID)
		assert.Empty(t, o.Lines)
	})

	t.Run("customer reference survives without customer record", func(t *testing.T) {
		raw := decodeRaw(t, `{"id": 5553, "customer": {"id": 404404}}`)

		o, err := n.NormalizeOrder(raw)
		require.NoError(t, err)
		assert.Equal(t, "404404", o.CustomerExternalID)
	})

	t.Run("missing id fails", func(t *testing.T) {
		_, err := n.NormalizeOrder(decodeRaw(t, `{"total_price": "1.00"}`))
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, KindOrders, nerr.Kind)
	})
}

func TestRawRecordAccessors(t *testing.T) {
	raw := decodeRaw(t, `{
		"num": 12345,
		"str_num": "678",
		"flag": true,
		"money": "19.95",
		"bad_money": "not-a-number"
	}`)

	assert.Equal(t, "12345", raw.StringField("num"))
	assert.Equal(t, int64(678), raw.IntField("str_num"))
	assert.True(t, raw.BoolField("flag"))
	assert.True(t, raw.DecimalField("money").Equal(decimal.RequireFromString("19.95")))
	assert.True(t, raw.DecimalField("bad_money").IsZero())
	assert.Empty(t, raw.StringField("absent"))
	assert.Zero(t, raw.IntField("absent"))
	assert.Nil(t, raw.MapField("absent"))
}
