package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{in: "0.55", want: 5500},
		{in: "1", want: MaxPrice},
		{in: "0.0001", want: 1},
		{in: "0.12345", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1844674407370955.2116", wantErr: true},
		{in: "-1844674407370955.2116", wantErr: true},
		{in: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceFormatting(t *testing.T) {
	assert.Equal(t, "0.55", Price(5500).String())
	assert.Equal(t, "1", MaxPrice.String())
	assert.True(t, Price(5500).Decimal().Equal(decimal.RequireFromString("0.55")))

	b, err := json.Marshal(struct {
		P Price `json:"p"`
	}{P: 5200})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"0.52"}`, string(b))
}

func TestPriceInRange(t *testing.T) {
	assert.False(t, Price(0).InRange())
	assert.False(t, Price(-1).InRange())
	assert.True(t, Price(1).InRange())
	assert.True(t, MaxPrice.InRange())
	assert.False(t, (MaxPrice + 1).InRange())
}

func TestOrderStatusFollowsFills(t *testing.T) {
	o := &Order{ID: 1, Quantity: 10}
	assert.Equal(t, StatusOpen, o.Status())
	assert.Equal(t, int64(10), o.Remaining())

	o.Fill(4)
	assert.Equal(t, StatusPartiallyFilled, o.Status())
	assert.Equal(t, int64(6), o.Remaining())

	o.Fill(6)
	assert.Equal(t, StatusFilled, o.Status())
	assert.True(t, o.IsFilled())
	assert.Zero(t, o.Remaining())
}

func TestOrderOverfillPanics(t *testing.T) {
	o := &Order{ID: 1, Quantity: 3}
	assert.Panics(t, func() { o.Fill(4) })
	assert.Panics(t, func() { o.Fill(0) })
	assert.Zero(t, o.Filled)
}

func TestOrderJSONIncludesStatus(t *testing.T) {
	o := Order{ID: 7, Side: SideSell, Type: TypeLimit, Price: 7000, Quantity: 4, Filled: 1}
	b, err := json.Marshal(o)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "PARTIALLY_FILLED", decoded["status"])
	assert.Equal(t, "SELL", decoded["side"])
	assert.Equal(t, "LIMIT", decoded["type"])
	assert.Equal(t, "0.7", decoded["price"])
}

func TestSideAndType(t *testing.T) {
	s, err := ParseSide("buy")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, s)
	assert.Equal(t, SideSell, s.Opposite())
	assert.False(t, Side(0).IsValid())

	_, err = ParseSide("hold")
	assert.Error(t, err)

	typ, err := ParseOrderType("MARKET")
	require.NoError(t, err)
	assert.Equal(t, TypeMarket, typ)
	assert.False(t, OrderType(9).IsValid())
}

func TestOrderRequestToOrder(t *testing.T) {
	price := decimal.RequireFromString("0.55")
	req := OrderRequest{MarketID: 3, OutcomeID: 1, TraderID: 9, Side: "BUY", Type: "LIMIT", Price: &price, Quantity: 10}

	o, err := req.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, BookKey{MarketID: 3, OutcomeID: 1}, o.Key())
	assert.Equal(t, Price(5500), o.Price)
	assert.Equal(t, SideBuy, o.Side)
	assert.Equal(t, TypeLimit, o.Type)
	assert.Zero(t, o.ID)
}

func TestOrderRequestValidate(t *testing.T) {
	p := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	base := func() OrderRequest {
		return OrderRequest{MarketID: 1, OutcomeID: 1, TraderID: 1, Side: "SELL", Type: "LIMIT", Price: p("0.5"), Quantity: 1}
	}

	tests := []struct {
		name   string
		mutate func(r *OrderRequest)
		errMsg string
	}{
		{"missing market", func(r *OrderRequest) { r.MarketID = 0 }, "market_id must be greater than 0"},
		{"missing outcome", func(r *OrderRequest) { r.OutcomeID = 0 }, "outcome_id must be greater than 0"},
		{"missing trader", func(r *OrderRequest) { r.TraderID = -1 }, "trader_id must be greater than 0"},
		{"bad side", func(r *OrderRequest) { r.Side = "x" }, `side must be BUY or SELL, got "x"`},
		{"bad type", func(r *OrderRequest) { r.Type = "stop" }, `type must be LIMIT or MARKET, got "stop"`},
		{"zero quantity", func(r *OrderRequest) { r.Quantity = 0 }, "quantity must be greater than 0"},
		{"limit without price", func(r *OrderRequest) { r.Price = nil }, "LIMIT orders must have a price"},
		{"price above one", func(r *OrderRequest) { r.Price = p("1.01") }, "price must be greater than 0 and at most 1"},
		{"zero price", func(r *OrderRequest) { r.Price = p("0") }, "price must be greater than 0 and at most 1"},
		{"huge price", func(r *OrderRequest) { r.Price = p("1844674407370955.2116") }, "price out of range"},
		{"priced market", func(r *OrderRequest) { r.Type = "MARKET" }, "MARKET orders must not have a price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)
			assert.EqualError(t, r.Validate(), tt.errMsg)
		})
	}

	r := base()
	assert.NoError(t, r.Validate())
}

func TestOrderRequestDecodesJSON(t *testing.T) {
	var req OrderRequest
	err := json.Unmarshal([]byte(`{"market_id":1,"outcome_id":2,"trader_id":3,"side":"BUY","type":"MARKET","quantity":5}`), &req)
	require.NoError(t, err)
	assert.Nil(t, req.Price)

	o, err := req.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, TypeMarket, o.Type)
	assert.Zero(t, o.Price)
}

func TestBookKey(t *testing.T) {
	a := BookKey{MarketID: 1, OutcomeID: 2}
	b := BookKey{MarketID: 1, OutcomeID: 3}
	assert.Equal(t, "1/2", a.String())
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
