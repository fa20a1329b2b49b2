package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOrderJSONShape(t *testing.T) {
	o := Order{
		SlNo:        "20240115-001",
		TotalAmount: decimal.RequireFromString("800.5"),
		Items: []LineItem{
			{Description: "Floor Mat", Amount: decimal.NewFromInt(500)},
		},
	}
	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"slNo":"20240115-001"`, `"totalAmount":800.5`, `"amount":500`, `"isCustom":false`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
	for _, absent := range []string{`"id"`, `"synced"`, `"photo"`} {
		if strings.Contains(s, absent) {
			t.Fatalf("did not expect %s in %s", absent, s)
		}
	}
}

func TestMarkLocal(t *testing.T) {
	var o Order
	if !o.IsSynced() {
		t.Fatalf("remote order should read as synced")
	}
	now := time.UnixMilli(1705300000123)
	o.MarkLocal(now)
	if o.ID != 1705300000123 {
		t.Fatalf("ID = %d", o.ID)
	}
	if o.IsSynced() {
		t.Fatalf("local order should not be synced")
	}
	b, _ := json.Marshal(o)
	if !strings.Contains(string(b), `"synced":false`) {
		t.Fatalf("expected synced:false in %s", b)
	}
}

func TestItemCount(t *testing.T) {
	cases := []struct {
		order Order
		want  int
	}{
		{Order{Items: []LineItem{{}, {}}}, 2},
		{Order{ItemDescription: "Floor Mat | Horn | Roof Box"}, 3},
		{Order{ItemDescription: "Floor Mat"}, 1},
		{Order{}, 1},
	}
	for _, c := range cases {
		if got := c.order.ItemCount(); got != c.want {
			t.Fatalf("ItemCount(%+v) = %d, want %d", c.order, got, c.want)
		}
	}
}

func TestAmountsEncodeAsNumbersWithoutGlobalFlag(t *testing.T) {
	if decimal.MarshalJSONWithoutQuotes {
		t.Fatal("global decimal encoding changed")
	}
	bare, _ := json.Marshal(decimal.RequireFromString("12.5"))
	if string(bare) != `"12.5"` {
		t.Fatalf("bare decimal = %s", bare)
	}

	e := OrderEvent{SlNo: "20240115-001", Type: EventSubmitted, Total: decimal.RequireFromString("1200.75"), Items: 2}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"total":1200.75`) || !strings.Contains(string(b), `"sl_no":"20240115-001"`) {
		t.Fatalf("event json = %s", b)
	}

	var back Order
	if err := json.Unmarshal([]byte(`{"totalAmount":"99.5","items":[{"amount":10}]}`), &back); err != nil {
		t.Fatal(err)
	}
	if !back.TotalAmount.Equal(decimal.RequireFromString("99.5")) || !back.Items[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("decoded = %+v", back)
	}
}
