package history

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"order-entry/logger"
	"order-entry/models"
	"order-entry/store"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type fakeRemote struct {
	configured bool
	orders     []models.Order
	err        error
}

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) FetchOrders(context.Context) ([]models.Order, error) {
	return f.orders, f.err
}

func seed(t *testing.T) *LocalOrders {
	t.Helper()
	l := NewLocalOrders(store.NewMemoryStore())
	ctx := context.Background()
	first := models.Order{SlNo: "20240115-001", CustomerName: "Ravi Kumar", ItemDescription: "Floor Mat"}
	first.MarkLocal(time.UnixMilli(1))
	second := models.Order{SlNo: "20240115-002", CustomerName: "Anita", ChassisNo: "MA1XYZ", ItemDescription: "Roof Box | Horn"}
	second.MarkLocal(time.UnixMilli(2))
	if err := l.Prepend(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := l.Prepend(ctx, second); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestPrependNewestFirst(t *testing.T) {
	orders, err := seed(t).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[0].SlNo != "20240115-002" || orders[1].SlNo != "20240115-001" {
		t.Fatalf("orders = %+v", orders)
	}
	if orders[0].IsSynced() {
		t.Fatalf("local orders must be unsynced")
	}
}

func TestFetchFallsBackToLocal(t *testing.T) {
	local := seed(t)
	cases := []struct {
		name   string
		remote *fakeRemote
		source string
		count  int
	}{
		{"demo mode", &fakeRemote{configured: false, orders: []models.Order{{}}}, "local", 2},
		{"remote ok", &fakeRemote{configured: true, orders: []models.Order{{SlNo: "r"}}}, "remote", 1},
		{"remote error", &fakeRemote{configured: true, err: errors.New("offline")}, "local", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := NewService(c.remote, local, logger.NewNop())
			res, err := svc.Fetch(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if res.Source != c.source || len(res.Orders) != c.count {
				t.Fatalf("result = %s/%d", res.Source, len(res.Orders))
			}
		})
	}
}

func TestFilter(t *testing.T) {
	orders, _ := seed(t).List(context.Background())
	cases := map[string]int{
		"":         2,
		"ravi":     1,
		"ROOF":     1,
		"ma1xyz":   1,
		"floor":    1,
		"nobody":   0,
		"20240115": 0,
	}
	for q, want := range cases {
		if got := len(Filter(orders, q)); got != want {
			t.Fatalf("Filter(%q) = %d, want %d", q, got, want)
		}
	}
}

func TestSearch(t *testing.T) {
	svc := NewService(nil, seed(t), logger.NewNop())
	res, err := svc.Search(context.Background(), "anita")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 || res.Orders[0].CustomerName != "Anita" {
		t.Fatalf("orders = %+v", res.Orders)
	}
}

func TestWriteXLSX(t *testing.T) {
	orders := []models.Order{{
		SlNo:            "20240115-001",
		CustomerName:    "Ravi Kumar",
		ItemDescription: "Floor Mat | Roof Box",
		TotalAmount:     decimal.NewFromInt(800),
		Status:          models.StatusPending,
	}}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, orders); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Sl No" || rows[1][0] != "20240115-001" || rows[1][3] != "Ravi Kumar" || rows[1][9] != "800" {
		t.Fatalf("row = %v", rows[1])
	}
	if rows[1][12] != "2" {
		t.Fatalf("item count = %q", rows[1][12])
	}
}
