package repository

import (
	"testing"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

func TestDecrementStockIfAvailable(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)
	product := mustCreateProduct(t, db, "限量商品", 5)

	rows, err := repo.DecrementStockIfAvailable(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows want 1 got %d", rows)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 2 || got.SalesCount != 3 {
		t.Fatalf("stock/sales want 2/3 got %d/%d", got.Stock, got.SalesCount)
	}

	// 剩余库存不足整单数量时不得部分扣减
	rows, err = repo.DecrementStockIfAvailable(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("insufficient stock rows want 0 got %d", rows)
	}
	got, _ = repo.GetByID(product.ID)
	if got.Stock != 2 {
		t.Fatalf("stock must stay 2 got %d", got.Stock)
	}

	if _, err := repo.DecrementStockIfAvailable(product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
	if _, err := repo.DecrementStockIfAvailable(0, 1); err == nil {
		t.Fatalf("zero product id should be rejected")
	}
}

func TestRestoreStock(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)
	product := mustCreateProduct(t, db, "可回补商品", 10)

	if _, err := repo.DecrementStockIfAvailable(product.ID, 4); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}

	rows, err := repo.RestoreStock(product.ID, 4)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows want 1 got %d", rows)
	}
	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 10 || got.SalesCount != 0 {
		t.Fatalf("stock/sales want 10/0 got %d/%d", got.Stock, got.SalesCount)
	}

	// 销量回扣不得为负
	if _, err := repo.RestoreStock(product.ID, 5); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, _ = repo.GetByID(product.ID)
	if got.Stock != 15 || got.SalesCount != 0 {
		t.Fatalf("stock/sales want 15/0 got %d/%d", got.Stock, got.SalesCount)
	}

	rows, err = repo.RestoreStock(9999, 1)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("missing product rows want 0 got %d", rows)
	}
}

func TestProductListFilter(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)

	mustCreateProduct(t, db, "机械键盘", 10)
	mustCreateProduct(t, db, "蓝牙键盘", 10)
	inactive := mustCreateProduct(t, db, "下架鼠标", 10)
	inactive.Status = constants.ProductStatusDiscontinued
	if err := repo.Update(inactive); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	products, total, err := repo.List(ProductListFilter{OnlyActive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("active total want 2 got %d/%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{Search: "键盘"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("keyword total want 2 got %d", total)
	}
	for _, p := range products {
		if p.Name != "机械键盘" && p.Name != "蓝牙键盘" {
			t.Fatalf("unexpected product in keyword result: %s", p.Name)
		}
	}

	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("unfiltered total want 3 got %d", total)
	}
}

func TestListByIDs(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)

	a := mustCreateProduct(t, db, "商品A", 1)
	mustCreateProduct(t, db, "商品B", 1)

	products, err := repo.ListByIDs([]uint{a.ID, 9999})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != a.ID {
		t.Fatalf("want only product A got %+v", products)
	}

	products, err = repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("list by empty ids failed: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("empty ids want no rows got %d", len(products))
	}
}
