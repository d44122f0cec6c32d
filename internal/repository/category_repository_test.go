package repository

import (
	"testing"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/models"

	"gorm.io/gorm"
)

func mustCreateCategory(t *testing.T, db *gorm.DB, name string, displayOrder int, active bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:         name,
		IsActive:     active,
		DisplayOrder: displayOrder,
	}
	if err := NewCategoryRepository(db).Create(category); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	// gorm 对 default:true 字段的零值写入需要显式落库
	if !active {
		if err := db.Model(category).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate category failed: %v", err)
		}
	}
	return category
}

func TestCategoryListActiveOrdering(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCategoryRepository(db)

	third := mustCreateCategory(t, db, "分类C", 30, true)
	first := mustCreateCategory(t, db, "分类A", 10, true)
	second := mustCreateCategory(t, db, "分类B", 20, true)
	mustCreateCategory(t, db, "停用分类", 5, false)

	categories, err := repo.ListActive()
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("active categories want 3 got %d", len(categories))
	}
	wantOrder := []uint{first.ID, second.ID, third.ID}
	for i, want := range wantOrder {
		if categories[i].ID != want {
			t.Fatalf("position %d want id %d got %d", i, want, categories[i].ID)
		}
	}
}

func TestCategoryGetByName(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewCategoryRepository(db)
	created := mustCreateCategory(t, db, "外设", 1, true)

	got, err := repo.GetByName("外设")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("want category %d got %+v", created.ID, got)
	}

	missing, err := repo.GetByName("不存在")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing name should return nil")
	}
}

func TestCountActiveByCategory(t *testing.T) {
	db := setupRepoDB(t)
	productRepo := NewProductRepository(db)
	category := mustCreateCategory(t, db, "键盘", 1, true)

	inCategory := mustCreateProduct(t, db, "青轴键盘", 5)
	if err := db.Model(inCategory).Update("category_id", category.ID).Error; err != nil {
		t.Fatalf("assign category failed: %v", err)
	}
	discontinued := mustCreateProduct(t, db, "停产键盘", 0)
	if err := db.Model(discontinued).Updates(map[string]interface{}{
		"category_id": category.ID,
		"status":      constants.ProductStatusDiscontinued,
	}).Error; err != nil {
		t.Fatalf("assign category failed: %v", err)
	}
	mustCreateProduct(t, db, "无分类商品", 5)

	count, err := productRepo.CountActiveByCategory(category.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("active count want 1 got %d", count)
	}
}

func TestProductListFilterByCategory(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewProductRepository(db)
	category := mustCreateCategory(t, db, "数码", 1, true)

	tagged := mustCreateProduct(t, db, "分类商品", 5)
	if err := db.Model(tagged).Update("category_id", category.ID).Error; err != nil {
		t.Fatalf("assign category failed: %v", err)
	}
	mustCreateProduct(t, db, "另一商品", 5)

	products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != tagged.ID {
		t.Fatalf("category filter want single product, got total=%d", total)
	}
}
