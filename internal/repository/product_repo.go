package repository

import (
	"errors"
	"fmt"

	"plumberry-inventory/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	// Create inserts product and assigns the next sequential ID to it.
	Create(product *model.Product) error
	// FindAll returns every product in ID order.
	FindAll() ([]model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	UpdateStock(id int64, newStock int) error
	Count() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSKU
	}
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) UpdateStock(id int64, newStock int) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", newStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrRecordNotFound)
	}
	return nil
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}
