package database

import (
	"context"
	"errors"
	"fmt"

	"expenses/models"

	"gorm.io/gorm"
)

// ErrExpenseNotFound no row matched the id
var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseRepository issues one statement per operation against the expenses table.
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository wraps a gorm handle
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts e; the database side fills ID and gorm stamps CreatedAt.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// List returns every expense, newest first. id breaks ties between equal timestamps.
func (r *ExpenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Delete removes the expense with the given id, or returns ErrExpenseNotFound.
func (r *ExpenseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Expense{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete expense %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
