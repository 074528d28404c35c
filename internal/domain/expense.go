package domain

import (
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory — категория расхода, если она не указана
const DefaultExpenseCategory = "Général"

// Expense описывает операционный расход
type Expense struct {
	ID          string
	Description string
	Category    string
	Amount      decimal.Decimal
	Timestamp   time.Time
}

func NewExpense(id, description, category string, amount decimal.Decimal, ts time.Time) (*Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultExpenseCategory
	}

	exp := &Expense{
		ID:          strings.TrimSpace(id),
		Description: strings.TrimSpace(description),
		Category:    category,
		Amount:      amount,
		Timestamp:   ts,
	}

	if exp.ID == "" {
		return nil, e.ErrIDRequired
	}

	if exp.Description == "" {
		return nil, e.ErrDescriptionRequired
	}

	if exp.Amount.IsNegative() {
		return nil, e.ErrAmountMustBePositive
	}

	return exp, nil
}
