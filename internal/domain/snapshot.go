package domain

import "slices"

// Snapshot — всё состояние магазина. Заменяется целиком при каждой мутации,
// поэтому держатель старого снимка никогда не видит частичных изменений.
type Snapshot struct {
	Products []Product
	Sales    []Sale    // новые в начале
	Expenses []Expense // новые в начале
	Settings Settings
	Revision uint64
}

// NewSnapshot возвращает пустой снимок с настройками по умолчанию.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Products: []Product{},
		Sales:    []Sale{},
		Expenses: []Expense{},
		Settings: DefaultSettings(),
	}
}

// Clone делает копию снимка с независимыми срезами.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Products: cloneSlice(s.Products),
		Sales:    cloneSlice(s.Sales),
		Expenses: cloneSlice(s.Expenses),
		Settings: s.Settings,
		Revision: s.Revision,
	}
}

// Normalize приводит загруженный снимок к корректному виду: nil-коллекции становятся пустыми,
// отсутствующие настройки заполняются значениями по умолчанию.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	s.Settings = s.Settings.WithDefaults()

	return s
}

// ProductIndex возвращает позицию товара или -1.
func (s *Snapshot) ProductIndex(id string) int {
	return slices.IndexFunc(s.Products, func(p Product) bool { return p.ID == id })
}

// SaleIndex возвращает позицию продажи или -1.
func (s *Snapshot) SaleIndex(id string) int {
	return slices.IndexFunc(s.Sales, func(sl Sale) bool { return sl.ID == id })
}

// ExpenseIndex возвращает позицию расхода или -1.
func (s *Snapshot) ExpenseIndex(id string) int {
	return slices.IndexFunc(s.Expenses, func(ex Expense) bool { return ex.ID == id })
}

func cloneSlice[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}
