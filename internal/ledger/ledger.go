// Package ledger содержит журнал магазина: товары, продажи, расходы и настройки,
// единственные разрешённые переходы между их состояниями и производные запросы.
//
// Журнал не выполняет ввод-вывод. Каждая мутация строит новый снимок и атомарно
// подменяет текущий; сохранение снимка — забота вызывающего слоя.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
)

// Clock возвращает текущее время. Подменяется в тестах.
type Clock func() time.Time

// Ledger хранит текущий снимок состояния магазина.
type Ledger struct {
	mu    sync.RWMutex
	snap  *domain.Snapshot
	clock Clock
}

// Option настраивает Ledger.
type Option func(*Ledger)

// WithClock задаёт источник времени для UpdatedAt.
func WithClock(clock Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// New создаёт журнал поверх снимка. nil означает пустой снимок с настройками по умолчанию.
func New(snap *domain.Snapshot, opts ...Option) *Ledger {
	if snap == nil {
		snap = domain.NewSnapshot()
	}

	l := &Ledger{
		snap:  snap.Clone().Normalize(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Snapshot возвращает текущий снимок. Снимок нельзя изменять: следующая мутация
// заменит его новым, а не изменит на месте.
func (l *Ledger) Snapshot() *domain.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Replace подменяет снимок целиком, например после повторной загрузки из хранилища.
func (l *Ledger) Replace(snap *domain.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = snap.Clone().Normalize()
}

// mutate применяет fn к копии текущего снимка и, если fn не вернула ошибку,
// подменяет снимок и увеличивает ревизию.
func (l *Ledger) mutate(fn func(next *domain.Snapshot, now time.Time) error) (*domain.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.snap.Clone()
	if err := fn(next, l.clock()); err != nil {
		return nil, err
	}
	next.Revision++
	l.snap = next

	return next, nil
}

// AddProduct добавляет новый товар. Идентификатор должен быть уникальным.
func (l *Ledger) AddProduct(p domain.Product) (*domain.Snapshot, error) {
	const op = "Ledger.AddProduct"

	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		if next.ProductIndex(p.ID) >= 0 {
			return e.Wrap(op, e.ErrDuplicateID)
		}
		next.Products = slices.Insert(next.Products, 0, p)
		return nil
	})
}

// UpdateProduct применяет патч к товару и обновляет UpdatedAt.
// Остаток меняется только если он явно задан в патче.
func (l *Ledger) UpdateProduct(id string, patch domain.ProductPatch) (*domain.Snapshot, error) {
	const op = "Ledger.UpdateProduct"

	return l.mutate(func(next *domain.Snapshot, now time.Time) error {
		i := next.ProductIndex(id)
		if i < 0 {
			return e.Wrap(op, e.ErrProductNotFound)
		}
		next.Products[i] = next.Products[i].Apply(patch, now)
		return nil
	})
}

// DeleteProduct удаляет товар. Продажи, ссылающиеся на него, остаются нетронутыми.
func (l *Ledger) DeleteProduct(id string) (*domain.Snapshot, error) {
	const op = "Ledger.DeleteProduct"

	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		i := next.ProductIndex(id)
		if i < 0 {
			return e.Wrap(op, e.ErrProductNotFound)
		}
		next.Products = slices.Delete(next.Products, i, i+1)
		return nil
	})
}

// RecordSale добавляет продажу в начало истории и списывает количество со склада.
// Достаточность остатка не проверяется: это политика вызывающего слоя.
func (l *Ledger) RecordSale(s domain.Sale) (*domain.Snapshot, error) {
	const op = "Ledger.RecordSale"

	return l.mutate(func(next *domain.Snapshot, now time.Time) error {
		if next.SaleIndex(s.ID) >= 0 {
			return e.Wrap(op, e.ErrDuplicateID)
		}

		i := next.ProductIndex(s.ProductID)
		if i < 0 {
			return e.Wrap(op, e.ErrProductNotFound)
		}

		next.Products[i].Stock -= s.Quantity
		next.Products[i].UpdatedAt = now
		next.Sales = slices.Insert(next.Sales, 0, s)
		return nil
	})
}

// DeleteSaleRes — результат удаления продажи.
type DeleteSaleRes struct {
	Snapshot *domain.Snapshot
	Sale     domain.Sale
	// Restored равен false, если товар продажи уже удалён и остаток не восстановлен.
	Restored bool
}

// DeleteSale удаляет продажу и возвращает количество на склад, если товар ещё существует.
// Если товар удалён, восстановление пропускается: история остатков расходится намеренно.
func (l *Ledger) DeleteSale(id string) (*DeleteSaleRes, error) {
	const op = "Ledger.DeleteSale"

	res := &DeleteSaleRes{}
	snap, err := l.mutate(func(next *domain.Snapshot, now time.Time) error {
		i := next.SaleIndex(id)
		if i < 0 {
			return e.Wrap(op, e.ErrSaleNotFound)
		}

		res.Sale = next.Sales[i]
		next.Sales = slices.Delete(next.Sales, i, i+1)

		if pi := next.ProductIndex(res.Sale.ProductID); pi >= 0 {
			next.Products[pi].Stock += res.Sale.Quantity
			next.Products[pi].UpdatedAt = now
			res.Restored = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Snapshot = snap
	return res, nil
}

// AddExpense добавляет расход в начало истории.
func (l *Ledger) AddExpense(exp domain.Expense) (*domain.Snapshot, error) {
	const op = "Ledger.AddExpense"

	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		if next.ExpenseIndex(exp.ID) >= 0 {
			return e.Wrap(op, e.ErrDuplicateID)
		}
		next.Expenses = slices.Insert(next.Expenses, 0, exp)
		return nil
	})
}

// DeleteExpense удаляет расход.
func (l *Ledger) DeleteExpense(id string) (*domain.Snapshot, error) {
	const op = "Ledger.DeleteExpense"

	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		i := next.ExpenseIndex(id)
		if i < 0 {
			return e.Wrap(op, e.ErrExpenseNotFound)
		}
		next.Expenses = slices.Delete(next.Expenses, i, i+1)
		return nil
	})
}

// UpdateSettings поверхностно сливает патч с настройками.
func (l *Ledger) UpdateSettings(patch domain.SettingsPatch) (*domain.Snapshot, error) {
	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		next.Settings = next.Settings.Merge(patch)
		return nil
	})
}

// ClearHistory очищает продажи и расходы. Товары и настройки не меняются.
func (l *Ledger) ClearHistory() (*domain.Snapshot, error) {
	return l.mutate(func(next *domain.Snapshot, _ time.Time) error {
		next.Sales = []domain.Sale{}
		next.Expenses = []domain.Expense{}
		return nil
	})
}

// Product возвращает копию товара по идентификатору.
func (l *Ledger) Product(id string) (domain.Product, error) {
	snap := l.Snapshot()
	i := snap.ProductIndex(id)
	if i < 0 {
		return domain.Product{}, e.ErrProductNotFound
	}

	return snap.Products[i], nil
}
