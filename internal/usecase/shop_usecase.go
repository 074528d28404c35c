package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/google/uuid"
)

// ShopUseCase связывает журнал магазина с хранилищем снимков.
// Каждая успешная мутация сразу сохраняется; мутации выполняются строго по очереди,
// поэтому снимки попадают в хранилище в том же порядке, в котором были созданы.
type ShopUseCase struct {
	mu           sync.Mutex
	ledger       *ledger.Ledger
	snapshotRepo SnapshotRepository
	reportRepo   ReportRepository
	exporter     ReportExporter
	logger       logger.Logger
	clock        Clock
	newID        func() string
}

// Option настраивает ShopUseCase.
type Option func(*ShopUseCase)

// WithClock задаёт источник времени, в том числе часовой пояс дневных границ.
func WithClock(clock Clock) Option {
	return func(s *ShopUseCase) {
		s.clock = clock
	}
}

// WithIDGenerator задаёт генератор идентификаторов.
func WithIDGenerator(gen func() string) Option {
	return func(s *ShopUseCase) {
		s.newID = gen
	}
}

// WithReportRepository включает архивирование отчётов.
func WithReportRepository(repo ReportRepository) Option {
	return func(s *ShopUseCase) {
		s.reportRepo = repo
	}
}

func NewShopUC(
	snapshotRepo SnapshotRepository,
	exporter ReportExporter,
	logger logger.Logger,
	opts ...Option,
) *ShopUseCase {
	s := &ShopUseCase{
		snapshotRepo: snapshotRepo,
		exporter:     exporter,
		logger:       logger,
		clock:        time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ledger = ledger.New(nil, ledger.WithClock(ledger.Clock(s.clock)))
	return s
}

// Load читает сохранённый снимок. Отсутствующий или повреждённый документ
// заменяется снимком по умолчанию, приложение продолжает работу.
func (s *ShopUseCase) Load(ctx context.Context) {
	const op = "ShopUseCase.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshotRepo.Load(ctx)
	switch {
	case err == nil:
		s.ledger.Replace(snap)
		s.logger.Infof("snapshot loaded: revision %d, %d products, %d sales, %d expenses",
			snap.Revision, len(snap.Products), len(snap.Sales), len(snap.Expenses))
	case errors.Is(err, e.ErrSnapshotNotFound):
		s.ledger.Replace(domain.NewSnapshot())
		s.logger.Infof("no saved snapshot, starting with defaults")
	default:
		s.ledger.Replace(domain.NewSnapshot())
		s.logger.Warnf("failed to load snapshot, starting with defaults: %v", e.Wrap(op, err))
	}
}

// Authenticate сверяет учётные данные с настройками. Ошибка не уточняет,
// какое из полей неверно.
func (s *ShopUseCase) Authenticate(id, pass string) error {
	settings := s.ledger.Snapshot().Settings

	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(settings.AdminID)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(settings.AdminPass)) == 1
	if !idOK || !passOK {
		return e.ErrInvalidCredentials
	}

	return nil
}

// Snapshot возвращает копию текущего снимка, изменения которой не затрагивают журнал.
func (s *ShopUseCase) Snapshot() *domain.Snapshot {
	return s.ledger.Snapshot().Clone()
}

func (s *ShopUseCase) Settings() domain.Settings {
	return s.ledger.Snapshot().Settings
}

func (s *ShopUseCase) SearchProducts(term string) []domain.Product {
	return ledger.SearchProducts(s.ledger.Snapshot(), term)
}

func (s *ShopUseCase) SearchSales(term string) *SearchSalesRes {
	sales, total := ledger.SearchSales(s.ledger.Snapshot(), term)
	return &SearchSalesRes{Sales: sales, Total: total}
}

func (s *ShopUseCase) Expenses() []domain.Expense {
	return slices.Clone(s.ledger.Snapshot().Expenses)
}

func (s *ShopUseCase) Statistics() ledger.Statistics {
	return s.ledger.Statistics(s.clock())
}

func (s *ShopUseCase) Report(r ledger.Range) (*ledger.Report, error) {
	const op = "ShopUseCase.Report"

	if err := r.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.ledger.Report(r), nil
}

// AddProduct создаёт товар с новым идентификатором.
func (s *ShopUseCase) AddProduct(ctx context.Context, req *AddProductReq) (*MutationRes, error) {
	const op = "ShopUseCase.AddProduct"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		product, err := domain.NewProduct(s.newID(), req.Name, req.Category, req.PurchasePrice,
			req.SellingPrice, req.Stock, req.MinStockAlert, s.clock())
		if err != nil {
			return nil, err
		}

		return s.ledger.AddProduct(*product)
	})
}

func (s *ShopUseCase) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*MutationRes, error) {
	const op = "ShopUseCase.UpdateProduct"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		if err := patch.Validate(); err != nil {
			return nil, err
		}

		return s.ledger.UpdateProduct(id, patch)
	})
}

func (s *ShopUseCase) DeleteProduct(ctx context.Context, id string) (*MutationRes, error) {
	const op = "ShopUseCase.DeleteProduct"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		return s.ledger.DeleteProduct(id)
	})
}

// SellProduct записывает продажу. Продажа больше остатка отклоняется до обращения к журналу.
func (s *ShopUseCase) SellProduct(ctx context.Context, req *SellProductReq) (*MutationRes, error) {
	const op = "ShopUseCase.SellProduct"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		product, err := s.ledger.Product(req.ProductID)
		if err != nil {
			return nil, err
		}

		if req.Quantity > product.Stock {
			return nil, e.ErrInsufficientStock
		}

		unitPrice := product.SellingPrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}

		sale, err := domain.NewSaleFor(s.newID(), &product, req.Quantity, unitPrice, s.clock())
		if err != nil {
			return nil, err
		}

		return s.ledger.RecordSale(*sale)
	})
}

// DeleteSale удаляет продажу. Если товар уже удалён, остаток не восстанавливается.
func (s *ShopUseCase) DeleteSale(ctx context.Context, id string) (*DeleteSaleRes, error) {
	const op = "ShopUseCase.DeleteSale"

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ledger.DeleteSale(id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !res.Restored {
		s.logger.Warnf("sale %s deleted, product %s no longer exists: stock not restored",
			res.Sale.ID, res.Sale.ProductID)
	}

	return &DeleteSaleRes{
		MutationRes: *s.persist(ctx, op, res.Snapshot),
		Sale:        res.Sale,
		Restored:    res.Restored,
	}, nil
}

func (s *ShopUseCase) AddExpense(ctx context.Context, req *AddExpenseReq) (*MutationRes, error) {
	const op = "ShopUseCase.AddExpense"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		exp, err := domain.NewExpense(s.newID(), req.Description, req.Category, req.Amount, s.clock())
		if err != nil {
			return nil, err
		}

		return s.ledger.AddExpense(*exp)
	})
}

func (s *ShopUseCase) DeleteExpense(ctx context.Context, id string) (*MutationRes, error) {
	const op = "ShopUseCase.DeleteExpense"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		return s.ledger.DeleteExpense(id)
	})
}

// UpdateSettings меняет название магазина и тему одной мутацией.
// Оба поля проверяются до изменения журнала: при ошибке не применяется ни одно.
func (s *ShopUseCase) UpdateSettings(ctx context.Context, req *UpdateSettingsReq) (*MutationRes, error) {
	const op = "ShopUseCase.UpdateSettings"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		if req.ShopName == nil && req.Theme == nil {
			return nil, e.ErrMissingFields
		}

		var patch domain.SettingsPatch
		if req.ShopName != nil {
			name := strings.TrimSpace(*req.ShopName)
			if name == "" {
				return nil, e.ErrMissingFields
			}
			patch.ShopName = &name
		}
		if req.Theme != nil {
			t, err := domain.ParseTheme(*req.Theme)
			if err != nil {
				return nil, err
			}
			patch.Theme = &t
		}

		return s.ledger.UpdateSettings(patch)
	})
}

// ChangeCredentials меняет логин и пароль администратора.
// Новый пароль, если он задан, должен совпадать с подтверждением.
func (s *ShopUseCase) ChangeCredentials(ctx context.Context, req *ChangeCredentialsReq) (*MutationRes, error) {
	const op = "ShopUseCase.ChangeCredentials"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		if req.Password != "" && req.Password != req.ConfirmPassword {
			return nil, e.ErrPasswordMismatch
		}

		var patch domain.SettingsPatch
		if id := strings.TrimSpace(req.AdminID); id != "" {
			patch.AdminID = &id
		}
		if req.Password != "" {
			pass := req.Password
			patch.AdminPass = &pass
		}

		return s.ledger.UpdateSettings(patch)
	})
}

// ClearHistory удаляет все продажи и расходы.
func (s *ShopUseCase) ClearHistory(ctx context.Context) (*MutationRes, error) {
	const op = "ShopUseCase.ClearHistory"

	return s.commit(ctx, op, func() (*domain.Snapshot, error) {
		return s.ledger.ClearHistory()
	})
}

// ExportReport строит файл отчёта за интервал.
func (s *ShopUseCase) ExportReport(r ledger.Range) (*ReportFile, error) {
	const op = "ShopUseCase.ExportReport"

	rep, err := s.Report(r)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	file, err := s.exporter.Export(rep)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return file, nil
}

// ArchiveReport выгружает отчёт в объектное хранилище.
func (s *ShopUseCase) ArchiveReport(ctx context.Context, r ledger.Range) (*ArchiveReportRes, error) {
	const op = "ShopUseCase.ArchiveReport"

	if s.reportRepo == nil {
		return nil, e.Wrap(op, e.ErrArchiveDisabled)
	}

	file, err := s.ExportReport(r)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := s.reportRepo.Upload(ctx, file)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("report archived: %s", key)
	return &ArchiveReportRes{Key: key}, nil
}

// commit выполняет мутацию под мьютексом и сохраняет полученный снимок.
func (s *ShopUseCase) commit(ctx context.Context, op string, mutate func() (*domain.Snapshot, error)) (*MutationRes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := mutate()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.persist(ctx, op, snap), nil
}

// persist сохраняет снимок. Ошибка сохранения не откатывает мутацию,
// а возвращается как предупреждение.
func (s *ShopUseCase) persist(ctx context.Context, op string, snap *domain.Snapshot) *MutationRes {
	if err := s.snapshotRepo.Save(ctx, snap); err != nil {
		s.logger.Errorf(e.Wrap(op, err), "failed to save snapshot revision %d", snap.Revision)
		return NewMutationRes(snap, WarnNotSaved)
	}

	return NewMutationRes(snap, "")
}
