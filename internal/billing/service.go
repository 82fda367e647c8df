package billing

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/inventory"
	"github.com/medbill/medbill/internal/masterdata/companies"
	"github.com/medbill/medbill/internal/rbac"
	"github.com/medbill/medbill/internal/shared"
)

// Repository abstracts bill persistence for the service.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Bill, error)
	Items(ctx context.Context, billID int64) ([]LineItem, error)
	List(ctx context.Context, filters shared.ListFilters, scope rbac.Predicate) ([]Bill, int, error)
	SoftDelete(ctx context.Context, id int64) error
}

// TxRepository is the transactional view used while a bill and its stock move together.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id int64) (Bill, error)
	Items(ctx context.Context, billID int64) ([]LineItem, error)
	Catalog(ctx context.Context, ids []int64) (map[int64]ProductSnapshot, error)
	Insert(ctx context.Context, bill Bill) (Bill, error)
	InsertItems(ctx context.Context, billID int64, items []LineItem) error
	DeleteItems(ctx context.Context, billID int64) error
	Update(ctx context.Context, bill Bill) (Bill, error)
	Stock() inventory.Store
}

// UserLookup checks that bill owners exist.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CompanyLookup resolves the company a bill is issued under.
type CompanyLookup interface {
	Lookup(ctx context.Context, id int64) (companies.Company, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort receives bill counters.
type MetricsPort interface {
	BillCreated(units int)
}

// Service orchestrates bill creation, edits and reads.
type Service struct {
	repo      Repository
	users     UserLookup
	companies CompanyLookup
	audit     AuditPort
	metrics   MetricsPort
	logger    *slog.Logger
	now       func() time.Time
	suffix    func() string
}

// NewService builds Service. audit and metrics may be nil.
func NewService(repo Repository, users UserLookup, companies CompanyLookup, audit AuditPort, metrics MetricsPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		users:     users,
		companies: companies,
		audit:     audit,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		suffix:    billSuffix,
	}
}

var (
	errBillNotFound       = shared.NewError(shared.ErrNotFound, "Invoice not found!")
	errUserNotFound       = shared.NewError(shared.ErrNotFound, "User not found!")
	errCompanyUnavailable = shared.NewError(shared.ErrValidation, "Selected company is not available for this user.")
)

// Create validates and prices a new bill, deducts stock for every line and returns the
// new bill id. Nothing is persisted when any step fails.
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateBillRequest) (int64, error) {
	if err := rbac.RequireActor(actor); err != nil {
		return 0, err
	}
	if err := shared.ValidateStruct(req); err != nil {
		return 0, err
	}
	target := actor.ID
	if actor.IsAdmin() {
		if req.UserID <= 0 {
			return 0, shared.Required("User")
		}
		target = req.UserID
	}
	if err := s.checkUser(ctx, target); err != nil {
		return 0, err
	}
	if err := s.checkCompany(ctx, req.CompanyID, target); err != nil {
		return 0, err
	}

	required := inventory.RequiredMap(stockLines(req.Items))
	deltas := inventory.Negate(required)
	var bill Bill
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		catalog, err := s.resolveCatalog(ctx, tx, req.Items)
		if err != nil {
			return err
		}
		ledger := inventory.NewLedger(tx.Stock()).WithActor(actor.ID)
		if _, err := ledger.Check(ctx, deltas); err != nil {
			return err
		}
		calc, err := Calculate(req.Items, catalog)
		if err != nil {
			return err
		}
		grand, err := ResolveDiscount(calc.SubTotal, calc.TotalTax, req.Discount)
		if err != nil {
			return err
		}
		bill, err = tx.Insert(ctx, Bill{
			BillNo:     s.billNumber(),
			CompanyID:  req.CompanyID,
			UserID:     target,
			SubTotal:   calc.SubTotal,
			TotalTax:   calc.TotalTax,
			Discount:   req.Discount,
			GrandTotal: grand,
		})
		if err != nil {
			return err
		}
		if err := tx.InsertItems(ctx, bill.ID, calc.Items); err != nil {
			return err
		}
		_, err = ledger.Apply(ctx, deltas, inventory.ReasonBillCreate, bill.ID)
		return err
	})
	if err != nil {
		return 0, err
	}

	units := unitsOf(required)
	if s.metrics != nil {
		s.metrics.BillCreated(units)
	}
	s.record(ctx, actor, "bill.create", bill.ID, map[string]any{
		"bill_no":     bill.BillNo,
		"user_id":     bill.UserID,
		"grand_total": bill.GrandTotal,
		"units":       units,
	})
	return bill.ID, nil
}

// List returns the bills visible to actor, newest first.
func (s *Service) List(ctx context.Context, actor shared.Actor, filters shared.ListFilters) ([]Bill, shared.Pagination, error) {
	if err := rbac.RequireActor(actor); err != nil {
		return nil, shared.Pagination{}, err
	}
	filters = filters.Normalize()
	bills, total, err := s.repo.List(ctx, filters, rbac.Scope(actor, "b.user_id"))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return bills, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get returns a bill with its lines.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (Detail, error) {
	if err := rbac.RequireActor(actor); err != nil {
		return Detail{}, err
	}
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if err := rbac.Authorize(actor, bill.UserID); err != nil {
		return Detail{}, err
	}
	items, err := s.repo.Items(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Bill: bill, Items: items}, nil
}

// Update applies a partial edit. Replacing items moves stock by the net difference
// between the old and new lines, and the discount is always re-checked against the
// resulting totals.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req UpdateBillRequest) (Bill, error) {
	if err := rbac.RequireActor(actor); err != nil {
		return Bill{}, err
	}
	if err := shared.ValidateStruct(req); err != nil {
		return Bill{}, err
	}
	var (
		updated Bill
		moved   int
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		bill, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := rbac.Authorize(actor, bill.UserID); err != nil {
			return err
		}
		if req.UserID != nil && *req.UserID != bill.UserID {
			// Only admins may hand a bill to someone else.
			if err := rbac.Authorize(actor, *req.UserID); err != nil {
				return err
			}
			if err := s.checkUser(ctx, *req.UserID); err != nil {
				return err
			}
			bill.UserID = *req.UserID
		}
		if req.CompanyID != nil {
			if err := s.checkCompany(ctx, *req.CompanyID, bill.UserID); err != nil {
				return err
			}
			bill.CompanyID = *req.CompanyID
		}

		var (
			ledger   *inventory.Ledger
			deltas   map[int64]int
			newLines []LineItem
		)
		replace := len(req.Items) > 0
		if replace {
			old, err := tx.Items(ctx, id)
			if err != nil {
				return err
			}
			deltas = inventory.Deltas(
				inventory.RequiredMap(persistedStockLines(old)),
				inventory.RequiredMap(stockLines(req.Items)),
			)
			catalog, err := s.resolveCatalog(ctx, tx, req.Items)
			if err != nil {
				return err
			}
			ledger = inventory.NewLedger(tx.Stock()).WithActor(actor.ID)
			if _, err := ledger.Check(ctx, deltas); err != nil {
				return err
			}
			calc, err := Calculate(req.Items, catalog)
			if err != nil {
				return err
			}
			bill.SubTotal = calc.SubTotal
			bill.TotalTax = calc.TotalTax
			newLines = calc.Items
		}
		if req.Discount != nil {
			bill.Discount = *req.Discount
		}
		grand, err := ResolveDiscount(bill.SubTotal, bill.TotalTax, bill.Discount)
		if err != nil {
			return err
		}
		bill.GrandTotal = grand

		if replace {
			if err := tx.DeleteItems(ctx, id); err != nil {
				return err
			}
			if err := tx.InsertItems(ctx, id, newLines); err != nil {
				return err
			}
			moves, err := ledger.Apply(ctx, deltas, inventory.ReasonBillUpdate, id)
			if err != nil {
				return err
			}
			moved = len(moves)
		}
		if _, err := tx.Update(ctx, bill); err != nil {
			return err
		}
		// Re-read so company and user names follow a reassignment.
		updated, err = tx.GetForUpdate(ctx, id)
		return err
	})
	if err != nil {
		return Bill{}, err
	}
	s.record(ctx, actor, "bill.update", id, map[string]any{
		"grand_total":     updated.GrandTotal,
		"items_replaced":  len(req.Items) > 0,
		"stock_movements": moved,
	})
	return updated, nil
}

// Delete soft deletes a bill. Stock consumed by the bill is not returned.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if err := rbac.RequireActor(actor); err != nil {
		return err
	}
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := rbac.Authorize(actor, bill.UserID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "bill.delete", id, map[string]any{"bill_no": bill.BillNo})
	return nil
}

func (s *Service) checkUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errUserNotFound
	}
	return nil
}

// checkCompany requires a non-deleted company owned by ownerID.
func (s *Service) checkCompany(ctx context.Context, companyID, ownerID int64) error {
	company, err := s.companies.Lookup(ctx, companyID)
	if err != nil {
		return err
	}
	if company.UserID != ownerID {
		return errCompanyUnavailable
	}
	return nil
}

func (s *Service) resolveCatalog(ctx context.Context, tx TxRepository, items []ItemInput) (map[int64]ProductSnapshot, error) {
	catalog, err := tx.Catalog(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, ok := catalog[it.ProductID]; !ok {
			return nil, errUnknownProduct
		}
	}
	return catalog, nil
}

func (s *Service) record(ctx context.Context, actor shared.Actor, action string, billID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "bill",
		EntityID: billID,
		Meta:     meta,
	}); err != nil {
		s.logger.Warn("audit bill", slog.String("action", action), slog.Int64("bill_id", billID), slog.Any("error", err))
	}
}

func (s *Service) billNumber() string {
	return fmt.Sprintf("BILL-%d-%s", s.now().UnixMilli(), s.suffix())
}

// billSuffix takes the trailing random bytes of a UUIDv7 so numbers minted in the
// same millisecond differ.
func billSuffix() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ToUpper(hex.EncodeToString(id[13:]))
}
