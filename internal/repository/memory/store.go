// Package memory keeps every repository in process. Transactions are
// serialized and rolled back by restoring a snapshot, which is enough for
// tests and local runs with STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type Store struct {
	// mu guards every map and is held for the whole of a transaction.
	mu          sync.Mutex
	employees   map[string]employee.Employee
	items       map[string]payroll.PayrollItem
	adjustments map[string]adjustment.SalaryAdjustment

	now func() time.Time
}

var _ database.Transactor = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		items:       make(map[string]payroll.PayrollItem),
		adjustments: make(map[string]adjustment.SalaryAdjustment),
		now:         time.Now,
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// locked runs fn with the store lock held, unless ctx already belongs to
// a transaction of this store.
func (s *Store) locked(ctx context.Context, fn func() error) error {
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// WithinTransaction executes fn with the store locked. If fn returns an
// error or panics, all writes made through ctx are discarded.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

type snapshot struct {
	employees   map[string]employee.Employee
	items       map[string]payroll.PayrollItem
	adjustments map[string]adjustment.SalaryAdjustment
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		employees:   copyMap(s.employees),
		items:       copyMap(s.items),
		adjustments: copyMap(s.adjustments),
	}
}

func (s *Store) restore(snap snapshot) {
	s.employees = snap.employees
	s.items = snap.items
	s.adjustments = snap.adjustments
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (s *Store) Payroll() payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (s *Store) Adjustments() adjustment.SalaryAdjustmentRepository {
	return &adjustmentRepository{s: s}
}

// PutEmployee inserts or replaces an employee as-is. Used to seed the
// roster for local runs and tests.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Version == 0 {
		e.Version = 1
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
		e.UpdatedAt = e.CreatedAt
	}
	s.employees[e.ID] = e
}

func (s *Store) employeeName(id string) *string {
	e, ok := s.employees[id]
	if !ok {
		return nil
	}
	name := e.FullName
	return &name
}

func errDuplicate(kind, id string) error {
	return fmt.Errorf("%s %s already exists: %w", kind, id, apperror.ErrConflict)
}
