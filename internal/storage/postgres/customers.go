package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/query"
)

const customerColumns = `id, first_name, last_name, email, phone, membership_type, membership_number, expiry_date, created_at, visits`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var (
		c      model.Customer
		plan   string
		expiry time.Time
	)
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &plan, &c.MembershipNumber, &expiry, &c.CreatedAt, &c.Visits); err != nil {
		return nil, err
	}
	c.MembershipType = model.MembershipType(plan)
	c.ExpiryDate = model.DateOf(expiry)
	return &c, nil
}

func scanCustomers(rows pgx.Rows) ([]model.Customer, error) {
	defer rows.Close()

	var result []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

// escapeLike neutralises LIKE wildcards in user supplied search terms.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func pageConditions(q model.PageQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if term := strings.TrimSpace(q.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("((first_name || ' ' || last_name) ILIKE $%d OR email ILIKE $%d OR membership_number ILIKE $%d)", n, n, n))
	}

	switch filter := query.NormalizeFilter(q.Filter); filter {
	case model.FilterAll:
	case model.FilterExpiring:
		from, to := queryWindow(q.Now)
		args = append(args, from, to)
		conds = append(conds, fmt.Sprintf("expiry_date BETWEEN $%d AND $%d", len(args)-1, len(args)))
	default:
		args = append(args, string(filter))
		conds = append(conds, fmt.Sprintf("membership_type = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *customerRepository) Paginate(ctx context.Context, q model.PageQuery) (*model.Page, error) {
	where, args := pageConditions(q)

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	size := query.NormalizePageSize(q.PageSize)
	totalPages := query.TotalPages(total, size)
	page := &model.Page{Customers: []model.Customer{}, TotalPages: totalPages, TotalItems: total}
	if total == 0 {
		return page, nil
	}

	current := query.ClampPage(q.Page, totalPages)
	offset := (current - 1) * size
	pageArgs := append(append([]any{}, args...), size, offset)
	sql := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(pageArgs)-1, len(pageArgs))

	rows, err := r.storage.pool.Query(ctx, sql, pageArgs...)
	if err != nil {
		return nil, err
	}
	customers, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	if customers != nil {
		page.Customers = customers
	}
	return page, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	row := r.storage.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) GetByMembershipNumber(ctx context.Context, number string) (*model.Customer, error) {
	row := r.storage.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE membership_number=$1 ORDER BY created_at DESC LIMIT 1`, number)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c model.Customer) (*model.Customer, error) {
	const stmt = `INSERT INTO customers (` + customerColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.storage.pool.Exec(ctx, stmt,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, string(c.MembershipType),
		c.MembershipNumber, c.ExpiryDate.Midnight(time.UTC), c.CreatedAt, c.Visits)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Update(ctx context.Context, c model.Customer) (*model.Customer, error) {
	const stmt = `UPDATE customers
                   SET first_name=$2, last_name=$3, email=$4, phone=$5, membership_type=$6, expiry_date=$7, visits=$8
                   WHERE id=$1
                   RETURNING ` + customerColumns
	row := r.storage.pool.QueryRow(ctx, stmt,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, string(c.MembershipType),
		c.ExpiryDate.Midnight(time.UTC), c.Visits)
	updated, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *customerRepository) Stats(ctx context.Context, now time.Time) (*model.Stats, error) {
	const stmt = `SELECT COUNT(*),
                          COUNT(*) FILTER (WHERE membership_type = 'prestige'),
                          COUNT(*) FILTER (WHERE membership_type = 'premier'),
                          COUNT(*) FILTER (WHERE expiry_date BETWEEN $1 AND $2)
                   FROM customers`
	from, to := queryWindow(now)
	var stats model.Stats
	err := r.storage.pool.QueryRow(ctx, stmt, from, to).Scan(&stats.Total, &stats.Prestige, &stats.Premier, &stats.ExpiringSoon)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func queryWindow(now time.Time) (time.Time, time.Time) {
	from, to := query.ExpiringWindow(now)
	return from.Midnight(time.UTC), to.Midnight(time.UTC)
}

// DecrementVisits lowers visits by one unless already zero. The fallback read
// runs in the same transaction to tell a missing row from one at zero.
func (r *customerRepository) DecrementVisits(ctx context.Context, id string) (*model.Customer, error) {
	var result *model.Customer
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `UPDATE customers SET visits = visits - 1 WHERE id=$1 AND visits > 0 RETURNING `+customerColumns, id)
		c, err := scanCustomer(row)
		if err == nil {
			result = c
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		row = tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
		c, err = scanCustomer(row)
		if err != nil {
			return notFound(err)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
