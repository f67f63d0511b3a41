package dao

import (
	"errors"
	"strings"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// now 当前时间，UTC 且截断到微秒，保证各数据库存取一致
func now() time.Time {
	return timex.Normalize(time.Now())
}

// wrapError 将驱动错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if field, ok := duplicateKeyField(err); ok {
		return &domain.DuplicateKeyError{Field: field, Err: err}
	}
	return err
}

// duplicateKeyField reports whether err is a unique violation and which field it hit
func duplicateKeyField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgerrcode.UniqueViolation {
			return "", false
		}
		if pgErr.ColumnName != "" {
			return pgErr.ColumnName, true
		}
		return fieldFromConstraint(pgErr.ConstraintName), true
	}

	var myErr *mysqlDriver.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		// Duplicate entry 'x' for key 'category.PRIMARY'
		key := myErr.Message
		if i := strings.LastIndex(key, "for key "); i >= 0 {
			key = strings.Trim(key[i+len("for key "):], "'`")
		}
		return fieldFromConstraint(key), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "id", true
	}

	// UNIQUE constraint failed: category.id
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		cols := msg[i+len("UNIQUE constraint failed: "):]
		if j := strings.IndexAny(cols, ", "); j >= 0 {
			cols = cols[:j]
		}
		if k := strings.LastIndex(cols, "."); k >= 0 {
			cols = cols[k+1:]
		}
		return cols, true
	}

	return "", false
}

// fieldFromConstraint maps a constraint or index name to the request field it guards
func fieldFromConstraint(name string) string {
	if strings.Contains(strings.ToLower(name), "email") {
		return "email"
	}
	return "id"
}

type tombstoneCount struct {
	IsDeleted bool
	Total     int64
}

// countByTombstone groups the rows of q by is_deleted
func countByTombstone(q *gorm.DB) (domain.EntityCount, error) {
	var rows []tombstoneCount
	if err := q.Select("is_deleted, COUNT(*) AS total").Group("is_deleted").Scan(&rows).Error; err != nil {
		return domain.EntityCount{}, wrapError(err)
	}
	var out domain.EntityCount
	for _, row := range rows {
		if row.IsDeleted {
			out.Tombstoned += row.Total
		} else {
			out.Live += row.Total
		}
	}
	return out, nil
}
