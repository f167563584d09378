// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"

	"nany-todo/internal/models"
)

// classify はドライバーのエラーを models.ErrorKind に分類します。
func classify(err error) models.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return models.KindUnavailable
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1044, 1045, 1142:
			// access denied
			return models.KindUnauthorized
		case 1062, 1406, 1048:
			// duplicate entry, data too long, column cannot be null
			return models.KindInvalid
		}
	}
	return models.KindUnknown
}
