package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// IsDuplicateKey 唯一索引冲突。开启 TranslateError 时 gorm 会转成 ErrDuplicatedKey，否则看 MySQL 的 1062
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// IsNotFound 查询结果为空
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
