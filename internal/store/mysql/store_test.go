package mysql

import (
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &driver.MySQLError{Number: 1062, Message: "Duplicate entry 'abc' for key 'products.PRIMARY'"}

	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert product: %w", dup)))

	assert.False(t, isDuplicateEntry(nil))
	assert.False(t, isDuplicateEntry(errors.New("connection refused")))
	assert.False(t, isDuplicateEntry(&driver.MySQLError{Number: 1213, Message: "Deadlock found"}))
}
