package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		in       error
		expected error
	}{
		{"nil passes through", nil, nil},
		{"deadlock is a retryable conflict", &mysql.MySQLError{Number: 1213}, domain.ErrStorageConflict},
		{"lock wait timeout is a retryable conflict", &mysql.MySQLError{Number: 1205}, domain.ErrStorageConflict},
		{"wrapped driver error is still translated", fmt.Errorf("save order: %w", &mysql.MySQLError{Number: 1213}), domain.ErrStorageConflict},
		{"domain errors pass through", domain.ErrOrderNotFound, domain.ErrOrderNotFound},
		{"unknown errors pass through", errors.New("boom"), errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.in)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.EqualError(t, got, tt.expected.Error())
		})
	}
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("create order: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("duplicate-looking but not a driver error")))
	assert.False(t, IsDuplicateEntry(nil))
}
