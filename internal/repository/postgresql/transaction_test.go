package postgresql

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	pgx.Tx
	name string
}

func TestGetQuerier(t *testing.T) {
	db := &database.DB{}

	q := GetQuerier(context.Background(), db)
	assert.Equal(t, db.Pool, q)

	tx := stubTx{name: "snapshot"}
	q = GetQuerier(ContextWithTx(context.Background(), tx), db)
	assert.Equal(t, tx, q)
}
