package visits

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapVisitInsertErrorUnknownCar(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "service_visits_car_id_fkey"}
	err := mapVisitInsertError(fmt.Errorf("insert visit: %w", pgErr))
	require.ErrorIs(t, err, ErrCarNotFound)
}

func TestMapVisitInsertErrorPassesThroughOtherErrors(t *testing.T) {
	err := mapVisitInsertError(errors.New("connection reset"))
	require.EqualError(t, err, "connection reset")
	require.NotErrorIs(t, err, ErrCarNotFound)
}
