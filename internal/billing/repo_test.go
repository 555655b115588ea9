package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The status column is a Postgres enum; comparing it to a text parameter
// straight would fail parse analysis once $1 = '' fixes the parameter as text.
func TestListInvoicesQueryComparesStatusAsText(t *testing.T) {
	require.Contains(t, listInvoicesQuery, "status::text = $1")
	require.NotContains(t, listInvoicesQuery, "status = $1")
}
