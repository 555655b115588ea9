package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrawais006/autoworkx/internal/bookings"
)

func TestBookingNotificationBody(t *testing.T) {
	preferred := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	body := bookingNotificationBody(bookings.Booking{
		Name:          "Sam Driver",
		Phone:         "0400 000 000",
		Email:         "sam@example.com",
		RegoPlate:     "ABC123",
		PreferredDate: &preferred,
		Message:       "Brakes are squealing.",
	})

	require.Contains(t, body, "Name: Sam Driver")
	require.Contains(t, body, "Phone: 0400 000 000")
	require.Contains(t, body, "Rego: ABC123")
	require.Contains(t, body, "Preferred date: 15 Sep 2026")
	require.Contains(t, body, "Brakes are squealing.")
}

func TestBookingNotificationBodyMinimal(t *testing.T) {
	body := bookingNotificationBody(bookings.Booking{Name: "Jo", Phone: "0400"})
	require.Equal(t, "Name: Jo\nPhone: 0400", body)
}
