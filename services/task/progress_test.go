package task

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPercentage(t *testing.T) {
	cases := []struct {
		in    float64
		want  int
		valid bool
	}{
		{0, 0, true},
		{100, 100, true},
		{40.4, 40, true},
		{99.5, 100, true},
		{-1, 0, false},
		{100.5, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}
	for _, tc := range cases {
		got, ok := ClampPercentage(tc.in)
		require.Equal(t, tc.valid, ok, "input %v", tc.in)
		if tc.valid {
			require.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}

func TestBucketForPercentage(t *testing.T) {
	require.Equal(t, BucketNotStarted, BucketForPercentage(0))
	require.Equal(t, BucketOnHold, BucketForPercentage(1))
	require.Equal(t, BucketOnHold, BucketForPercentage(50))
	require.Equal(t, BucketInProgress, BucketForPercentage(51))
	require.Equal(t, BucketInProgress, BucketForPercentage(99))
	require.Equal(t, BucketCompleted, BucketForPercentage(100))
}

func TestDefaultPercentageForBucket(t *testing.T) {
	require.Equal(t, 0, DefaultPercentageForBucket(BucketNotStarted))
	require.Equal(t, 1, DefaultPercentageForBucket(BucketOnHold))
	require.Equal(t, 51, DefaultPercentageForBucket(BucketInProgress))
	require.Equal(t, 100, DefaultPercentageForBucket(BucketCompleted))
	require.Equal(t, 0, DefaultPercentageForBucket(StatusBucket("bogus")))
}

func TestBucketRoundTrip(t *testing.T) {
	for _, b := range []StatusBucket{BucketNotStarted, BucketOnHold, BucketInProgress, BucketCompleted} {
		require.Equal(t, b, BucketForPercentage(DefaultPercentageForBucket(b)))
	}
}

func TestTicketStatusFor(t *testing.T) {
	require.Equal(t, TicketOpen, ticketStatusFor(0))
	require.Equal(t, TicketOpen, ticketStatusFor(99))
	require.Equal(t, TicketClosed, ticketStatusFor(100))
}
