package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateReport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user, err := client.CreateUser(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)

	when := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	report, err := client.CreateReport(ctx, user.ID, "leaf.jpg", "Rust", when)
	require.NoError(t, err)
	assert.NotZero(t, report.ID)
	assert.Equal(t, user.ID, report.UserID)
	assert.Equal(t, "leaf.jpg", report.ImageName)
	assert.Equal(t, "Rust", report.Label)
	assert.True(t, report.CreatedAt.Equal(when))
}

func TestClient_GetReportsByUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	alice, err := client.CreateUser(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)
	bob, err := client.CreateUser(ctx, "Bob", "b@x.com", "pw2")
	require.NoError(t, err)

	now := time.Now()
	for i, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		_, err := client.CreateReport(ctx, alice.ID, name, "Healthy", now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	_, err = client.CreateReport(ctx, bob.ID, "other.jpg", "Powdery", now)
	require.NoError(t, err)

	reports, err := client.GetReportsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	// Insertion order
	assert.Equal(t, "one.jpg", reports[0].ImageName)
	assert.Equal(t, "two.jpg", reports[1].ImageName)
	assert.Equal(t, "three.jpg", reports[2].ImageName)

	reports, err = client.GetReportsByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "other.jpg", reports[0].ImageName)
}

func TestClient_GetReportsByUser_Empty(t *testing.T) {
	client := newTestClient(t)

	reports, err := client.GetReportsByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
