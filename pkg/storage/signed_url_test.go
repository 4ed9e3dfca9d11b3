package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, expiresAt, err := signer.Generate("job-1", "job-1/voters.csv")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	jobID, relPath, err := signer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "job-1/voters.csv", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, _, err := signer.Generate("job-1", "job-1/voters.csv")
	require.NoError(t, err)

	_, _, err = signer.Validate(token + "x")
	assert.Error(t, err)

	other := NewSignedURLSigner("different", time.Hour)
	_, _, err = other.Validate(token)
	assert.Error(t, err)
}

func TestSignedURLRejectsExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, _, err := signer.Generate("job-1", "job-1/voters.csv")
	require.NoError(t, err)

	signer.now = time.Now
	_, _, err = signer.Validate(token)
	assert.Error(t, err)
}

func TestSignedURLRequiresJobAndPath(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	_, _, err := signer.Generate("", "path")
	assert.Error(t, err)
}
