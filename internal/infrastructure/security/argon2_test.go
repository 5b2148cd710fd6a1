package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/security"
)

// testParams keep hashing fast; production uses DefaultParams.
func testParams() security.Params {
	return security.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher := security.NewHasher(testParams())

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v="))

	assert.True(t, hasher.Verify("correct horse battery staple", hash))
	assert.False(t, hasher.Verify("correct horse battery stapl", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestHash_DistinctSalts(t *testing.T) {
	hasher := security.NewHasher(testParams())

	first, err := hasher.Hash("hunter2")
	require.NoError(t, err)
	second, err := hasher.Hash("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("hunter2", first))
	assert.True(t, hasher.Verify("hunter2", second))
}

func TestVerify_ParamsComeFromTheHash(t *testing.T) {
	// A hash produced under one parameter set must verify under a hasher
	// configured with another; the encoded form carries its own params.
	old := security.NewHasher(testParams())
	hash, err := old.Hash("migrating-password")
	require.NoError(t, err)

	current := security.NewHasher(security.DefaultParams())
	assert.True(t, current.Verify("migrating-password", hash))
}

func TestVerify_MalformedHash(t *testing.T) {
	hasher := security.NewHasher(testParams())

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	} {
		assert.False(t, hasher.Verify("anything", encoded), "encoded=%q", encoded)
	}
}
