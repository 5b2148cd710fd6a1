package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

func TestKind_MapsSentinelsToTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{domerrors.ErrNoCredential, domerrors.ErrUnauthenticated},
		{domerrors.ErrInvalidToken, domerrors.ErrUnauthenticated},
		{domerrors.ErrTokenRevoked, domerrors.ErrUnauthenticated},
		{domerrors.ErrInvalidCredentials, domerrors.ErrUnauthenticated},
		{domerrors.ErrNotAMember, domerrors.ErrForbidden},
		{domerrors.ErrAdminOnly, domerrors.ErrForbidden},
		{domerrors.ErrTicketNotFound, domerrors.ErrNotFound},
		{domerrors.ErrUserExists, domerrors.ErrConflict},
		{domerrors.ErrRequestPending, domerrors.ErrConflict},
		{domerrors.ErrRemoveOwner, domerrors.ErrInvalidOperation},
		{domerrors.ErrSameRole, domerrors.ErrInvalidOperation},
		{domerrors.ErrNotifyFailed, domerrors.ErrDependency},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, domerrors.Kind(tc.err), "kind of %v", tc.err)
	}
}

func TestKind_UnknownErrorHasNoKind(t *testing.T) {
	assert.Nil(t, domerrors.Kind(stderrors.New("boom")))
	assert.Nil(t, domerrors.Kind(nil))
}

func TestKind_SurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("loading ticket: %w", domerrors.ErrTicketNotFound)
	assert.Equal(t, domerrors.ErrNotFound, domerrors.Kind(err))
	require.ErrorIs(t, err, domerrors.ErrTicketNotFound)
}

func TestSentinels_RemainDistinguishable(t *testing.T) {
	// Both are unauthenticated, but handlers tell them apart for the
	// response code.
	require.ErrorIs(t, domerrors.ErrTokenRevoked, domerrors.ErrUnauthenticated)
	assert.NotErrorIs(t, domerrors.ErrTokenRevoked, domerrors.ErrInvalidToken)
	assert.NotErrorIs(t, domerrors.ErrInvalidToken, domerrors.ErrTokenRevoked)
}
