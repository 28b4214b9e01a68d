package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

func TestSendRefusesSelf(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Handshakes.Send(context.Background(), "u1", "u1", models.RequestTypeDirect, "")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Handshakes.Send(context.Background(), "u1", "u2", models.RequestType("poke"), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendAllowsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)
	second, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	incoming, err := env.svc.Handshakes.Incoming(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, incoming, 2)

	outgoing, err := env.svc.Handshakes.Outgoing(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, outgoing, 2)

	assert.Len(t, env.notifier.ofType(TypeTravelRequestReceived), 2)
}

func TestAcceptFormsGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putUser(t, "u1", "Asha")
	env.putUser(t, "u2", "Ravi")
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:10"))

	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	res, err := env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.NoError(t, err)
	require.True(t, res.GroupFormed())
	assert.Equal(t, models.HandshakeAccepted, res.Request.Status)

	group := res.Group
	// acceptor first, built from the acceptor's request
	assert.Equal(t, []string{"u2", "u1"}, group.Members)
	assert.Equal(t, "r2", group.RequestID)
	assert.Equal(t, "09:10", group.Time)
	assert.Equal(t, models.GroupForming, group.Status)
	assert.Empty(t, group.ChatMessages)

	stored, err := env.svc.Groups.Get(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.Members, stored.Members)
	assert.Len(t, env.notifier.ofType(TypeGroupFormed), 2)

	// the original requests are left as they were
	r1, err := env.svc.Requests.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestActive, r1.Status)
}

func TestAcceptWithoutSharedSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "11:00"))

	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	res, err := env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.NoError(t, err)
	assert.False(t, res.GroupFormed())
	assert.Nil(t, res.Group)
	assert.Equal(t, models.HandshakeAccepted, res.Request.Status)
	assert.Empty(t, env.groups(t))
	assert.Len(t, env.notifier.ofType(TypeTravelRequestAccepted), 1)
}

func TestAcceptChecksRecipientAndState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	_, err = env.svc.Handshakes.Accept(ctx, hs.ID, "u1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.NoError(t, err)

	_, err = env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = env.svc.Handshakes.Reject(ctx, hs.ID, "u2")
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = env.svc.Handshakes.Accept(ctx, "missing", "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectAndCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)
	rejected, err := env.svc.Handshakes.Reject(ctx, hs.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.HandshakeRejected, rejected.Status)
	assert.Len(t, env.notifier.ofType(TypeTravelRequestDeclined), 1)

	hs, err = env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)
	_, err = env.svc.Handshakes.Cancel(ctx, hs.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	cancelled, err := env.svc.Handshakes.Cancel(ctx, hs.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.HandshakeRejected, cancelled.Status)

	incoming, err := env.svc.Handshakes.Incoming(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestAcceptNotifiesOutsideWriterLock(t *testing.T) {
	env := newTestEnv(t)
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:05"))
	hs, err := env.svc.Handshakes.Send(context.Background(), "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	requireWritersNotBlocked(t, env, func(svc *Services) error {
		_, err := svc.Handshakes.Accept(context.Background(), hs.ID, "u2")
		return err
	})
}

func TestAcceptStaysPendingWhenGroupNotSaved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:05"))
	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	groups := env.store.TravelGroups
	env.store.TravelGroups = failingPuts[models.TravelGroup]{Collection: groups}
	_, err = env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.Error(t, err)
	env.store.TravelGroups = groups

	stored, err := env.svc.Handshakes.Get(ctx, hs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandshakePending, stored.Status)
	assert.Empty(t, env.groups(t))
	assert.Empty(t, env.notifier.ofType(TypeGroupFormed))

	res, err := env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.NoError(t, err)
	assert.True(t, res.GroupFormed())
	assert.Len(t, env.groups(t), 1)
}

func TestAcceptRemovesGroupWhenHandshakeNotSaved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:05"))
	hs, err := env.svc.Handshakes.Send(ctx, "u1", "u2", models.RequestTypeDirect, "")
	require.NoError(t, err)

	handshakes := env.store.GroupRequests
	env.store.GroupRequests = failingPuts[models.GroupRequest]{Collection: handshakes}
	_, err = env.svc.Handshakes.Accept(ctx, hs.ID, "u2")
	require.Error(t, err)
	env.store.GroupRequests = handshakes

	stored, err := env.svc.Handshakes.Get(ctx, hs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandshakePending, stored.Status)
	assert.Empty(t, env.groups(t))
}
