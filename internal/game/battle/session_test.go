package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
	"github.com/avery-kellough/scrapforce/internal/testutil"
)

func TestNewSessionLayout(t *testing.T) {
	sess, err := NewSession(
		testutil.Squad(t, "player", bot.OwnerPlayer, 2),
		testutil.Squad(t, "rival", bot.OwnerRival, 3),
	)
	require.NoError(t, err)

	assert.Equal(t, 5, sess.Size())
	for i := 0; i < 2; i++ {
		assert.True(t, sess.IsPlayerIndex(i), i)
	}
	for i := 2; i < 5; i++ {
		assert.False(t, sess.IsPlayerIndex(i), i)
	}
	assert.Len(t, sess.PlayerBots(), 2)
	assert.Len(t, sess.RivalBots(), 3)
}

func TestNewSessionResetsGauges(t *testing.T) {
	players := testutil.Squad(t, "player", bot.OwnerPlayer, 1)
	players[0].AddCharge(80)

	sess, err := NewSession(players, testutil.Squad(t, "rival", bot.OwnerRival, 1))
	require.NoError(t, err)

	assert.Equal(t, 0.0, sess.Bot(0).Charge)
}

func TestNewSessionRejectsBadSquads(t *testing.T) {
	one := testutil.Squad(t, "ok", bot.OwnerPlayer, 1)
	four := testutil.Squad(t, "big", bot.OwnerRival, SquadSize+1)

	_, err := NewSession(nil, one)
	assert.Error(t, err)
	_, err = NewSession(one, nil)
	assert.Error(t, err)
	_, err = NewSession(one, four)
	assert.Error(t, err)
}

func TestNewSessionRejectsKnockedOutEntrant(t *testing.T) {
	players := testutil.Squad(t, "player", bot.OwnerPlayer, 1)
	players[0].ApplyDamage(parts.SlotHead, 999)

	_, err := NewSession(players, testutil.Squad(t, "rival", bot.OwnerRival, 1))
	assert.Error(t, err)
}

func TestSessionBotOutOfRange(t *testing.T) {
	sess := duel(t, 10, 10)
	assert.Nil(t, sess.Bot(-1))
	assert.Nil(t, sess.Bot(sess.Size()))
}

func TestSessionLivingFiltersKnockouts(t *testing.T) {
	sess, err := NewSession(
		testutil.Squad(t, "player", bot.OwnerPlayer, 2),
		testutil.Squad(t, "rival", bot.OwnerRival, 2),
	)
	require.NoError(t, err)
	sess.Bot(2).ApplyDamage(parts.SlotHead, 999)

	assert.Equal(t, []int{0, 1, 3}, sess.Living())
	assert.Equal(t, []int{3}, sess.LivingOpponents(0))
	assert.Equal(t, []int{0, 1}, sess.LivingOpponents(3))
	assert.Equal(t, []int{0, 1}, sess.LivingAllies(0))
	assert.Equal(t, []int{3}, sess.LivingAllies(2), "a knocked-out bot is not its own living ally")
}

func TestSessionSideDefeated(t *testing.T) {
	sess := duel(t, 10, 10)
	assert.False(t, sess.SideDefeated(true))
	assert.False(t, sess.SideDefeated(false))

	sess.Bot(1).ApplyDamage(parts.SlotHead, 999)
	assert.True(t, sess.SideDefeated(false))
	assert.False(t, sess.SideDefeated(true))
}

func TestSessionLogIsCopied(t *testing.T) {
	sess := duel(t, 10, 10)
	sess.Append(ResolvedAction{AttackerName: "ally"})

	log := sess.Log()
	require.Len(t, log, 1)
	log[0].AttackerName = "tampered"

	assert.Equal(t, "ally", sess.Log()[0].AttackerName)
}
