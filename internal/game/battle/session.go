// Package battle implements the real-time squad-combat core: the charge
// scheduler that decides who acts next, the resolver that turns a declared
// action into an outcome, and the state machine that mediates between the
// tick clock and player decision points.
package battle

import (
	"fmt"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
)

// SquadSize is the maximum number of bots per side.
const SquadSize = 3

// Session owns the live state of a single battle: the two squads in an
// index-addressed arena, the turn counter, and the append-only log.
//
// The arena layout is fixed at creation: player bots first, then rivals.
// Components address bots exclusively by arena index, so no combatant
// reference ever aliases outside the session.
type Session struct {
	arena      []*bot.Bot
	playerSize int

	// Turn counts dispatched actions, monotonically.
	Turn int

	log []ResolvedAction
}

// NewSession builds a session from the two squads.
//
// Precondition: each side has 1..SquadSize bots, none knocked out.
// Postcondition: arena indexes [0, len(players)) are player bots, the rest
// rivals; all gauges start at 0.
func NewSession(players, rivals []*bot.Bot) (*Session, error) {
	if len(players) == 0 || len(players) > SquadSize {
		return nil, fmt.Errorf("battle: player squad must have 1..%d bots, got %d", SquadSize, len(players))
	}
	if len(rivals) == 0 || len(rivals) > SquadSize {
		return nil, fmt.Errorf("battle: rival squad must have 1..%d bots, got %d", SquadSize, len(rivals))
	}
	s := &Session{playerSize: len(players)}
	for _, b := range players {
		if b.KnockedOut() {
			return nil, fmt.Errorf("battle: player bot %q enters already knocked out", b.Name)
		}
		b.ResetCharge()
		s.arena = append(s.arena, b)
	}
	for _, b := range rivals {
		if b.KnockedOut() {
			return nil, fmt.Errorf("battle: rival bot %q enters already knocked out", b.Name)
		}
		b.ResetCharge()
		s.arena = append(s.arena, b)
	}
	return s, nil
}

// Bot returns the bot at arena index i, or nil if i is out of range.
func (s *Session) Bot(i int) *bot.Bot {
	if i < 0 || i >= len(s.arena) {
		return nil
	}
	return s.arena[i]
}

// Size returns the arena size.
func (s *Session) Size() int { return len(s.arena) }

// IsPlayerIndex reports whether arena index i belongs to the player squad.
func (s *Session) IsPlayerIndex(i int) bool {
	return i >= 0 && i < s.playerSize
}

// Living returns the arena indexes of all bots not knocked out.
func (s *Session) Living() []int {
	var out []int
	for i, b := range s.arena {
		if !b.KnockedOut() {
			out = append(out, i)
		}
	}
	return out
}

// LivingOpponents returns the living arena indexes on the other side of i.
func (s *Session) LivingOpponents(i int) []int {
	var out []int
	for j, b := range s.arena {
		if s.IsPlayerIndex(j) != s.IsPlayerIndex(i) && !b.KnockedOut() {
			out = append(out, j)
		}
	}
	return out
}

// LivingAllies returns the living arena indexes on i's side, including i
// itself while it stands.
func (s *Session) LivingAllies(i int) []int {
	var out []int
	for j, b := range s.arena {
		if s.IsPlayerIndex(j) == s.IsPlayerIndex(i) && !b.KnockedOut() {
			out = append(out, j)
		}
	}
	return out
}

// SideDefeated reports whether every bot on the given side is knocked out.
func (s *Session) SideDefeated(player bool) bool {
	for i, b := range s.arena {
		if s.IsPlayerIndex(i) == player && !b.KnockedOut() {
			return false
		}
	}
	return true
}

// Append records a resolution in the battle log.
func (s *Session) Append(r ResolvedAction) {
	s.log = append(s.log, r)
}

// Log returns a copy of the append-only battle log.
func (s *Session) Log() []ResolvedAction {
	cp := make([]ResolvedAction, len(s.log))
	copy(cp, s.log)
	return cp
}

// PlayerBots returns the player-side bots in arena order.
func (s *Session) PlayerBots() []*bot.Bot {
	return s.arena[:s.playerSize]
}

// RivalBots returns the rival-side bots in arena order.
func (s *Session) RivalBots() []*bot.Bot {
	return s.arena[s.playerSize:]
}
