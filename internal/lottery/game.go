package lottery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	// PlayerCount is the fixed board size.
	PlayerCount = 3
	// MaxNumber is the largest number the backend oracle produces.
	MaxNumber = 99999
)

// Player is one board entry. Transitions: unrolled -> rolled -> locked; a
// locked number is immutable.
type Player struct {
	Name    string
	Number  *int
	Locked  bool
	Rolling bool
}

// Snapshot is a read-only copy of the board for rendering.
type Snapshot struct {
	Players     []Player
	HouseNumber *int
	Drawing     bool
	DrawDone    bool
	Err         string
}

// Game owns one lottery session: the players, the house draw and the
// draw/reset flow. All state is behind the mutex; it is never held across a
// roll request.
type Game struct {
	mu      sync.Mutex
	roller  Roller
	surface bool

	players     []Player
	houseNumber *int
	drawing     bool
	drawDone    bool
	lastErr     string
}

type Option func(*Game)

// WithErrorSurface records roll/draw failures in the snapshot instead of
// silently swallowing them.
func WithErrorSurface() Option {
	return func(g *Game) { g.surface = true }
}

func NewGame(roller Roller, opts ...Option) *Game {
	g := &Game{roller: roller}
	for _, opt := range opts {
		opt(g)
	}
	g.players = initialPlayers()
	return g
}

func initialPlayers() []Player {
	players := make([]Player, PlayerCount)
	for i := range players {
		players[i] = Player{Name: fmt.Sprintf("Player %d", i+1)}
	}
	return players
}

// Roll fetches a number for one player. Ignored while the player is locked
// or already rolling, and after the draw. A failed roll leaves the number
// unset.
func (g *Game) Roll(ctx context.Context, i int) {
	g.mu.Lock()
	if i < 0 || i >= len(g.players) || g.players[i].Locked || g.players[i].Rolling || g.drawDone {
		g.mu.Unlock()
		return
	}
	g.players[i].Rolling = true
	g.mu.Unlock()

	n, err := g.roller.Roll(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[i].Rolling = false
	if err != nil {
		if g.surface {
			g.lastErr = err.Error()
		}
		return
	}
	g.players[i].Number = &n
}

// Lock freezes a player's number. The presentation layer only offers this
// once a number exists; the controller does not enforce it.
func (g *Game) Lock(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.players) || g.drawDone {
		return
	}
	g.players[i].Locked = true
}

// Rename changes a player's display name until the player locks in.
func (g *Game) Rename(i int, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.players) || g.players[i].Locked {
		return
	}
	g.players[i].Name = name
}

// Draw fetches the house number and ends the round. The presentation layer
// enables it only once all players are locked.
func (g *Game) Draw(ctx context.Context) {
	g.mu.Lock()
	if g.drawing || g.drawDone {
		g.mu.Unlock()
		return
	}
	g.drawing = true
	g.mu.Unlock()

	n, err := g.roller.Roll(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawing = false
	if err != nil {
		if g.surface {
			g.lastErr = err.Error()
		}
		return
	}
	g.houseNumber = &n
	g.drawDone = true
}

// Reset restores the initial three-unrolled-player board and clears all draw
// state. Safe to call from any state.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players = initialPlayers()
	g.houseNumber = nil
	g.drawing = false
	g.drawDone = false
	g.lastErr = ""
}

// IsWinner reports whether player i matched the house number. Always false
// before the draw completes.
func (g *Game) IsWinner(i int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isWinnerLocked(i)
}

func (g *Game) isWinnerLocked(i int) bool {
	if i < 0 || i >= len(g.players) {
		return false
	}
	p := g.players[i]
	return g.drawDone && p.Locked && p.Number != nil && g.houseNumber != nil && *p.Number == *g.houseNumber
}

// AllLocked reports whether the draw may be offered.
func (g *Game) AllLocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo.EveryBy(g.players, func(p Player) bool { return p.Locked })
}

// Winners returns the names of all matching players once the draw is done.
func (g *Game) Winners() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	winners := lo.Filter(g.players, func(p Player, i int) bool { return g.isWinnerLocked(i) })
	return lo.Map(winners, func(p Player, _ int) string { return p.Name })
}

// Err returns the last surfaced roll/draw failure, empty unless the game was
// built with WithErrorSurface.
func (g *Game) Err() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Snapshot copies the board for rendering.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Players:     append([]Player(nil), g.players...),
		HouseNumber: g.houseNumber,
		Drawing:     g.drawing,
		DrawDone:    g.drawDone,
		Err:         g.lastErr,
	}
}

// FormatDigits renders a number as five zero-padded digits, or placeholders
// when no number is set. Display only; matching uses integer equality.
func FormatDigits(n *int) []string {
	if n == nil {
		return []string{"_", "_", "_", "_", "_"}
	}
	return strings.Split(fmt.Sprintf("%05d", *n), "")
}
