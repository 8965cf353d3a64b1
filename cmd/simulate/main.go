// Command simulate plays full games of Power-Up Ludo against itself with
// random legal moves. It is a soak tool for the rules engine: it reports
// win distribution, game length, capture and power-up counts, and flags
// games that stall in one phase without progressing.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/rfgarcia/powerup-ludo/game/engine"
	"github.com/urfave/cli/v3"
)

// stuckThreshold is how many consecutive iterations a game may spend with an
// unchanged (phase, turn, dice) snapshot before it is declared stuck.
const stuckThreshold = 50

type gameStats struct {
	Turns      int
	Winner     int
	Captures   int
	Collected  int
	Activated  int
	Discarded  int
	Stuck      bool
	StuckPhase engine.Phase
}

type summary struct {
	Games      int
	Wins       map[int]int
	Unfinished int
	StuckGames int
	TotalTurns int
	Captures   int
	Collected  int
	Activated  int
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "Soak the rules engine with randomly played games",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "games",
				Value: 100,
				Usage: "Number of games to play",
			},
			&cli.IntFlag{
				Name:  "players",
				Value: 4,
				Usage: "Players per game (2-6)",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 0,
				Usage: "Base random seed (0 = time-based)",
			},
			&cli.IntFlag{
				Name:  "max-turns",
				Value: 2000,
				Usage: "Abort a game after this many turns",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print a line per game",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	games := int(cmd.Int("games"))
	players := int(cmd.Int("players"))
	maxTurns := int(cmd.Int("max-turns"))
	verbose := cmd.Bool("verbose")

	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	config := &engine.BoardConfig{
		Name:        "simulation",
		Description: "randomly played soak game",
		PlayerCount: players,
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return err
	}

	fmt.Printf("Simulating %d games, %d players, seed %d\n\n", games, players, seed)

	total := summary{Games: games, Wins: make(map[int]int)}

	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)
		stats, err := playGame(config, gameSeed, maxTurns)
		if err != nil {
			return fmt.Errorf("game %d (seed %d): %w", i, gameSeed, err)
		}

		total.TotalTurns += stats.Turns
		total.Captures += stats.Captures
		total.Collected += stats.Collected
		total.Activated += stats.Activated
		if stats.Stuck {
			total.StuckGames++
		}
		if stats.Winner >= 0 {
			total.Wins[stats.Winner]++
		} else {
			total.Unfinished++
		}

		if verbose {
			outcome := "unfinished"
			if stats.Winner >= 0 {
				outcome = fmt.Sprintf("seat %d wins", stats.Winner)
			}
			if stats.Stuck {
				outcome = fmt.Sprintf("STUCK in %s", stats.StuckPhase)
			}
			fmt.Printf("game %4d: seed %d, %d turns, %d captures, %d power-ups, %s\n",
				i, gameSeed, stats.Turns, stats.Captures, stats.Activated, outcome)
		}
	}

	printSummary(&total, players)

	if total.StuckGames > 0 {
		return fmt.Errorf("%d of %d games stalled without progressing", total.StuckGames, games)
	}
	return nil
}

// playGame runs one game to completion with a random-legal-move policy.
func playGame(config *engine.BoardConfig, seed int64, maxTurns int) (*gameStats, error) {
	eng, err := engine.NewEngineWithSeed(config, seed)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed ^ 0x5d2f))

	stats := &gameStats{Winner: -1}
	state := eng.GetState()

	type snapshot struct {
		phase engine.Phase
		turn  int
		dice  int
	}
	var last snapshot
	same := 0

	// movable carries the legal token set from the latest roll into the
	// moving phase.
	var movable []string

	for state.TurnCount < maxTurns {
		now := snapshot{state.Phase, state.TurnCount, state.DiceValue}
		if now == last {
			same++
			if same >= stuckThreshold {
				stats.Stuck = true
				stats.StuckPhase = state.Phase
				break
			}
		} else {
			last = now
			same = 0
		}

		switch state.Phase {
		case engine.PhaseRolling:
			maybeActivatePowerUp(eng, rng, stats)
			roll, err := eng.Roll()
			if err != nil {
				return nil, fmt.Errorf("roll: %w", err)
			}
			movable = roll.MovableTokens

		case engine.PhaseMoving:
			if len(movable) == 0 {
				return nil, fmt.Errorf("moving phase with no movable tokens")
			}
			mover := state.CurrentPlayer
			move, err := eng.MoveToken(movable[rng.Intn(len(movable))])
			if err != nil {
				return nil, fmt.Errorf("move: %w", err)
			}
			if move.CapturedTokenID != "" {
				stats.Captures++
			}
			if move.CollectedPowerUp != nil {
				stats.Collected++
			}
			if move.Finished && state.AllFinished(mover) {
				stats.Winner = mover
				stats.Turns = state.TurnCount
				return stats, nil
			}

		case engine.PhaseSkipping:
			if err := eng.AdvanceTurn(); err != nil {
				return nil, fmt.Errorf("advance: %w", err)
			}

		case engine.PhasePowerUpDiscard:
			pending := state.PendingDiscard
			if pending == nil {
				return nil, fmt.Errorf("discard phase with no pending request")
			}
			inv := state.Players[pending.PlayerIndex].PowerUps
			if _, err := eng.DiscardPowerUp(pending.PlayerIndex, rng.Intn(len(inv))); err != nil {
				return nil, fmt.Errorf("discard: %w", err)
			}
			stats.Discarded++
			stats.Collected++

		case engine.PhasePowerUpSelection:
			// The random player abandons selections rather than modeling
			// per-type target choices.
			if err := eng.CancelPowerUpSelection(); err != nil {
				return nil, fmt.Errorf("cancel selection: %w", err)
			}

		default:
			return nil, fmt.Errorf("unexpected phase %s", state.Phase)
		}
	}

	stats.Turns = state.TurnCount
	return stats, nil
}

// maybeActivatePowerUp occasionally plays a defensive power-up on the current
// player's own token. Offensive and relocation types need richer targeting
// than a random bot models, so failed attempts are simply skipped.
func maybeActivatePowerUp(eng *engine.Engine, rng *rand.Rand, stats *gameStats) {
	state := eng.GetState()
	if state.PowerUpUsed || rng.Intn(4) != 0 {
		return
	}
	player := state.Players[state.CurrentPlayer]
	if len(player.PowerUps) == 0 {
		return
	}

	idx := rng.Intn(len(player.PowerUps))
	target := engine.ActivateTarget{}

	switch player.PowerUps[idx].Type {
	case engine.Shield, engine.Immunity, engine.PhaseShift, engine.SafePassage, engine.Reverse, engine.DoubleMove:
		tokens := state.TokensOf(state.CurrentPlayer)
		tok := tokens[rng.Intn(len(tokens))]
		target.TokenID = tok.ID
	case engine.ExtraTurn, engine.BonusRoll:
		// no target
	default:
		return
	}

	if _, err := eng.ActivatePowerUp(state.CurrentPlayer, idx, target); err == nil {
		stats.Activated++
	}
}

func printSummary(total *summary, players int) {
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Games:        %d\n", total.Games)
	for seat := 0; seat < players; seat++ {
		fmt.Printf("  seat %d wins: %d\n", seat, total.Wins[seat])
	}
	fmt.Printf("Unfinished:   %d\n", total.Unfinished)
	fmt.Printf("Stuck:        %d\n", total.StuckGames)
	if total.Games > 0 {
		fmt.Printf("Avg turns:    %.1f\n", float64(total.TotalTurns)/float64(total.Games))
	}
	fmt.Printf("Captures:     %d\n", total.Captures)
	fmt.Printf("Collected:    %d\n", total.Collected)
	fmt.Printf("Activated:    %d\n", total.Activated)
}
