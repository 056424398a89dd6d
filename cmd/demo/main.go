// Command demo runs a fully automated game between bot players and prints
// the event stream and final standings to the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game"
	"github.com/tycoonfree/tycoon-server-go/internal/game/ai"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
)

var (
	numPlayers = flag.Int("players", 3, "number of bot players (2-4)")
	seed       = flag.Int64("seed", 0, "dice seed, 0 picks one from the clock")
	maxRounds  = flag.Int("rounds", 50, "round cap before asset comparison decides")
	verbose    = flag.Bool("v", false, "print every engine event")
)

var botNames = []string{"Ada", "Boris", "Cleo", "Dmitri"}

func main() {
	flag.Parse()
	if *numPlayers < 2 || *numPlayers > 4 {
		log.Fatalf("players must be 2-4, got %d", *numPlayers)
	}

	cfg := game.DefaultConfig()
	cfg.MaxRounds = *maxRounds
	engine := game.NewEngine(cfg, zap.NewNop())

	players := make([]game.PlayerSpec, *numPlayers)
	difficulties := []ai.Difficulty{ai.DifficultyEasy, ai.DifficultyNormal, ai.DifficultyHard}
	for i := range players {
		players[i] = game.PlayerSpec{
			ID:         fmt.Sprintf("bot-%d", i+1),
			Name:       botNames[i],
			AI:         true,
			Difficulty: difficulties[i%len(difficulties)],
		}
	}

	gameID, err := engine.CreateGame(game.GameSpec{Players: players, Seed: *seed})
	if err != nil {
		log.Fatalf("create game: %v", err)
	}

	done := false
	engine.Subscribe(gameID, func(ev rules.Event) {
		if ev.Type == rules.EventGameOver {
			done = true
		}
		if *verbose {
			fmt.Printf("%-20s %s %s\n", ev.Type, ev.PlayerID, ev.Detail)
		}
	})

	fmt.Printf("=== Tycoon autoplay: %d bots, game %s ===\n", *numPlayers, gameID)
	start := time.Now()
	for turns := 0; !done; turns++ {
		if turns > 10000 {
			fmt.Fprintln(os.Stderr, "game did not finish within 10000 turns")
			os.Exit(1)
		}
		if !engine.AutoPlayTurn(gameID) {
			fmt.Fprintln(os.Stderr, "engine refused to play the next turn")
			os.Exit(1)
		}
	}

	result, err := engine.Result(gameID)
	if err != nil {
		log.Fatalf("read result: %v", err)
	}
	fmt.Printf("\nFinished after %d rounds in %s\n", result.Rounds, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Winner: %s\n\n", result.Winner)
	for i, s := range result.Standings {
		fmt.Printf("%d. %-8s cash=%-7d assets=%-7d bankrupt=%v\n",
			i+1, s.Name, s.Cash, s.TotalAssets, s.Bankrupt)
	}
	fmt.Printf("\ndice rolls: %d, money moved: %d, cards played: %d\n",
		result.DiceRolls, result.MoneyMoved, result.CardsPlayed)
}
