package game

import (
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/economy"
)

// Config collects every tunable rule of a game. Engines hold one Config and
// stamp it into each created game; per-game overrides are not supported.
type Config struct {
	StartingCash int
	Salary       int

	MinPlayers int
	MaxPlayers int

	HandSize int
	ShopSize int

	JailTurns     int
	HospitalTurns int

	// TaxRate is the fraction of on-hand cash charged by a tax tile.
	TaxRate float64

	// MaxRounds ends the game by asset comparison when exceeded; 0 disables
	// the cap.
	MaxRounds int

	// MessageLimit bounds the in-game text log.
	MessageLimit int

	// Card effect tuning.
	RobCap            int
	RedCardFine       int
	BlackCardFine     int
	LoanCardAmount    int
	BombHospitalTurns int

	Economy economy.Config
	Bank    economy.BankConfig

	// Board is the layout for games that do not bring their own; nil means
	// the default layout.
	Board *board.Board
}

// DefaultConfig returns the standard rule set.
func DefaultConfig() Config {
	return Config{
		StartingCash:      20000,
		Salary:            2000,
		MinPlayers:        2,
		MaxPlayers:        4,
		HandSize:          6,
		ShopSize:          4,
		JailTurns:         2,
		HospitalTurns:     2,
		TaxRate:           0.1,
		MaxRounds:         100,
		MessageLimit:      200,
		RobCap:            2000,
		RedCardFine:       1000,
		BlackCardFine:     1500,
		LoanCardAmount:    2000,
		BombHospitalTurns: 2,
		Economy:           economy.DefaultConfig(),
		Bank:              economy.DefaultBankConfig(),
	}
}
